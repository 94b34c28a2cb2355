package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	EventBufferSize         = 1024                   // Circular buffer size
	MaxEventsPerSec         = 20000                  // Global rate limit
	MaxEventsPerCombatant   = 400                    // Per-combatant rate limit per second
	BatchFlushSize          = 64                     // Events per batch write
	BatchFlushInterval      = 100 * time.Millisecond // How often to flush
	CombatantLimiterCleanup = 5 * time.Minute        // Cleanup interval for combatant limiters
)

const numEventTypes = int(EventTypeDeath) + 1

// EventLog is the append-only combat audit trail. It is bounded and rate
// limited; dropping events never affects the simulation.
type EventLog struct {
	// Circular buffer (single producer: the tick goroutine)
	buffer    [EventBufferSize]Event
	writeHead uint64 // atomic - producer position
	readHead  uint64 // atomic - consumer position

	globalLimiter     *rate.Limiter
	combatantLimiters sync.Map // map[CombatantID]*limiterEntry

	// Async writer
	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	// File output
	filePath string
	file     *os.File
	out      *bufio.Writer
	fileMu   sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
	writeErrors  uint64 // atomic
	typeCounts   [numEventTypes]uint64
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64 // unix nano
}

// NewEventLog creates a new bounded event log
func NewEventLog() *EventLog {
	return &EventLog{
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan:      make(chan struct{}),
	}
}

// Start begins the async writer goroutine. An empty path keeps events in
// memory only (counted, never persisted).
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	el.filePath = filePath
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open event log %q: %w", filePath, err)
		}
		el.file = file
		el.out = bufio.NewWriterSize(file, 64*1024)
	}

	el.running.Store(true)
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()

	return nil
}

// Stop flushes pending events and closes the file.
func (el *EventLog) Stop() {
	if !el.running.Load() {
		return
	}
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.out != nil {
			el.out.Flush()
		}
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Emit adds an event. It returns false if rate limited or not running.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	// A boss spamming multi-hit attacks must not starve everyone else.
	if event.SourceID != 0 {
		if !el.limiterFor(event.SourceID).Allow() {
			atomic.AddUint64(&el.droppedCount, 1)
			return false
		}
	}

	head := atomic.AddUint64(&el.writeHead, 1)
	tail := atomic.LoadUint64(&el.readHead)

	// Full: drop the oldest (rolling window)
	if head-tail >= EventBufferSize {
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.droppedCount, 1)
	}

	event.Sequence = head
	el.buffer[head%EventBufferSize] = event

	atomic.AddUint64(&el.totalCount, 1)
	if int(event.Type) < numEventTypes {
		atomic.AddUint64(&el.typeCounts[event.Type], 1)
	}
	return true
}

// EmitSimple is a convenience method to emit an event with automatic creation
func (el *EventLog) EmitSimple(eventType EventType, tickNum uint64, source CombatantID, payload interface{}) bool {
	if !el.running.Load() {
		return false
	}
	return el.Emit(NewEvent(eventType, tickNum, source, payload))
}

func (el *EventLog) limiterFor(id CombatantID) *rate.Limiter {
	now := time.Now().UnixNano()
	if v, ok := el.combatantLimiters.Load(id); ok {
		entry := v.(*limiterEntry)
		entry.lastUsed.Store(now)
		return entry.limiter
	}

	entry := &limiterEntry{limiter: rate.NewLimiter(MaxEventsPerCombatant, MaxEventsPerCombatant/10)}
	entry.lastUsed.Store(now)
	actual, _ := el.combatantLimiters.LoadOrStore(id, entry)
	return actual.(*limiterEntry).limiter
}

// Forget drops the limiter of a despawned combatant.
func (el *EventLog) Forget(id CombatantID) {
	el.combatantLimiters.Delete(id)
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)

	for {
		select {
		case <-el.stopChan:
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					return
				}
				el.flushBatch(batch)
			}

		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(CombatantLimiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			el.cleanupLimiters()
		}
	}
}

func (el *EventLog) cleanupLimiters() {
	cutoff := time.Now().Add(-CombatantLimiterCleanup).UnixNano()
	el.combatantLimiters.Range(func(key, value interface{}) bool {
		if value.(*limiterEntry).lastUsed.Load() < cutoff {
			el.combatantLimiters.Delete(key)
		}
		return true
	})
}

func (el *EventLog) collectBatch(batch []Event) []Event {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	for i := tail + 1; i <= head && len(batch) < BatchFlushSize; i++ {
		batch = append(batch, el.buffer[i%EventBufferSize])
	}

	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}
	return batch
}

// flushBatch appends events as newline-delimited JSON.
func (el *EventLog) flushBatch(batch []Event) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.out == nil {
		return
	}

	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			atomic.AddUint64(&el.writeErrors, 1)
			continue
		}
		data = append(data, '\n')
		if _, err := el.out.Write(data); err != nil {
			atomic.AddUint64(&el.writeErrors, 1)
		}
	}
	if err := el.out.Flush(); err != nil {
		atomic.AddUint64(&el.writeErrors, 1)
	}
}

// CountByType returns how many events of t were accepted.
func (el *EventLog) CountByType(t EventType) uint64 {
	if int(t) >= numEventTypes {
		return 0
	}
	return atomic.LoadUint64(&el.typeCounts[t])
}

// GetStats returns metrics for monitoring
func (el *EventLog) GetStats() map[string]interface{} {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	byType := make(map[string]uint64, numEventTypes)
	for t := EventTypeTick; int(t) < numEventTypes; t++ {
		if n := el.CountByType(t); n > 0 {
			byType[t.String()] = n
		}
	}

	return map[string]interface{}{
		"total":       atomic.LoadUint64(&el.totalCount),
		"dropped":     atomic.LoadUint64(&el.droppedCount),
		"writeErrors": atomic.LoadUint64(&el.writeErrors),
		"pending":     head - tail,
		"running":     el.running.Load(),
		"byType":      byType,
	}
}

// GetDroppedCount returns the number of dropped events
func (el *EventLog) GetDroppedCount() uint64 {
	return atomic.LoadUint64(&el.droppedCount)
}

// GetTotalCount returns the total number of events accepted
func (el *EventLog) GetTotalCount() uint64 {
	return atomic.LoadUint64(&el.totalCount)
}
