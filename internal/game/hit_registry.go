package game

// HitKey identifies one execute step of one attack instance against one defender.
type HitKey struct {
	InstanceID uint64
	Step       int
	AttackerID CombatantID
	DefenderID CombatantID
}

// HitRegistry deduplicates damage so a swing harms each defender once per step.
type HitRegistry struct {
	records map[HitKey]float64 // remaining lifetime in seconds
	limit   int
}

// NewHitRegistry creates a registry holding at most limit live records.
func NewHitRegistry(limit int) *HitRegistry {
	if limit <= 0 {
		limit = 4096
	}
	return &HitRegistry{
		records: make(map[HitKey]float64, 64),
		limit:   limit,
	}
}

// Register records a hit. It returns false if a live record already exists
// (the hit must be ignored) or the registry is full.
func (r *HitRegistry) Register(key HitKey, ttl float64) bool {
	if _, live := r.records[key]; live {
		return false
	}
	if len(r.records) >= r.limit {
		return false
	}
	if ttl <= 0 {
		ttl = 1e-6
	}
	r.records[key] = ttl
	return true
}

// Full reports whether new records are being refused.
func (r *HitRegistry) Full() bool { return len(r.records) >= r.limit }

// Has reports whether a live record exists.
func (r *HitRegistry) Has(key HitKey) bool {
	_, ok := r.records[key]
	return ok
}

// Tick ages every record and expires the ones that ran out.
func (r *HitRegistry) Tick(dt float64) {
	for k, ttl := range r.records {
		ttl -= dt
		if ttl <= 0 {
			delete(r.records, k)
			continue
		}
		r.records[k] = ttl
	}
}

// Forget drops every record belonging to an attack instance.
func (r *HitRegistry) Forget(instanceID uint64) {
	for k := range r.records {
		if k.InstanceID == instanceID {
			delete(r.records, k)
		}
	}
}

// ForgetCombatant drops records where id is attacker or defender.
func (r *HitRegistry) ForgetCombatant(id CombatantID) {
	for k := range r.records {
		if k.AttackerID == id || k.DefenderID == id {
			delete(r.records, k)
		}
	}
}

// Len returns the number of live records.
func (r *HitRegistry) Len() int { return len(r.records) }
