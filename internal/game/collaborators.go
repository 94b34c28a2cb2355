package game

// Terrain answers ground elevation queries. Implementations should be
// deterministic; non-finite replies are tolerated and replaced with 0.
type Terrain interface {
	ElevationAt(x, z float64) float64
}

// Feedback receives fire-and-forget presentation requests. The simulation
// never reads anything back from it.
type Feedback interface {
	SpawnEffect(kind string, pos Vec3, intensity float64)
	ShowNumber(pos Vec3, value int, critical bool)
	ShowMessage(text string)
}

// Progression is notified once when a combatant dies.
type Progression interface {
	GrantCurrency(amount int)
	ShowVictory(name string)
}

// Interactor handles the interact intent (doors, pickups, bonfires).
type Interactor interface {
	Interact(id CombatantID, pos Vec3)
}

// Collaborators bundles the optional external subsystems. Any nil member
// is treated as a no-op.
type Collaborators struct {
	Terrain     Terrain
	Feedback    Feedback
	Progression Progression
	Interactor  Interactor
}

// FlatTerrain is a constant-elevation ground.
type FlatTerrain float64

func (f FlatTerrain) ElevationAt(x, z float64) float64 { return float64(f) }

type noopFeedback struct{}

func (noopFeedback) SpawnEffect(string, Vec3, float64) {}
func (noopFeedback) ShowNumber(Vec3, int, bool)        {}
func (noopFeedback) ShowMessage(string)                {}

type noopProgression struct{}

func (noopProgression) GrantCurrency(int)  {}
func (noopProgression) ShowVictory(string) {}

type noopInteractor struct{}

func (noopInteractor) Interact(CombatantID, Vec3) {}

// withDefaults fills every nil collaborator with a no-op.
func (c Collaborators) withDefaults() Collaborators {
	if c.Terrain == nil {
		c.Terrain = FlatTerrain(0)
	}
	if c.Feedback == nil {
		c.Feedback = noopFeedback{}
	}
	if c.Progression == nil {
		c.Progression = noopProgression{}
	}
	if c.Interactor == nil {
		c.Interactor = noopInteractor{}
	}
	return c
}
