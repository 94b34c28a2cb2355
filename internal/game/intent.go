package game

// Intent is a per-tick snapshot of what a controller wants. Move, Sprint,
// Block and LockOn are held values; the remaining flags are one-shot and
// are consumed at most once.
type Intent struct {
	Move   Vec3        `json:"move"`
	Sprint bool        `json:"sprint"`
	Block  bool        `json:"block"`
	LockOn CombatantID `json:"lockOn"`

	Roll     bool `json:"roll"`
	Attack   bool `json:"attack"`
	Heavy    bool `json:"heavy"`
	Cast     bool `json:"cast"`
	Interact bool `json:"interact"`
}

// merge folds a newer snapshot into a pending one. Held values take the
// newest reading; one-shot flags accumulate until consumed.
func (i Intent) merge(next Intent) Intent {
	i.Move = next.Move
	i.Sprint = next.Sprint
	i.Block = next.Block
	i.LockOn = next.LockOn
	i.Roll = i.Roll || next.Roll
	i.Attack = i.Attack || next.Attack
	i.Heavy = i.Heavy || next.Heavy
	i.Cast = i.Cast || next.Cast
	i.Interact = i.Interact || next.Interact
	return i
}

// consumeOneShots returns the intent with one-shot flags and clears them
// on the stored copy.
func (i *Intent) consumeOneShots() Intent {
	out := *i
	i.Roll = false
	i.Attack = false
	i.Heavy = false
	i.Cast = false
	i.Interact = false
	return out
}
