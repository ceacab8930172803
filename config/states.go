package config

// StateID is the movement state of the simulated character.
type StateID int

const (
	StateNone StateID = iota
	Idle
	Walk
	Blocked
)

var stateNames = map[StateID]string{
	StateNone: "none",
	Idle:      "idle",
	Walk:      "walk",
	Blocked:   "blocked",
}

func (s StateID) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}
