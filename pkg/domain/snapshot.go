package domain

// TurtleSnapshot is a read-only copy of one turtle taken after a frame.
type TurtleSnapshot struct {
	ID      TurtleID    `json:"id"`
	State   TurtleState `json:"state"`
	Status  string      `json:"status"`
	Pending int         `json:"pending"`
	// Primitives lists committed output first, then this frame's live output.
	Primitives []Primitive `json:"primitives"`
}

// Snapshot is the drawable state of every turtle after one frame, ordered by
// turtle creation. It shares nothing with the engine.
type Snapshot struct {
	Frame   uint64           `json:"frame"`
	Turtles []TurtleSnapshot `json:"turtles"`
}

// Turtle finds a turtle by id.
func (s *Snapshot) Turtle(id TurtleID) (TurtleSnapshot, bool) {
	if s == nil {
		return TurtleSnapshot{}, false
	}
	for _, t := range s.Turtles {
		if t.ID == id {
			return t, true
		}
	}
	return TurtleSnapshot{}, false
}
