package domain

// Field constants shared by mapstructure decoding, JSON payloads and log attributes.
const (
	// KeyTurtleID is the log attribute and JSON field carrying a turtle identity.
	KeyTurtleID = "turtle_id"
	// KeyCommand is the log attribute naming a command kind.
	KeyCommand = "command"
	// KeyIndex is the log attribute carrying a command's position in its queue.
	KeyIndex = "index"
)

// Style defaults applied to new turtles and restored by Reset.
const (
	DefaultStrokeWidth = 2.0
)
