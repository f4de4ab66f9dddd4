package terminal

// EventType discriminates supervisor events.
type EventType string

// Event types pushed to the UI boundary.
const (
	EventData EventType = "data"
	EventExit EventType = "exit"
)

// Event is a typed notification emitted by the supervisor. Data and exit
// events for one session preserve arrival order relative to each other.
type Event struct {
	Type      EventType
	SessionID string
	Data      []byte // set for EventData
	ExitCode  int    // set for EventExit
}
