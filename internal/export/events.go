package export

// Events published on the bus during a run. Phase changes are published by
// the status machine as status.EventStatusChanged.
const (
	EventStarted             = "export.started"
	EventConversationWritten = "export.conversation_written"
	EventFinished            = "export.finished"
)

// Started is the payload of EventStarted, sent once the store is loaded.
type Started struct {
	Contacts int
	Messages int
}

// ConversationWritten is the payload of EventConversationWritten. Done counts
// completed pages, so it stays monotonic when pages render in parallel.
type ConversationWritten struct {
	Done      int
	Total     int
	ContactID int64
	Address   string
	Messages  int
	File      string
}
