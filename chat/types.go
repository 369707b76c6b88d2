package chat

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one transcript turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session holds all state owned by one user conversation: the transcript,
// the active knowledge scope, pending suggestions, and the cursor used to
// detect scope changes. It is only mutated through Service transitions.
type Session struct {
	ID                string
	ActiveGroupID     string
	LastLoadedGroupID string
	Messages          []Message
	Suggestions       []string

	// Asked flips once a question lands in this scope; suggestions never
	// repopulate after that.
	Asked bool

	// ContentLoaded is false when the scope's knowledge base could not be
	// resolved, which is a terminal warning state for the scope.
	ContentLoaded bool

	suggestionsTried bool
}
