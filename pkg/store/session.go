package store

// Recommendation is the finalized pick produced by the report stage.
// Identity is the Name field. Treated as immutable once stored on a session.
type Recommendation struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Speed    string `json:"speed"`
	Accuracy string `json:"accuracy"`
	Provider string `json:"provider"`
	Region   string `json:"region"`
	Reason   string `json:"reason"`
}

// HistoryEntry is one conversational turn kept as LLM context.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionState is the active advisor state for one session, held in memory.
//
// Selected and LastTask are set together and cleared together: a follow-up
// answer is only valid while the task that produced the selection is known.
// No internal locking - callers must hold the session permit before touching
// any field (see pkg/advisor/permit).
type SessionState struct {
	ID       string          `json:"id"`
	Selected *Recommendation `json:"selected"`
	LastTask string          `json:"last_task"`
	History  []HistoryEntry  `json:"history"`
	Busy     bool            `json:"busy"`
}

const (
	RoleUser  = "user"
	RoleModel = "model"

	// HistoryLimit bounds SessionState.History. Oldest entries evicted first.
	HistoryLimit = 8
)
