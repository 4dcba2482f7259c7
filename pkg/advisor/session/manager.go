package session

import (
	"errors"

	"ai-model-advisor-be/internal/repository/memory"
	"ai-model-advisor-be/pkg/store"
)

// ErrBusy is returned when a state mutation is attempted while a turn for the
// session is in flight.
var ErrBusy = errors.New("session busy")

// Manager owns access to advisor session state. It holds no locks of its own:
// all callers must hold the session's permit (pkg/advisor/permit) before
// reading or mutating state through it.
type Manager struct {
	sessionRepo *memory.SessionRepository
}

func NewManager(sessionRepo *memory.SessionRepository) *Manager {
	return &Manager{sessionRepo: sessionRepo}
}

// LoadOrCreate retrieves the in-memory state for sessionID, creating an empty
// one lazily on the first turn.
func (m *Manager) LoadOrCreate(sessionID string) *store.SessionState {
	session, found := m.sessionRepo.Get(sessionID)
	if !found {
		session = &store.SessionState{
			ID:      sessionID,
			History: make([]store.HistoryEntry, 0, store.HistoryLimit),
		}
	}
	return session
}

// Save persists session state back to the repository.
func (m *Manager) Save(session *store.SessionState) {
	m.sessionRepo.Save(session)
}

// AppendHistory records one turn, enforcing the bounded-FIFO invariant:
// at most store.HistoryLimit entries, oldest evicted first.
func (m *Manager) AppendHistory(session *store.SessionState, role, content string) {
	session.History = append(session.History, store.HistoryEntry{Role: role, Content: content})
	if overflow := len(session.History) - store.HistoryLimit; overflow > 0 {
		session.History = session.History[overflow:]
	}
}

// SetSelection stores a finalized recommendation. Selected and LastTask are
// replaced together - one without the other is an invalid state.
func (m *Manager) SetSelection(session *store.SessionState, selected *store.Recommendation, task string) {
	session.Selected = selected
	session.LastTask = task
}

// Reset clears selection, task and history. Refused while a turn is in
// flight for the session.
func (m *Manager) Reset(sessionID string) error {
	session, found := m.sessionRepo.Get(sessionID)
	if !found {
		return nil
	}
	if session.Busy {
		return ErrBusy
	}
	session.Selected = nil
	session.LastTask = ""
	session.History = session.History[:0]
	m.sessionRepo.Save(session)
	return nil
}
