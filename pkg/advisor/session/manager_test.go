package session

import (
	"fmt"
	"testing"

	"ai-model-advisor-be/internal/repository/memory"
	"ai-model-advisor-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestLoadOrCreateIsLazy(t *testing.T) {
	m := NewManager(memory.NewSessionRepository())

	s := m.LoadOrCreate("fresh")
	assert.Equal(t, "fresh", s.ID)
	assert.Nil(t, s.Selected)
	assert.Empty(t, s.History)

	// Not persisted until saved
	_, found := memory.NewSessionRepository().Get("fresh")
	assert.False(t, found)

	m.Save(s)
	again := m.LoadOrCreate("fresh")
	assert.Same(t, s, again)
}

func TestAppendHistoryBound(t *testing.T) {
	m := NewManager(memory.NewSessionRepository())
	s := m.LoadOrCreate("s1")

	for i := 0; i < 20; i++ {
		m.AppendHistory(s, store.RoleUser, fmt.Sprintf("turn %d", i))
	}

	assert.Len(t, s.History, store.HistoryLimit)
	// The 8 most recent, in order
	assert.Equal(t, "turn 12", s.History[0].Content)
	assert.Equal(t, "turn 19", s.History[store.HistoryLimit-1].Content)
}

func TestSetSelectionReplacesWholesale(t *testing.T) {
	m := NewManager(memory.NewSessionRepository())
	s := m.LoadOrCreate("s1")

	m.SetSelection(s, &store.Recommendation{Name: "A"}, "task a")
	m.SetSelection(s, &store.Recommendation{Name: "B"}, "task b")

	assert.Equal(t, "B", s.Selected.Name)
	assert.Equal(t, "task b", s.LastTask)
}

func TestResetClearsStateButKeepsSession(t *testing.T) {
	repo := memory.NewSessionRepository()
	m := NewManager(repo)

	s := m.LoadOrCreate("s1")
	m.SetSelection(s, &store.Recommendation{Name: "X"}, "some task")
	m.AppendHistory(s, store.RoleUser, "hello")
	m.Save(s)

	assert.NoError(t, m.Reset("s1"))

	after, found := repo.Get("s1")
	assert.True(t, found, "reset clears, never deletes")
	assert.Nil(t, after.Selected)
	assert.Empty(t, after.LastTask)
	assert.Empty(t, after.History)
}

func TestResetRefusedWhileBusy(t *testing.T) {
	m := NewManager(memory.NewSessionRepository())

	s := m.LoadOrCreate("s1")
	s.Busy = true
	m.SetSelection(s, &store.Recommendation{Name: "X"}, "task")
	m.Save(s)

	assert.ErrorIs(t, m.Reset("s1"), ErrBusy)
	assert.NotNil(t, s.Selected, "refused reset must not mutate state")
}

func TestResetUnknownSessionIsNoop(t *testing.T) {
	m := NewManager(memory.NewSessionRepository())
	assert.NoError(t, m.Reset("never-seen"))
}
