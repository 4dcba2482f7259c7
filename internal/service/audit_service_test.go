package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"ai-model-advisor-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedLog struct {
	module  string
	message string
	details map[string]interface{}
}

type fakeILogger struct {
	mu   sync.Mutex
	logs []capturedLog
}

func (l *fakeILogger) record(module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, capturedLog{module: module, message: message, details: details})
}

func (l *fakeILogger) Debug(module, message string, details map[string]interface{}) {
	l.record(module, message, details)
}
func (l *fakeILogger) Info(module, message string, details map[string]interface{}) {
	l.record(module, message, details)
}
func (l *fakeILogger) Warn(module, message string, details map[string]interface{}) {
	l.record(module, message, details)
}
func (l *fakeILogger) Error(module, message string, details map[string]interface{}) {
	l.record(module, message, details)
}
func (l *fakeILogger) Sync() error { return nil }

func TestAuditServiceRecordsEvent(t *testing.T) {
	fake := &fakeILogger{}
	svc := NewAuditService(fake)

	evt := events.BaseEvent{
		Type:       events.EventSessionReset,
		Data:       map[string]interface{}{"user_id": "u-1"},
		OccurredAt: time.Now(),
	}

	err := svc.HandleEvent(context.Background(), evt)

	require.NoError(t, err)
	require.Len(t, fake.logs, 1)
	assert.Equal(t, "audit", fake.logs[0].module)
	assert.Equal(t, events.EventSessionReset, fake.logs[0].details["event_type"])
	assert.Equal(t, evt.Data, fake.logs[0].details["payload"])
}
