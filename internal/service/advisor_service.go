package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-model-advisor-be/internal/constant"
	"ai-model-advisor-be/internal/dto"
	"ai-model-advisor-be/internal/repository/specification"
	"ai-model-advisor-be/internal/repository/unitofwork"
	"ai-model-advisor-be/pkg/advisor/classifier"
	"ai-model-advisor-be/pkg/advisor/content"
	"ai-model-advisor-be/pkg/advisor/permit"
	"ai-model-advisor-be/pkg/advisor/pipeline"
	"ai-model-advisor-be/pkg/advisor/session"
	"ai-model-advisor-be/pkg/events"
	"ai-model-advisor-be/pkg/llm"
	pktNats "ai-model-advisor-be/pkg/nats"
	"ai-model-advisor-be/pkg/store"

	"github.com/google/uuid"
)

// CategoryBusy is reported when a turn is refused because another turn for
// the same session is still in flight. It never reaches the classifier.
const CategoryBusy = "BUSY"

type IAdvisorService interface {
	SubmitTurn(ctx context.Context, userId uuid.UUID, req *dto.SubmitTurnRequest) (*dto.SubmitTurnResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID) ([]*dto.TurnHistoryResponse, error)
	ResetSession(ctx context.Context, userId uuid.UUID) (*dto.ResetSessionResponse, error)
}

// advisorService orchestrates one chat turn end to end: permit acquisition,
// classification, pipeline execution, state mutation and turn recording.
// The session key is the authenticated user id.
type advisorService struct {
	permits          *permit.Coordinator
	sessions         *session.Manager
	classifier       *classifier.Classifier
	runner           *pipeline.Runner
	normalizer       *content.Normalizer
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	historyPageSize  int
	logger           *log.Logger
}

func NewAdvisorService(
	permits *permit.Coordinator,
	sessions *session.Manager,
	classifier *classifier.Classifier,
	runner *pipeline.Runner,
	normalizer *content.Normalizer,
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	historyPageSize int,
	logger *log.Logger,
) IAdvisorService {
	return &advisorService{
		permits:          permits,
		sessions:         sessions,
		classifier:       classifier,
		runner:           runner,
		normalizer:       normalizer,
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		historyPageSize:  historyPageSize,
		logger:           logger,
	}
}

func (s *advisorService) SubmitTurn(ctx context.Context, userId uuid.UUID, req *dto.SubmitTurnRequest) (*dto.SubmitTurnResponse, error) {
	sessionID := userId.String()

	// Non-blocking: a second concurrent turn for the same session is refused
	// immediately, it never queues behind the first.
	if !s.permits.Acquire(sessionID) {
		s.logger.Printf("[ADVISOR] Session %s busy, turn refused", sessionID)
		return &dto.SubmitTurnResponse{
			Reply:    constant.ReplySessionBusy,
			Category: CategoryBusy,
		}, nil
	}
	defer s.permits.Release(sessionID)

	state := s.sessions.LoadOrCreate(sessionID)
	state.Busy = true
	s.sessions.Save(state)
	defer func() {
		state.Busy = false
		s.sessions.Save(state)
	}()

	message := s.inlineFileReferences(req.Message, req.FileReferences)

	res := s.classifier.Classify(ctx, message, historyMessages(state), state)
	s.logger.Printf("[ADVISOR] Session %s classified as %s", sessionID, res.Category)

	reply, selected := s.handleTurn(ctx, state, res)

	if res.Category != classifier.CategoryEmpty {
		s.sessions.AppendHistory(state, store.RoleUser, message)
		s.sessions.AppendHistory(state, store.RoleModel, reply)
		s.sessions.Save(state)
		s.recordTurn(ctx, userId, message, reply, selected)
	}

	return &dto.SubmitTurnResponse{
		Reply:     reply,
		Category:  string(res.Category),
		Proceeded: turnProceeded(res.Category, state),
		Selected:  selected,
	}, nil
}

// turnProceeded reports whether the turn made it past the intent gate into a
// recommendation path. Greetings, rejections and empty input never proceed.
func turnProceeded(category classifier.Category, state *store.SessionState) bool {
	switch category {
	case classifier.CategoryNewTask, classifier.CategoryFollowUp:
		return true
	case classifier.CategoryAlternative:
		return state.LastTask != ""
	}
	return false
}

// handleTurn routes a classified turn to its handler. It returns the reply
// plus the newly selected recommendation, nil when the turn selected nothing
// new.
func (s *advisorService) handleTurn(ctx context.Context, state *store.SessionState, res *classifier.Result) (string, *store.Recommendation) {
	switch res.Category {
	case classifier.CategoryEmpty:
		return constant.ReplyEmptyInput, nil

	case classifier.CategoryGreeting:
		return constant.ReplyGreeting, nil

	case classifier.CategoryRejected:
		return res.Reply, nil

	case classifier.CategoryFollowUp:
		// Selected is guaranteed non-nil by the classifier rule.
		return pipeline.FormatReport(state.Selected), nil

	case classifier.CategoryAlternative:
		if state.LastTask == "" {
			return constant.ReplyNeedTaskContext, nil
		}
		exclude := ""
		if state.Selected != nil {
			exclude = state.Selected.Name
		}
		result := s.runner.Run(ctx, state.LastTask, exclude)
		if result.Selected != nil {
			s.sessions.SetSelection(state, result.Selected, state.LastTask)
		}
		return result.Reply, result.Selected

	case classifier.CategoryNewTask:
		result := s.runner.Run(ctx, res.Task, "")
		if result.Selected != nil {
			s.sessions.SetSelection(state, result.Selected, res.Task)
		}
		return result.Reply, result.Selected
	}

	// Unreachable with a well-formed classifier result.
	return constant.ReplyNeedTaskContext, nil
}

// inlineFileReferences appends the normalized text of each uploaded file to
// the message. Unreadable files contribute nothing.
func (s *advisorService) inlineFileReferences(message string, refs []string) string {
	var b strings.Builder
	b.WriteString(message)
	for _, ref := range refs {
		text := s.normalizer.Normalize(ref)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "\n\n[Attached file: %s]\n%s", ref, text)
	}
	return b.String()
}

func historyMessages(state *store.SessionState) []llm.Message {
	messages := make([]llm.Message, 0, len(state.History))
	for _, entry := range state.History {
		messages = append(messages, llm.Message{Role: entry.Role, Content: entry.Content})
	}
	return messages
}

// recordTurn hands the completed turn to the async recorder and emits the
// completion event. Both are best-effort: the reply is already final.
func (s *advisorService) recordTurn(ctx context.Context, userId uuid.UUID, userContent, replyContent string, selected *store.Recommendation) {
	msg := dto.TurnCompletedMessage{
		UserId:         userId,
		UserContent:    userContent,
		ReplyContent:   replyContent,
		Recommendation: selected,
		CompletedAt:    time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Printf("[WARN] Failed to marshal turn message: %v", err)
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Printf("[WARN] Failed to enqueue turn for recording: %v", err)
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.EventTurnCompleted,
			Data: map[string]interface{}{
				"user_id":      userId,
				"has_selected": selected != nil,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Printf("[WARN] Failed to publish %s event: %v", events.EventTurnCompleted, err)
		}
	}
}

func (s *advisorService) GetHistory(ctx context.Context, userId uuid.UUID) ([]*dto.TurnHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	turns, err := uow.AdvisorTurnRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at"},
		specification.Pagination{Limit: s.historyPageSize},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.TurnHistoryResponse, 0, len(turns))
	for _, turn := range turns {
		result = append(result, &dto.TurnHistoryResponse{
			Id:             turn.Id,
			Role:           turn.Role,
			Content:        turn.Content,
			Recommendation: turn.Recommendation,
			CreatedAt:      turn.CreatedAt,
		})
	}
	return result, nil
}

// ResetSession clears the in-memory state and the persisted turn log.
// Refused with session.ErrBusy while a turn for the session is in flight.
// It takes the session permit itself so the busy check and the state wipe
// are atomic against a concurrent SubmitTurn.
func (s *advisorService) ResetSession(ctx context.Context, userId uuid.UUID) (*dto.ResetSessionResponse, error) {
	sessionID := userId.String()

	if !s.permits.Acquire(sessionID) {
		return nil, session.ErrBusy
	}
	defer s.permits.Release(sessionID)

	if err := s.sessions.Reset(sessionID); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AdvisorTurnRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type:       events.EventSessionReset,
			Data:       map[string]interface{}{"user_id": userId},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Printf("[WARN] Failed to publish %s event: %v", events.EventSessionReset, err)
		}
	}

	return &dto.ResetSessionResponse{Cleared: true}, nil
}
