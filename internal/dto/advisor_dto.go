package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-model-advisor-be/pkg/store"
)

type SubmitTurnRequest struct {
	Message        string   `json:"message"`
	FileReferences []string `json:"file_references,omitempty" validate:"max=5"` // Uploaded file names to inline into the message
}

type SubmitTurnResponse struct {
	Reply     string                `json:"reply"`
	Category  string                `json:"category"`
	Proceeded bool                  `json:"proceeded"`
	Selected  *store.Recommendation `json:"selected,omitempty"`
}

type TurnHistoryResponse struct {
	Id             uuid.UUID             `json:"id"`
	Role           string                `json:"role"`
	Content        string                `json:"content"`
	Recommendation *store.Recommendation `json:"recommendation,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type ResetSessionResponse struct {
	Cleared bool `json:"cleared"`
}

type UploadFileResponse struct {
	FileName string `json:"file_name"`
	Size     int64  `json:"size"`
}

// TurnCompletedMessage is the internal queue payload consumed by the turn
// recorder.
type TurnCompletedMessage struct {
	UserId         uuid.UUID             `json:"user_id"`
	UserContent    string                `json:"user_content"`
	ReplyContent   string                `json:"reply_content"`
	Recommendation *store.Recommendation `json:"recommendation,omitempty"`
	CompletedAt    time.Time             `json:"completed_at"`
}
