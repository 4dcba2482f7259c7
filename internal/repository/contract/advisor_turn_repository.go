package contract

import (
	"context"

	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AdvisorTurnRepository interface {
	Create(ctx context.Context, turn *entity.AdvisorTurn) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdvisorTurn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AdvisorTurn, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
}
