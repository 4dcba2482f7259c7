package contract

import (
	"context"

	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/internal/repository/specification"
)

type CatalogModelRepository interface {
	Create(ctx context.Context, catalogModel *entity.CatalogModel) error
	Upsert(ctx context.Context, catalogModel *entity.CatalogModel) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CatalogModel, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CatalogModel, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
