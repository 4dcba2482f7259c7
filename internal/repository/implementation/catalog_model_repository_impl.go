package implementation

import (
	"context"
	"errors"

	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/internal/mapper"
	"ai-model-advisor-be/internal/model"
	"ai-model-advisor-be/internal/repository/contract"
	"ai-model-advisor-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogModelRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AdvisorMapper
}

func NewCatalogModelRepository(db *gorm.DB) contract.CatalogModelRepository {
	return &CatalogModelRepositoryImpl{
		db:     db,
		mapper: mapper.NewAdvisorMapper(),
	}
}

func (r *CatalogModelRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CatalogModelRepositoryImpl) Create(ctx context.Context, catalogModel *entity.CatalogModel) error {
	m := r.mapper.CatalogToModel(catalogModel)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*catalogModel = *r.mapper.CatalogToEntity(m)
	return nil
}

// Upsert inserts the catalog entry or refreshes it when the name already
// exists. Used by the seeder so re-runs are safe.
func (r *CatalogModelRepositoryImpl) Upsert(ctx context.Context, catalogModel *entity.CatalogModel) error {
	m := r.mapper.CatalogToModel(catalogModel)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"provider", "task_types", "notes", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*catalogModel = *r.mapper.CatalogToEntity(m)
	return nil
}

func (r *CatalogModelRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CatalogModel, error) {
	var m model.CatalogModel
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CatalogToEntity(&m), nil
}

func (r *CatalogModelRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CatalogModel, error) {
	var models []*model.CatalogModel
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CatalogModel, len(models))
	for i, m := range models {
		entities[i] = r.mapper.CatalogToEntity(m)
	}
	return entities, nil
}

func (r *CatalogModelRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CatalogModel{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
