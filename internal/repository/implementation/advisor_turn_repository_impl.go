package implementation

import (
	"context"
	"errors"

	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/internal/mapper"
	"ai-model-advisor-be/internal/model"
	"ai-model-advisor-be/internal/repository/contract"
	"ai-model-advisor-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdvisorTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AdvisorMapper
}

func NewAdvisorTurnRepository(db *gorm.DB) contract.AdvisorTurnRepository {
	return &AdvisorTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewAdvisorMapper(),
	}
}

func (r *AdvisorTurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AdvisorTurnRepositoryImpl) Create(ctx context.Context, turn *entity.AdvisorTurn) error {
	m := r.mapper.TurnToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.TurnToEntity(m)
	return nil
}

func (r *AdvisorTurnRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdvisorTurn, error) {
	var m model.AdvisorTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TurnToEntity(&m), nil
}

func (r *AdvisorTurnRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AdvisorTurn, error) {
	var models []*model.AdvisorTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AdvisorTurn, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TurnToEntity(m)
	}
	return entities, nil
}

func (r *AdvisorTurnRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AdvisorTurn{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AdvisorTurnRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.AdvisorTurn{}).Error
}
