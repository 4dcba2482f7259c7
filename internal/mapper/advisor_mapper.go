package mapper

import (
	"encoding/json"

	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/internal/model"
	"ai-model-advisor-be/pkg/store"

	"gorm.io/datatypes"
)

type AdvisorMapper struct{}

func NewAdvisorMapper() *AdvisorMapper {
	return &AdvisorMapper{}
}

func (m *AdvisorMapper) TurnToEntity(t *model.AdvisorTurn) *entity.AdvisorTurn {
	if t == nil {
		return nil
	}
	var rec *store.Recommendation
	if len(t.Recommendation) > 0 {
		var parsed store.Recommendation
		// A row written before the recommendation column was structured may
		// hold junk; treat it as absent rather than failing the read.
		if err := json.Unmarshal(t.Recommendation, &parsed); err == nil && parsed.Name != "" {
			rec = &parsed
		}
	}
	return &entity.AdvisorTurn{
		Id:             t.Id,
		UserId:         t.UserId,
		Role:           t.Role,
		Content:        t.Content,
		Recommendation: rec,
		CreatedAt:      t.CreatedAt,
	}
}

func (m *AdvisorMapper) TurnToModel(t *entity.AdvisorTurn) *model.AdvisorTurn {
	if t == nil {
		return nil
	}
	var rec datatypes.JSON
	if t.Recommendation != nil {
		if data, err := json.Marshal(t.Recommendation); err == nil {
			rec = data
		}
	}
	return &model.AdvisorTurn{
		Id:             t.Id,
		UserId:         t.UserId,
		Role:           t.Role,
		Content:        t.Content,
		Recommendation: rec,
		CreatedAt:      t.CreatedAt,
	}
}

func (m *AdvisorMapper) CatalogToEntity(c *model.CatalogModel) *entity.CatalogModel {
	if c == nil {
		return nil
	}
	return &entity.CatalogModel{
		Id:        c.Id,
		Name:      c.Name,
		Provider:  c.Provider,
		TaskTypes: c.TaskTypes,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *AdvisorMapper) CatalogToModel(c *entity.CatalogModel) *model.CatalogModel {
	if c == nil {
		return nil
	}
	return &model.CatalogModel{
		Id:        c.Id,
		Name:      c.Name,
		Provider:  c.Provider,
		TaskTypes: c.TaskTypes,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
