package service

import (
	"context"

	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/internal/repository/unitofwork"
)

// catalogSource bridges the catalog repository to the recommendation
// pipeline, which only needs a read-only model listing.
type catalogSource struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewCatalogSource(uowFactory unitofwork.RepositoryFactory) *catalogSource {
	return &catalogSource{uowFactory: uowFactory}
}

func (c *catalogSource) ListModels(ctx context.Context) ([]*entity.CatalogModel, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.CatalogModelRepository().FindAll(ctx)
}
