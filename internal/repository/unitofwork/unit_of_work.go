package unitofwork

import (
	"context"

	"ai-model-advisor-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	AdvisorTurnRepository() contract.AdvisorTurnRepository
	CatalogModelRepository() contract.CatalogModelRepository
}
