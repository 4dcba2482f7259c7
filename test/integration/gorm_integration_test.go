package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/internal/repository/specification"
	"ai-model-advisor-be/internal/repository/unitofwork"
	"ai-model-advisor-be/pkg/database"
	"ai-model-advisor-be/pkg/store"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.AdvisorTurnRepository())
	assert.NotNil(t, uow.CatalogModelRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Catalog Repository", func(t *testing.T) {
		count, err := uow.CatalogModelRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Catalog count: %d", count)
	})

	t.Run("Catalog Upsert Is Idempotent By Name", func(t *testing.T) {
		ctx := context.Background()
		name := "integration-test-model-" + uuid.NewString()

		first := &entity.CatalogModel{
			Id:        uuid.New(),
			Name:      name,
			Provider:  "TestLab",
			TaskTypes: "summarization",
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.CatalogModelRepository().Upsert(ctx, first))

		second := &entity.CatalogModel{
			Id:        uuid.New(),
			Name:      name,
			Provider:  "TestLab",
			TaskTypes: "summarization,chat",
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.CatalogModelRepository().Upsert(ctx, second))

		fetched, err := uow.CatalogModelRepository().FindOne(ctx, specification.ByName{Name: name})
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, "summarization,chat", fetched.TaskTypes)
	})

	t.Run("Turn Roundtrip With Recommendation", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()

		turn := &entity.AdvisorTurn{
			Id:      uuid.New(),
			UserId:  userId,
			Role:    store.RoleModel,
			Content: "integration test reply",
			Recommendation: &store.Recommendation{
				Name:     "GPT-4o",
				Price:    "$2.50/M tokens",
				Speed:    "Fast",
				Accuracy: "High",
				Provider: "OpenAI",
				Region:   "Global",
				Reason:   "integration test",
			},
			CreatedAt: time.Now(),
		}

		require.NoError(t, uow.AdvisorTurnRepository().Create(ctx, turn))
		defer func() {
			assert.NoError(t, uow.AdvisorTurnRepository().DeleteAllByUserId(ctx, userId))
		}()

		fetched, err := uow.AdvisorTurnRepository().FindOne(ctx, specification.ByUserID{UserID: userId})
		require.NoError(t, err)
		require.NotNil(t, fetched)
		require.NotNil(t, fetched.Recommendation)
		assert.Equal(t, "GPT-4o", fetched.Recommendation.Name)
	})
}
