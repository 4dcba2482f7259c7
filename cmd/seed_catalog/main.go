package main

import (
	"context"
	"log"
	"os"
	"time"

	"ai-model-advisor-be/internal/entity"
	"ai-model-advisor-be/internal/repository/implementation"
	"ai-model-advisor-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type seedEntry struct {
	name      string
	provider  string
	taskTypes string
	notes     string
}

var catalogSeed = []seedEntry{
	{"GPT-4o", "OpenAI", "chat,summarization,analysis,code", "Strong general model with fast multimodal support"},
	{"GPT-4o mini", "OpenAI", "chat,summarization,classification", "Low cost variant for high volume workloads"},
	{"Claude 3.5 Sonnet", "Anthropic", "chat,analysis,code,long-context", "Long context, strong reasoning and writing"},
	{"Claude 3 Haiku", "Anthropic", "chat,classification", "Fast and cheap for simple tasks"},
	{"Gemini 1.5 Pro", "Google", "chat,summarization,long-context,multimodal", "Very long context window"},
	{"Gemini 1.5 Flash", "Google", "chat,classification,summarization", "Latency optimized"},
	{"Llama 3.1 70B", "Meta", "chat,code,analysis", "Open weights, self-hostable"},
	{"Mistral Large", "Mistral", "chat,code,analysis", "European hosting options"},
	{"Mixtral 8x7B", "Mistral", "chat,classification", "Open weights mixture of experts"},
	{"Whisper large-v3", "OpenAI", "transcription", "Speech to text"},
	{"Command R+", "Cohere", "chat,rag,summarization", "Tuned for retrieval augmented generation"},
	{"DeepSeek-V2", "DeepSeek", "chat,code", "Competitive coding performance at low cost"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("🚀 Seeding model catalog (%d entries)", len(catalogSeed))

	repo := implementation.NewCatalogModelRepository(db)
	ctx := context.Background()

	var failed int
	for _, entry := range catalogSeed {
		now := time.Now()
		catalogModel := &entity.CatalogModel{
			Id:        uuid.New(),
			Name:      entry.name,
			Provider:  entry.provider,
			TaskTypes: entry.taskTypes,
			Notes:     entry.notes,
			CreatedAt: now,
			UpdatedAt: &now,
		}
		if err := repo.Upsert(ctx, catalogModel); err != nil {
			color.Red("  ✗ %s: %v", entry.name, err)
			failed++
			continue
		}
		color.Green("  ✓ %s (%s)", entry.name, entry.provider)
	}

	if failed > 0 {
		color.Yellow("Done with %d failures", failed)
		os.Exit(1)
	}
	color.Cyan("Catalog seed complete")
}
