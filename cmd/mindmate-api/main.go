package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/PabloGalante/mindmate/internal/adapters/http"
	"github.com/PabloGalante/mindmate/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/mindmate/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/mindmate/internal/adapters/storage/memory"
	"github.com/PabloGalante/mindmate/internal/app/chat"
	"github.com/PabloGalante/mindmate/internal/app/goals"
	"github.com/PabloGalante/mindmate/internal/app/journal"
	"github.com/PabloGalante/mindmate/internal/app/profile"
	"github.com/PabloGalante/mindmate/internal/app/therapy"
	"github.com/PabloGalante/mindmate/internal/config"
	"github.com/PabloGalante/mindmate/internal/domain"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	var (
		llmClient domain.CompletionClient
		err       error
	)

	switch cfg.LLMBackend {
	case config.LLMMock:
		log.Println("[LLM] Using MOCK completion client")
		llmClient = llm.NewMockClient()
	case config.LLMGemini:
		log.Println("[LLM] Using Gemini completion client")
		llmClient, err = llm.NewGeminiClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("error initializing Gemini client: %v", err)
		}
	default:
		log.Printf("[LLM] Using Groq completion client (model=%s)", cfg.GroqModel)
		llmClient, err = llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
		if err != nil {
			log.Fatalf("error initializing Groq client: %v", err)
		}
	}

	// Storage: Firestore or Memory. One store implements every port.
	var store interface {
		domain.UserStore
		domain.ChatStore
		domain.MoodStore
		domain.MemoryStore
		domain.JournalStore
		domain.GoalStore
		domain.ProfileStore
	}

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		store, err = firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
	default:
		log.Println("[STORE] Using in-memory storage")
		store = memstore.NewStore()
	}

	chatSvc := chat.NewService(llmClient, store, store, store, store)
	therapySvc := therapy.NewService(llmClient, store)
	journalSvc := journal.NewService(llmClient, store, store)
	goalsSvc := goals.NewService(llmClient, store, store, store)
	profileSvc := profile.NewService(llmClient, store, store, store, store, store, store)

	handler := httpadapter.NewServer(chatSvc, therapySvc, journalSvc, goalsSvc, profileSvc, store)

	addr := ":" + cfg.Port
	log.Println("MindMate API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
