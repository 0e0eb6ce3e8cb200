package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	httpadapter "github.com/saralabs/sara-agent/internal/adapters/http"
	"github.com/saralabs/sara-agent/internal/adapters/llm"
	"github.com/saralabs/sara-agent/internal/adapters/messenger"
	firestorestore "github.com/saralabs/sara-agent/internal/adapters/storage/firestore"
	memstore "github.com/saralabs/sara-agent/internal/adapters/storage/memory"
	"github.com/saralabs/sara-agent/internal/app/conversation"
	"github.com/saralabs/sara-agent/internal/app/demo"
	"github.com/saralabs/sara-agent/internal/app/tools"
	"github.com/saralabs/sara-agent/internal/app/users"
	"github.com/saralabs/sara-agent/internal/config"
	"github.com/saralabs/sara-agent/internal/domain"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	var llmClient domain.LLMClient
	if cfg.UseMockLLM {
		log.Println("[LLM] Using mock LLM client")
		llmClient = llm.NewMock()
	} else {
		log.Printf("[LLM] Using OpenAI client (model=%s)", cfg.ModelName)
		llmClient = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.ModelName, cfg.OpenAIBaseURL)
	}

	var (
		userStore        domain.UserStore
		messageStore     domain.MessageStore
		reportStore      domain.ReportStore
		reportTokenStore domain.ReportTokenStore
		demoReportStore  domain.DemoReportStore
		demoProjectStore domain.DemoProjectStore
		demoRoleStore    domain.DemoRoleStore
		demoSessionStore domain.DemoSessionStore
		demoStatsStore   domain.DemoStatsStore
		seedMarkerStore  domain.SeedMarkerStore
	)

	switch cfg.StorageBackend {
	case "firestore":
		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}

		// One store, implements every persistence port.
		userStore = fsStore
		messageStore = fsStore
		reportStore = fsStore
		reportTokenStore = fsStore
		demoReportStore = fsStore
		demoProjectStore = fsStore
		demoRoleStore = fsStore
		demoSessionStore = fsStore
		demoStatsStore = fsStore
		seedMarkerStore = fsStore

	default:
		log.Println("[STORE] Using in-memory storage")
		userStore = memstore.NewUserStore()
		messageStore = memstore.NewMessageStore()

		reports := memstore.NewReportStore()
		reportStore = reports
		reportTokenStore = reports

		demoStore := memstore.NewDemoStore()
		demoReportStore = demoStore
		demoProjectStore = demoStore
		demoRoleStore = demoStore
		demoSessionStore = demoStore
		demoStatsStore = demoStore
		seedMarkerStore = demoStore
	}

	demoMgr := demo.NewManager(demoRoleStore, userStore, demoSessionStore, cfg.SiteURL)
	seeder := demo.NewSeeder(demoReportStore, demoProjectStore, demoStatsStore, seedMarkerStore, cfg.Mode)

	dispatcher := tools.NewDispatcher(reportStore, reportTokenStore, demoReportStore, demoProjectStore, demoMgr, cfg.SiteURL)
	orchestrator := conversation.NewOrchestrator(llmClient, dispatcher)

	resolver := users.NewResolver(userStore)
	svc := conversation.NewService(resolver, userStore, messageStore, reportStore, demoMgr, orchestrator, cfg.Mode)

	sender := messenger.NewClient(cfg.FBPageAccessToken)

	handler := httpadapter.NewServer(
		svc,
		demoMgr,
		seeder,
		userStore,
		messageStore,
		demoReportStore,
		demoProjectStore,
		sender,
		cfg.Mode,
		cfg.FBVerifyToken,
	)

	if cfg.Mode == domain.ModeDemo {
		if err := seeder.SeedIfNeeded(ctx); err != nil {
			log.Fatalf("error seeding demo data: %v", err)
		}
	}

	addr := ":" + cfg.Port
	log.Printf("Sara API listening on %s (mode=%s)", addr, cfg.Mode)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
