package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/Trisha2910tinaaaaa/medsafe/aiservices"
	"github.com/Trisha2910tinaaaaa/medsafe/analyzer"
	"github.com/Trisha2910tinaaaaa/medsafe/config"
	"github.com/Trisha2910tinaaaaa/medsafe/data"
	"github.com/Trisha2910tinaaaaa/medsafe/document"
	"github.com/Trisha2910tinaaaaa/medsafe/drugbank"
	"github.com/Trisha2910tinaaaaa/medsafe/extraction"
	"github.com/Trisha2910tinaaaaa/medsafe/handlers"
	"github.com/Trisha2910tinaaaaa/medsafe/health"
	"github.com/Trisha2910tinaaaaa/medsafe/interfaces"
	"github.com/Trisha2910tinaaaaa/medsafe/logging"
	"github.com/Trisha2910tinaaaaa/medsafe/report"
	"github.com/Trisha2910tinaaaaa/medsafe/scheduler"
	"github.com/Trisha2910tinaaaaa/medsafe/server"
	"github.com/Trisha2910tinaaaaa/medsafe/validation"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize slog for structured logging to console and file
	logging.InitLogger("logs")

	// Build the immutable drug reference registry and publish it
	store := data.NewDrugContainer()
	store.SetRegistry(drugbank.BuildRegistry())
	store.SetServerStartTime(time.Now())

	registry := store.GetRegistry()
	logging.Info("Drug registry loaded",
		"known_drugs", registry.LexiconSize(),
		"interactions", registry.InteractionCount(),
	)

	httpClient := &http.Client{}

	// Remote collaborators, each optional and each with a fallback
	var translator interfaces.Translator
	if cfg.TranslationBaseURL != "" {
		translator = aiservices.NewHFTranslator(cfg.TranslationBaseURL, cfg.HFAPIKey, store)
	}

	var recognizer interfaces.Recognizer
	if cfg.NERURL != "" {
		recognizer = aiservices.NewHFRecognizer(cfg.NERURL, cfg.HFAPIKey, store)
	}

	explainer := aiservices.NewRemoteExplainer(cfg.GraniteURL, cfg.GraniteAPIKey, store)

	var docExtractor interfaces.DocumentExtractor
	if cfg.DocTextServiceURL != "" {
		docExtractor = document.NewRemoteExtractor(cfg.DocTextServiceURL, store)
	}

	extractor := extraction.NewExtractor(registry, translator, recognizer)
	processor := document.NewProcessor(docExtractor)
	renderer := report.NewRemoteRenderer(cfg.ReportServiceURL)

	orchestrator := analyzer.New(store, extractor, explainer, processor)
	validator := validation.NewRequestValidator()
	healthChecker := health.NewHealthChecker(store)

	handler := handlers.NewHandler(store, orchestrator, renderer, validator, healthChecker, cfg.MaxUploadSize)

	// Background availability probes keep the store's service map fresh
	probes := scheduler.NewScheduler(store, httpClient, []scheduler.ServiceEndpoint{
		{Service: aiservices.ServiceNER, URL: cfg.NERURL},
		{Service: aiservices.ServiceTranslation, URL: cfg.TranslationBaseURL},
		{Service: aiservices.ServiceExplanation, URL: cfg.GraniteURL},
		{Service: document.ServiceDocumentText, URL: cfg.DocTextServiceURL},
		{Service: report.ServiceReportRenderer, URL: cfg.ReportServiceURL},
	})
	if err := probes.Start(); err != nil {
		logging.Error("Failed to start availability scheduler", "error", err)
		os.Exit(1)
	}
	defer probes.Stop()

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
}
