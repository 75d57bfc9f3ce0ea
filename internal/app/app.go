package app

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/animus/internal/common"
	"github.com/ternarybob/animus/internal/handlers"
	"github.com/ternarybob/animus/internal/services/analysis"
	"github.com/ternarybob/animus/internal/services/documents"
	"github.com/ternarybob/animus/internal/services/export"
	"github.com/ternarybob/animus/internal/services/llm"
	"github.com/ternarybob/animus/internal/services/sessions"
	"github.com/ternarybob/animus/internal/services/summary"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	ctx       context.Context
	cancelCtx context.CancelFunc

	// Core services
	SessionStore    *sessions.Store
	Extractor       *documents.Extractor
	Provider        *llm.ProviderFactory
	SummaryService  *summary.Service
	AnalysisService *analysis.Service
	ExportService   *export.Service

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	SessionHandler  *handlers.SessionHandler
	AnalysisHandler *handlers.AnalysisHandler
}

// New creates and wires all application components
func New(config *common.Config) (*App, error) {
	logger := common.GetLogger()
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		Config:    config,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	a.SessionStore = sessions.NewStore()
	a.Extractor = documents.NewExtractor(logger)

	a.Provider = llm.NewProviderFactory(&config.Gemini, &config.Claude, &config.LLM, logger)

	summaryModel := a.Provider.GetDefaultModel(a.Provider.DetectProvider(""))
	a.SummaryService = summary.NewService(a.Provider, summaryModel, config.Analysis.SummaryTemperature, logger)

	generator := analysis.NewGenerator(a.Provider, logger)
	a.AnalysisService = analysis.NewService(config, a.SummaryService, generator, logger)

	a.ExportService = export.NewService(logger)

	a.APIHandler = handlers.NewAPIHandler(config, a.SessionStore)
	a.SessionHandler = handlers.NewSessionHandler(a.SessionStore, a.Extractor, logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.SessionStore, a.AnalysisService, a.ExportService, logger)

	logger.Info().
		Str("default_provider", string(config.LLM.DefaultProvider)).
		Bool("credential_set", config.HasCredential()).
		Bool("test_mode", config.Analysis.TestMode).
		Msg("Application components initialized")

	return a, nil
}

// Context returns the application context, cancelled on shutdown
func (a *App) Context() context.Context {
	return a.ctx
}

// Close releases all application resources
func (a *App) Close() error {
	a.cancelCtx()

	if a.Provider != nil {
		if err := a.Provider.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM provider")
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
