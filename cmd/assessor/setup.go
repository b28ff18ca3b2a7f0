package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/LucaLucareli/assessor/internal/config"
	"github.com/LucaLucareli/assessor/internal/ledger"
	"github.com/LucaLucareli/assessor/internal/providers/faq"
	"github.com/LucaLucareli/assessor/internal/providers/llm"
	"github.com/LucaLucareli/assessor/internal/service/assessor"
	"github.com/LucaLucareli/assessor/internal/service/command"
	"github.com/LucaLucareli/assessor/internal/service/router"
	"github.com/LucaLucareli/assessor/internal/service/specialist"
	"github.com/LucaLucareli/assessor/internal/session"
	"github.com/LucaLucareli/assessor/internal/storage/sqlite"
	"github.com/LucaLucareli/assessor/pkg/log"
	"github.com/LucaLucareli/assessor/pkg/srv"
)

type App struct {
	Config   *config.AppConfig
	Engine   *assessor.Engine
	Commands *command.Router
	Services []srv.Service
}

func NewApp(ctx context.Context) *App {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)
	appCfg.RuntimePath = config.GetRuntimePath()

	services := make([]srv.Service, 0)

	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))
	lg := ledger.New(db)

	ai, err := llm.NewProvider(appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	retriever := faq.NewRetriever(appCfg.GetFAQPath())
	sessions := session.NewStore()

	rt := router.New(ai, sessions, appCfg.HistoryWindow)
	exec := specialist.NewExecutor(ai, sessions, lg, appCfg.HistoryWindow, appCfg.MaxToolRounds)
	faqHandler := specialist.NewFAQHandler(ai, retriever, sessions, appCfg.HistoryWindow)

	engine, err := assessor.NewEngine(rt, exec, faqHandler, sessions)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to assemble dialogue engine")
	}

	return &App{
		Config:   appCfg,
		Engine:   engine,
		Commands: command.New(command.NewCommands(lg, sessions)),
		Services: services,
	}
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
