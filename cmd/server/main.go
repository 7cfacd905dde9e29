package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ycfang/orderbot/internal/bot"
	"github.com/ycfang/orderbot/internal/config"
	"github.com/ycfang/orderbot/internal/dispatcher"
	httpserver "github.com/ycfang/orderbot/internal/interfaces/http"
	"github.com/ycfang/orderbot/internal/line"
	"github.com/ycfang/orderbot/internal/repository"
	"github.com/ycfang/orderbot/internal/scheduler"
	"github.com/ycfang/orderbot/internal/storage"
	"github.com/ycfang/orderbot/internal/webhook"
	"github.com/ycfang/orderbot/pkg/database"
	"github.com/ycfang/orderbot/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting office order bot",
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.DB, logger)
	menuRepo := repository.NewMenuRepository(db.DB, logger)
	orderRepo := repository.NewOrderRepository(db.DB, logger)
	messageRepo := repository.NewMessageRepository(db.DB, logger)

	ctx := context.Background()
	if _, err := userRepo.EnsureAdmin(ctx, "管理員"); err != nil {
		logger.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}

	loc, err := cfg.Bot.Location()
	if err != nil {
		logger.Fatal("Invalid timezone", zap.Error(err))
	}

	// Menu image storage
	library := storage.NewMenuLibrary(
		cfg.Bot.MenuImageDir,
		cfg.Server.BaseURL+"/static/random_menus",
		cfg.Bot.MenuAliases,
		logger,
	)
	files, err := storage.NewFileStore(cfg.Web.UploadDir, logger)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	// Ledger engine
	orderBot, err := bot.New(db, userRepo, menuRepo, orderRepo, library, cfg.Bot, logger)
	if err != nil {
		logger.Fatal("Failed to initialize bot", zap.Error(err))
	}

	// LINE messaging
	messenger, err := line.NewClient(cfg.Line.ChannelSecret, cfg.Line.ChannelToken, logger)
	if err != nil {
		logger.Fatal("Failed to initialize LINE client", zap.Error(err))
	}

	d := dispatcher.New(orderBot.Routes(), logger)
	verifier := webhook.NewVerifier(cfg.Line.ChannelSecret)
	webhookHandler := webhook.NewHandler(verifier, d, messageRepo, messenger, logger)

	// Daily digest
	hour, minute, err := config.ParseClock(cfg.Bot.DigestTime)
	if err != nil {
		logger.Fatal("Invalid digest time", zap.Error(err))
	}
	digest, err := scheduler.New(orderBot, messenger, cfg.Line.GroupID, hour, minute, loc, logger)
	if err != nil {
		logger.Fatal("Failed to initialize scheduler", zap.Error(err))
	}
	digest.Start()
	defer digest.Stop()

	server := httpserver.NewServer(
		cfg.Server,
		cfg.Web,
		cfg.Bot,
		cfg.Line.WebhookPath,
		db,
		userRepo,
		menuRepo,
		orderRepo,
		files,
		library,
		loc,
		webhookHandler,
		logger,
	)

	// Run until interrupted
	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down...")
		cancel()
	}()

	if err := server.Start(runCtx); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}
