// Command test-digest prints the daily unpaid digest without pushing
// anything, for checking the reminder content from a shell.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ycfang/orderbot/internal/bot"
	"github.com/ycfang/orderbot/internal/config"
	"github.com/ycfang/orderbot/internal/repository"
	"github.com/ycfang/orderbot/internal/storage"
	"github.com/ycfang/orderbot/pkg/database"
	"github.com/ycfang/orderbot/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{Level: "warn", OutputPath: "stderr", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db.DB, logger)
	menuRepo := repository.NewMenuRepository(db.DB, logger)
	orderRepo := repository.NewOrderRepository(db.DB, logger)
	library := storage.NewMenuLibrary(cfg.Bot.MenuImageDir, cfg.Server.BaseURL, cfg.Bot.MenuAliases, logger)

	orderBot, err := bot.New(db, userRepo, menuRepo, orderRepo, library, cfg.Bot, logger)
	if err != nil {
		logger.Fatal("Failed to initialize bot", zap.Error(err))
	}

	summary, ok, err := orderBot.DailyUnpaidSummary(context.Background())
	if err != nil {
		logger.Fatal("Failed to build digest", zap.Error(err))
	}
	if !ok {
		fmt.Println("沒有未付款訂單，不會發送通知。")
		return
	}
	fmt.Println(summary)
}
