// Package http is the admin dashboard API and the mount point for the
// LINE webhook. It is a thin adapter over the repositories; all chat
// semantics live in the bot package.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ycfang/orderbot/internal/config"
	"github.com/ycfang/orderbot/internal/repository"
	"github.com/ycfang/orderbot/internal/storage"
	"github.com/ycfang/orderbot/internal/webhook"
	"github.com/ycfang/orderbot/pkg/database"
)

// Server is the HTTP server adapter.
type Server struct {
	cfg        config.ServerConfig
	webCfg     config.WebConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	auth       *Auth
	webhook    *webhook.Handler
	menuDir    string
	uploadDir  string
	logger     *zap.Logger

	webhookPath string
}

// NewServer wires routes and middleware.
func NewServer(
	cfg config.ServerConfig,
	webCfg config.WebConfig,
	botCfg config.BotConfig,
	webhookPath string,
	db *database.DB,
	users *repository.UserRepository,
	menus *repository.MenuRepository,
	orders *repository.OrderRepository,
	files *storage.FileStore,
	library *storage.MenuLibrary,
	loc *time.Location,
	wh *webhook.Handler,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	s := &Server{
		cfg:         cfg,
		webCfg:      webCfg,
		router:      router,
		handlers:    NewHandlers(db, users, menus, orders, files, library, loc, logger),
		auth:        NewAuth(webCfg, logger),
		webhook:     wh,
		menuDir:     botCfg.MenuImageDir,
		uploadDir:   webCfg.UploadDir,
		webhookPath: webhookPath,
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("latency", time.Since(start).String()),
			zap.String("client_ip", c.ClientIP()))
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	// LINE platform callback
	s.router.POST(s.webhookPath, s.webhook.Handle)

	// Menu images and uploads are served straight from disk; LINE
	// fetches image messages from these URLs.
	s.router.Static("/static/random_menus", s.menuDir)
	s.router.Static("/static/uploads", s.uploadDir)

	s.router.POST("/login", s.auth.Login)
	s.router.POST("/logout", s.auth.Logout)

	api := s.router.Group("/api")
	api.Use(s.auth.Required())
	{
		api.GET("/dashboard", s.handlers.Dashboard)

		api.GET("/users", s.handlers.ListUsers)
		api.POST("/users", s.handlers.CreateUser)
		api.PUT("/users/:id", s.handlers.UpdateUser)
		api.DELETE("/users/:id", s.handlers.DeleteUser)

		api.GET("/accounting", s.handlers.Accounting)
		api.GET("/accounting/export", s.handlers.ExportAccounting)
		api.PUT("/orders/:id/amount", s.handlers.UpdateOrderAmount)
		api.POST("/orders/:id/toggle-paid", s.handlers.ToggleOrderPaid)
		api.DELETE("/orders/:id", s.handlers.DeleteOrder)

		api.GET("/history", s.handlers.History)

		api.POST("/menus/upload", s.handlers.UploadMenuImage)
	}
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
