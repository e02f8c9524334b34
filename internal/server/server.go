package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deviro/influencer-post-tracker/internal/config"
	"github.com/deviro/influencer-post-tracker/internal/gateway"
	"github.com/deviro/influencer-post-tracker/internal/service"
	"github.com/deviro/influencer-post-tracker/internal/store"
)

type Server struct {
	Config *config.Config
	Router *gin.Engine
	Logger *zap.Logger
	Server *http.Server

	Store     *store.Store
	Refresher *service.Refresher
}

func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	// Set gin mode
	gin.SetMode(cfg.Server.Mode)

	gw, err := newGateway(cfg, logger)
	if err != nil {
		return nil, err
	}

	st := store.New(gw, logger)
	refresher := service.NewRefresher(&cfg.Refresher, logger, st)

	// Create router
	router := gin.New()

	srv := &Server{
		Config:    cfg,
		Router:    router,
		Logger:    logger,
		Store:     st,
		Refresher: refresher,
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	return srv, nil
}

func newGateway(cfg *config.Config, logger *zap.Logger) (gateway.Gateway, error) {
	switch cfg.Backend.Mode {
	case config.BackendPostgres:
		db, err := gateway.NewPostgresDB(&cfg.Backend.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return gateway.NewPostgres(db, logger), nil
	default:
		return gateway.NewREST(cfg.Backend.REST, logger), nil
	}
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.Router.Use(gin.Recovery())

	// Logger middleware
	s.Router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
	}))

	// CORS middleware
	s.Router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
}

func (s *Server) setupRoutes() {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// API routes
	api := s.Router.Group("/api/v1")
	{
		api.GET("/state", s.handleState)
		api.POST("/reset", s.handleReset)

		campaigns := api.Group("/campaigns")
		{
			campaigns.GET("", s.handleFetchCampaigns)
			campaigns.POST("", s.handleCreateCampaign)
			campaigns.PATCH("/:id", s.handleUpdateCampaign)
			campaigns.DELETE("/:id", s.handleDeleteCampaign)
			campaigns.GET("/:id/influencers", s.handleFetchInfluencers)
		}

		influencers := api.Group("/influencers")
		{
			influencers.POST("", s.handleCreateInfluencer)
			influencers.PATCH("/:id", s.handleUpdateInfluencer)
			influencers.DELETE("/:id", s.handleDeleteInfluencer)
			influencers.GET("/:id/videos", s.handleFetchVideos)
		}

		videos := api.Group("/videos")
		{
			videos.POST("", s.handleCreateVideo)
			videos.PATCH("/:id", s.handleUpdateVideo)
			videos.DELETE("/:id", s.handleDeleteVideo)
		}
	}
}

func (s *Server) Start(ctx context.Context) error {
	// Start background refresher
	if err := s.Refresher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start refresher: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)

	s.Server = &http.Server{
		Addr:    addr,
		Handler: s.Router,
	}

	s.Logger.Info("Starting HTTP server", zap.String("addr", addr))

	if s.Config.Server.CertFile != "" && s.Config.Server.KeyFile != "" {
		return s.Server.ListenAndServeTLS(s.Config.Server.CertFile, s.Config.Server.KeyFile)
	}

	return s.Server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop refresher first
	s.Refresher.Stop()

	if s.Server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.Server.Shutdown(shutdownCtx)
}
