// Package web is the server-rendered front-end of the transcript assistant
package web

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/transcript-assistant/internal/web/views"
	"github.com/ethanbaker/transcript-assistant/pkg/chat"
	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"github.com/ethanbaker/transcript-assistant/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	chat_module "github.com/ethanbaker/transcript-assistant/internal/web/modules/chat"
	health_module "github.com/ethanbaker/transcript-assistant/internal/web/modules/health"
	transcribe_module "github.com/ethanbaker/transcript-assistant/internal/web/modules/transcribe"
	transcripts_module "github.com/ethanbaker/transcript-assistant/internal/web/modules/transcripts"
)

// Server is the web front-end: the three screens plus the JSON API
type Server struct {
	settings *utils.Settings
	engine   *gin.Engine
	store    *chat.Store
}

// NewServer wires every module to the given backend client and conversation store
func NewServer(settings *utils.Settings, client *sdk.Client, store *chat.Store) (*Server, error) {
	mode, err := chat.ParseMode(settings.ChatMode)
	if err != nil {
		return nil, err
	}

	querier, err := chat.NewQuerier(mode, client)
	if err != nil {
		return nil, err
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	options := views.Options{
		AutoFocusInput: settings.AutoFocusInput,
		ShowEmptyState: settings.ShowEmptyState,
	}

	// Add app level settings/routes
	engine := gin.Default()
	engine.HTMLRender = renderer
	engine.MaxMultipartMemory = settings.MaxUploadMemory
	engine.UseRawPath = true // Transcript ids may contain escaped slashes
	engine.NoRoute(noRoute(options))

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CORSAllowedOrigins,
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	engine.StaticFS("/static", http.FS(views.Static()))

	chatController := chat_module.NewController(store, querier, options)

	// Screens
	pages := engine.Group("/")
	chat_module.RegisterRoutes(pages, chatController)
	transcribe_module.RegisterRoutes(pages, transcribe_module.NewController(client, options))
	transcripts_module.RegisterRoutes(pages, transcripts_module.NewController(client, options))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")
	health_module.RegisterRoutes(baseGroup, client, store)
	chat_module.RegisterAPIRoutes(baseGroup, chatController, settings.APIKey)

	return &Server{
		settings: settings,
		engine:   engine,
		store:    store,
	}, nil
}

// Engine returns the gin engine serving the front-end
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until the listener fails
func (s *Server) Run() error {
	log.Printf("[WEB]: Serving on port %s, backend %s (%s mode)", s.settings.Port, s.settings.BackendURL, s.settings.ChatMode)
	return s.engine.Run(":" + s.settings.Port)
}

// Start builds the front-end from the settings and serves it along with the
// idle conversation sweeper
func Start(settings *utils.Settings) {
	store := chat.NewStore()

	sweeper, err := chat.NewSweeper(store, settings.SessionSweep, settings.SessionTTL)
	if err != nil {
		log.Fatal("[WEB]: Failed to schedule session sweeper: ", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	server, err := NewServer(settings, settings.NewClient(), store)
	if err != nil {
		log.Fatal("[WEB]: Failed to build server: ", err)
	}

	// Then after performing initial setup, start the server
	if err := server.Run(); err != nil {
		log.Fatal("[WEB]: Failed to start server: ", err)
	}
}

// noRoute answers unknown API paths with the JSON not-found response and
// everything else with the not-found page
func noRoute(options views.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			api_utils.NoRouteHandler(c)
			return
		}

		c.HTML(http.StatusNotFound, views.PageNotFound, views.Page{
			Title:   "Not found",
			Options: options,
		})
	}
}
