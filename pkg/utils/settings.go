package utils

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ethanbaker/transcript-assistant/pkg/sdk"
	"gopkg.in/yaml.v3"
)

// Settings is the typed configuration of the web front-end and command-line client
type Settings struct {
	Port string

	// Backend
	BackendURL     string
	BackendAPIKey  string
	BackendTimeout time.Duration
	Routes         sdk.Routes
	ChatMode       string // "search" or "ask"

	// Screens
	AutoFocusInput bool
	ShowEmptyState bool

	// Chat sessions
	SessionTTL   time.Duration
	SessionSweep string // cron spec

	// HTTP
	CORSAllowedOrigins []string
	APIKey             string // Protects the JSON chat API when set
	MaxUploadMemory    int64  // Bytes of a multipart upload held in memory before spilling to disk
}

// LoadSettings reads Settings from the config, applying defaults
func LoadSettings(cfg *Config) (*Settings, error) {
	s := &Settings{
		Port:               cfg.GetWithDefault("WEB_PORT", "8080"),
		BackendURL:         strings.TrimRight(cfg.GetWithDefault("BACKEND_URL", "http://localhost:8000"), "/"),
		BackendAPIKey:      cfg.Get("BACKEND_API_KEY"),
		BackendTimeout:     cfg.GetDurationWithDefault("BACKEND_TIMEOUT", sdk.DefaultTimeout),
		Routes:             sdk.DefaultRoutes(),
		ChatMode:           strings.ToLower(cfg.GetWithDefault("CHAT_MODE", "search")),
		AutoFocusInput:     cfg.GetBoolWithDefault("CHAT_AUTO_FOCUS", true),
		ShowEmptyState:     cfg.GetBoolWithDefault("SHOW_EMPTY_STATE", true),
		SessionTTL:         cfg.GetDurationWithDefault("SESSION_TTL", 2*time.Hour),
		SessionSweep:       cfg.GetWithDefault("SESSION_SWEEP", "@every 5m"),
		CORSAllowedOrigins: cfg.GetList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		APIKey:             cfg.Get("API_KEY"),
		MaxUploadMemory:    int64(cfg.GetIntWithDefault("MAX_UPLOAD_MEMORY_MB", 32)) << 20,
	}

	// Validate the backend origin
	u, err := url.Parse(s.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("BACKEND_URL must be an absolute URL, got '%s'", s.BackendURL)
	}

	if s.ChatMode != "search" && s.ChatMode != "ask" {
		return nil, fmt.Errorf("CHAT_MODE must be 'search' or 'ask', got '%s'", s.ChatMode)
	}

	// Optional endpoint overrides
	if path := cfg.Get("BACKEND_ROUTES_PATH"); path != "" {
		routes, err := LoadRoutes(path)
		if err != nil {
			return nil, err
		}
		s.Routes = routes
	}

	return s, nil
}

// LoadRoutes reads backend endpoint paths from a YAML file. Unset paths keep their defaults
func LoadRoutes(path string) (sdk.Routes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sdk.Routes{}, fmt.Errorf("failed to read backend routes file: %w", err)
	}

	var routes sdk.Routes
	if err := yaml.Unmarshal(data, &routes); err != nil {
		return sdk.Routes{}, fmt.Errorf("failed to parse backend routes file: %w", err)
	}

	for _, p := range []string{routes.Search, routes.Ask, routes.Transcribe, routes.Transcripts, routes.Transcript, routes.Health} {
		if p != "" && !strings.HasPrefix(p, "/") {
			return sdk.Routes{}, fmt.Errorf("backend route '%s' must start with '/'", p)
		}
	}

	return routes.WithDefaults(), nil
}

// NewClient builds the backend client described by the settings
func (s *Settings) NewClient() *sdk.Client {
	return sdk.NewClient(s.BackendURL, s.BackendAPIKey,
		sdk.WithTimeout(s.BackendTimeout),
		sdk.WithRoutes(s.Routes),
	)
}
