package mcp

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nvandessel/gris/internal/acceptance"
	"github.com/nvandessel/gris/internal/equilibrium"
	"github.com/nvandessel/gris/internal/logging"
	"github.com/nvandessel/gris/internal/metrics"
	"github.com/nvandessel/gris/internal/pathutil"
	"github.com/nvandessel/gris/internal/ratelimit"
)

// Server wraps the MCP SDK server and provides the gris tools.
type Server struct {
	server       *sdk.Server
	engine       equilibrium.Config
	classifier   acceptance.Classifier
	logger       *slog.Logger
	decisions    *logging.DecisionLogger
	metrics      *metrics.Recorder
	toolLimiters ratelimit.ToolLimiters
	auditLogger  *AuditLogger
	allowedDirs  []string
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "gris")
	Version string // Server version

	// Engine and Classifier are the defaults; tool inputs may override them.
	Engine     equilibrium.Config
	Classifier acceptance.Classifier

	// AuditDir receives audit.jsonl. Empty disables auditing.
	AuditDir string

	// AllowedDirs bounds the files the path input may name.
	// Defaults to pathutil.DefaultNetworkDirs.
	AllowedDirs []string

	Logger    *slog.Logger
	Decisions *logging.DecisionLogger
	Metrics   *metrics.Recorder
}

// NewServer creates a new MCP server with the gris tools registered.
func NewServer(cfg *Config) *Server {
	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		server:       mcpServer,
		engine:       cfg.Engine,
		classifier:   cfg.Classifier,
		logger:       logger,
		decisions:    cfg.Decisions,
		metrics:      cfg.Metrics,
		toolLimiters: ratelimit.NewToolLimiters(ratelimit.DefaultRules()),
	}
	if cfg.AuditDir != "" {
		s.auditLogger = NewAuditLogger(cfg.AuditDir)
	}
	s.allowedDirs = cfg.AllowedDirs
	if len(s.allowedDirs) == 0 {
		dirs, err := pathutil.DefaultNetworkDirs()
		if err != nil {
			logger.Warn("path input disabled", "error", err)
		}
		s.allowedDirs = dirs
	}

	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// Close releases the audit log.
func (s *Server) Close() error {
	return s.auditLogger.Close()
}
