package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/atelier/internal/config"
	"github.com/abhisek/atelier/internal/logger"
	"github.com/abhisek/atelier/internal/server"
	"github.com/abhisek/atelier/internal/wizard"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diagnosis wizard over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "Listen host (overrides server.host)")
	serveCmd.Flags().Int("port", 0, "Listen port (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if h, _ := cmd.Flags().GetString("host"); h != "" {
		cfg.Server.Host = h
	}
	if p, _ := cmd.Flags().GetInt("port"); p != 0 {
		cfg.Server.Port = p
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.Logging.Format = "json"
	log := logger.Must(cfg.Logging)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := buildDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	sessions, closeSessions, err := sessionStore(cmd, cfg, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	if logger.ParseLevel(cfg.Logging.Level) == zap.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(server.Deps{
		Sessions:    sessions,
		Assessments: d.assessments,
		Renderer:    d.renderer,
		Repo:        d.store.AssessmentRepo(),
		Log:         log,
	}, server.Options{MaxUploadBytes: cfg.Server.MaxUploadBytes})

	if d.warning != "" {
		log.Warn(d.warning)
	}
	return srv.Run(ctx, cfg.Server.Addr())
}

// sessionStore returns the redis store when enabled, otherwise an
// in-process one.
func sessionStore(cmd *cobra.Command, cfg *config.Config, log *zap.Logger) (wizard.Store, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("using in-memory session store", zap.Duration("ttl", cfg.Server.SessionTTL))
		return wizard.NewMemoryStore(cfg.Server.SessionTTL), func() {}, nil
	}

	client := wizard.NewRedisClient(cfg.Redis.RedisConfig)
	rs := wizard.NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL)
	if err := rs.Ping(cmd.Context()); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Address, err)
	}
	log.Info("using redis session store", zap.String("address", cfg.Redis.Address))
	return rs, func() { client.Close() }, nil
}
