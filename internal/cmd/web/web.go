// Package web parses web sign-in service flags and launches the service.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/signin/internal/platform/cmd"
	"github.com/louisbranch/signin/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"SIGNIN_WEB_HTTP_ADDR" envDefault:"localhost:8086"`
	BackendURL          string        `env:"SIGNIN_WEB_BACKEND_URL" envDefault:"http://localhost:5000"`
	SessionSecret       string        `env:"SIGNIN_WEB_SESSION_SECRET,required,notEmpty"`
	SessionMaxAge       time.Duration `env:"SIGNIN_WEB_SESSION_MAX_AGE" envDefault:"720h"`
	TrustForwardedProto bool          `env:"SIGNIN_WEB_TRUST_FORWARDED_PROTO"`
	AuditDBPath         string        `env:"SIGNIN_WEB_AUDIT_DB_PATH"`
	Debug               bool          `env:"SIGNIN_WEB_DEBUG"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "Authentication backend base URL")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Log sign-in outcomes")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web sign-in server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			BackendURL:          cfg.BackendURL,
			SessionSecret:       cfg.SessionSecret,
			SessionMaxAge:       cfg.SessionMaxAge,
			TrustForwardedProto: cfg.TrustForwardedProto,
			AuditDBPath:         cfg.AuditDBPath,
			Debug:               cfg.Debug,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
