// Command intranet-devserver serves the fake intranet API for local
// development against the intranet client.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Undertaker4032/secret-lab-app/internal/fakeapi"
	"github.com/Undertaker4032/secret-lab-app/internal/logging"
)

// settings is read from DEVSERVER_* environment variables.
type settings struct {
	Addr           string        `envconfig:"ADDR" default:":8000"`
	SigningKey     string        `envconfig:"SIGNING_KEY" default:"fakeapi-development-signing-key"`
	AccessTTL      time.Duration `envconfig:"ACCESS_TTL" default:"15m"`
	RequireCSRF    bool          `envconfig:"REQUIRE_CSRF" default:"true"`
	InlineEmployee bool          `envconfig:"INLINE_EMPLOYEE"`
	RotateRefresh  bool          `envconfig:"ROTATE_REFRESH"`
	LoginRateLimit int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
	AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT" default:"text"`
}

func loadSettings() (settings, error) {
	var s settings
	if err := envconfig.Process("devserver", &s); err != nil {
		return settings{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return s, nil
}

func (s settings) apiConfig() fakeapi.Config {
	return fakeapi.Config{
		SigningKey:     []byte(s.SigningKey),
		AccessTTL:      s.AccessTTL,
		RequireCSRF:    s.RequireCSRF,
		InlineEmployee: s.InlineEmployee,
		RotateRefresh:  s.RotateRefresh,
		LoginRateLimit: s.LoginRateLimit,
		AllowedOrigins: s.AllowedOrigins,
	}
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func run(ctx context.Context, s settings, logger *slog.Logger) error {
	isDev := fakeapi.IsDevelopmentMode()
	if err := fakeapi.ValidateSigningKey(s.SigningKey, isDev, logger); err != nil {
		return fmt.Errorf("signing key validation failed: %w", err)
	}

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           requestLogger(logger, fakeapi.New(s.apiConfig())),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		mode := "production"
		if isDev {
			mode = "development"
		}
		logger.Info("server starting", "mode", mode, "addr", s.Addr, "require_csrf", s.RequireCSRF, "rotate_refresh", s.RotateRefresh)
		// TLS is terminated by a reverse proxy when this is exposed beyond localhost
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	s, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewStderr(s.LogFormat, s.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, s, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
