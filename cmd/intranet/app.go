package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Undertaker4032/secret-lab-app/internal/api"
	"github.com/Undertaker4032/secret-lab-app/internal/config"
	"github.com/Undertaker4032/secret-lab-app/internal/i18n"
	"github.com/Undertaker4032/secret-lab-app/internal/keychain"
	"github.com/Undertaker4032/secret-lab-app/internal/liststore"
	"github.com/Undertaker4032/secret-lab-app/internal/logging"
	"github.com/Undertaker4032/secret-lab-app/internal/session"
)

// keychainFactory opens the session store for the configured backend. Tests
// replace it with an in-memory store. A nil store disables persistence.
var keychainFactory = func(ctx context.Context, cfg *config.Config) (keychain.Keychain, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		rk, err := keychain.DialRedis(ctx, cfg.Store.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return rk, func() { _ = rk.Close() }, nil
	case config.BackendMemory:
		return keychain.NewMemoryKeychain(), func() {}, nil
	case config.BackendNone:
		return nil, func() {}, nil
	default:
		return keychain.NewSystemKeychain(cfg.Server.URL), func() {}, nil
	}
}

// app is the wiring shared by every command that talks to the server.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	session  *session.Session
	client   *api.Client
	messages *i18n.Localizer
	close    func()
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cmd.ErrOrStderr(), logging.Format(cfg.Logging.Format), cfg.Logging.Level)
	if cfg.IsInsecure() {
		logger.Warn("server URL uses plain http on a non-local host; credentials are sent unencrypted", "url", cfg.Server.URL)
	}

	mode, err := api.ParseAuthMode(cfg.Auth.Mode)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := keychainFactory(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	messages := i18n.New(cfg.Locale)
	sess := session.New(store, logger)
	client, err := api.NewClient(cfg.Server.URL, sess,
		api.WithAuthMode(mode),
		api.WithTimeout(cfg.Server.Timeout),
		api.WithLogger(logger),
		api.WithLocalizer(messages),
	)
	if err != nil {
		closeStore()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		session:  sess,
		client:   client,
		messages: messages,
		close:    closeStore,
	}, nil
}

// requireSession restores the stored session and fails when nobody is
// signed in.
func (a *app) requireSession(ctx context.Context) error {
	a.session.Hydrate()
	hadSession := a.session.IsAuthenticated.Get()

	if err := a.client.LoadSession(ctx); err != nil {
		if api.KindOf(err) == api.KindNetwork {
			return err
		}
		a.logger.Debug("stored session could not be restored", "error", err)
	}
	if !a.session.IsAuthenticated.Get() {
		if hadSession {
			return fmt.Errorf("%s: %w", a.messages.T(i18n.SessionExpired), api.ErrNotAuthenticated)
		}
		return api.ErrNotAuthenticated
	}
	return nil
}

// explain prefixes a missing-object error with the localized message.
func (a *app) explain(err error) error {
	if api.IsNotFound(err) {
		return fmt.Errorf("%s: %w", a.messages.T(i18n.NotFound), err)
	}
	return err
}

func (a *app) listOptions() []liststore.Option {
	opts := []liststore.Option{liststore.WithLogger(a.logger)}
	if a.cfg.Lists.DropStaleResults {
		opts = append(opts, liststore.WithDropStale())
	}
	return opts
}

// withApp wraps a command body that needs a signed-in client.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.requireSession(cmd.Context()); err != nil {
			return err
		}
		return run(cmd, args, a)
	}
}
