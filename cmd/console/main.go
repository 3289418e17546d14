package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hauwenw/ping-parking/internal/cache"
	"github.com/hauwenw/ping-parking/internal/config"
	"github.com/hauwenw/ping-parking/internal/service"
	generate_excel "github.com/hauwenw/ping-parking/internal/service/generate-excel"
	"github.com/hauwenw/ping-parking/internal/session"
	"github.com/hauwenw/ping-parking/internal/storage/mysql"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
	"github.com/hauwenw/ping-parking/internal/web"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const purgeInterval = time.Hour

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)
	log.Debug("config loaded", slog.String("env", cfg.Env), slog.String("token_store", cfg.TokenStore))

	tokens, closer, err := setupTokenStore(cfg, log)
	if err != nil {
		log.Error("failed to set up token store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}

	api := restapi.New(cfg.API.BaseURL,
		restapi.WithTimeout(cfg.API.Timeout),
		restapi.WithLogger(log),
	)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessions := session.NewManager(
		session.NewCookieStore(cfg.Session.Secret, cfg.Session.Secure),
		tokens,
		session.Options{
			Name:        cfg.Session.Name,
			SessionTTL:  cfg.Session.SessionTTL,
			RememberTTL: cfg.Session.RememberTTL,
		},
		log,
	)

	rs := web.NewResponder(log, renderer, sessions, web.NewValidator())
	pages := service.NewPageService(api)
	genService := generate_excel.NewGenerateService(api)

	log.Info("server started", slog.String("address", cfg.Address), slog.String("api", cfg.API.BaseURL))

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, api, sessions, rs, pages, genService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Error("failed to start server", slog.String("error", err.Error()))
	}

	log.Error("server stopped")
}

// setupTokenStore picks the session backend. The cookie backend keeps the
// token in the encrypted cookie and needs no store.
func setupTokenStore(cfg *config.Config, log *slog.Logger) (session.Tokens, io.Closer, error) {
	switch cfg.TokenStore {
	case config.TokenStoreMySQL:
		st, err := mysql.New(cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, nil, err
		}

		go purgeExpired(log, st)
		return st, st, nil

	case config.TokenStoreRedis:
		tokens, err := cache.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return tokens, tokens, nil

	default:
		return nil, nil, nil
	}
}

// purgeExpired drops expired token rows; Redis expires keys on its own.
func purgeExpired(log *slog.Logger, st *mysql.Storage) {
	const op = "main.purgeExpired"

	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := st.PurgeExpired(ctx)
		cancel()
		if err != nil {
			log.Error("failed to purge tokens", slog.String("op", op), slog.String("error", err.Error()))
			continue
		}
		if n > 0 {
			log.Info("expired tokens purged", slog.String("op", op), slog.Int64("count", n))
		}
	}
}

// dualHandler writes everything to the core handler and tees errors to a file.
type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		if err = h.coreHandler.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		// The file copy is best effort.
		_ = h.errorHandler.Handle(ctx, r.Clone())
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		slog.Warn("cannot open error log file", slog.String("error", err.Error()))
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})

	return slog.New(&dualHandler{coreHandler: coreHandler, errorHandler: errorHandler})
}
