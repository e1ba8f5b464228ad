package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/watchdesk/internal/api"
	"github.com/erazemk/watchdesk/internal/auth"
	"github.com/erazemk/watchdesk/internal/config"
	"github.com/erazemk/watchdesk/internal/db"
	"github.com/erazemk/watchdesk/internal/model"
	"github.com/erazemk/watchdesk/internal/report"
	"github.com/erazemk/watchdesk/internal/store"
	"github.com/erazemk/watchdesk/internal/telemetry"
	"github.com/erazemk/watchdesk/internal/web"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const usage = `Usage: watchdesk [flags]

Settings are read from the environment (and a .env file in the working
directory); flags override them.

Flags:
  -d, -db <dsn>           SQLite path or postgres:// URL (env WATCHDESK_DB, default: watchdesk.sqlite3)
  -a, -addr <host:port>   listen address (env WATCHDESK_ADDR, default: :8080)
  -u, -user <name>        admin username on first run (env WATCHDESK_ADMIN, default: Admin)
  -l, -log <path>         log file path (env WATCHDESK_LOG, default: stdout/stderr only)
  -h, -help               show this help and exit

Environment only:
  REDIS_ADDR, REDIS_PASSWORD, REDIS_DB   share login throttling through Redis
  LOGIN_ATTEMPTS_PER_MINUTE              login attempts per client IP (default: 5)
  WATCHDESK_TRUST_PROXY                  take client IPs from X-Forwarded-For/X-Real-IP (default: false)
  OTEL_EXPORTER_OTLP_ENDPOINT            export traces over OTLP/HTTP
`

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("watchdesk", flag.ContinueOnError)

	fs.StringVar(&cfg.DB, "db", cfg.DB, "")
	fs.StringVar(&cfg.DB, "d", cfg.DB, "")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.StringVar(&cfg.AdminUser, "user", cfg.AdminUser, "")
	fs.StringVar(&cfg.AdminUser, "u", cfg.AdminUser, "")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(os.Stdout, os.Stderr, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	err = run(cfg)
	closeLog()
	if err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, version)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Error("failed to flush traces", "error", err)
		}
	}()

	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "driver", database.DriverName())

	if err := ensureAdmin(ctx, database, cfg.AdminUser); err != nil {
		return err
	}

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	reports := report.NewService(store.Records{DB: database})

	apiRouter := api.NewRouter(database, jwtSecret, reports, limiter)
	webRouter, err := web.NewRouter(database, jwtSecret, reports, limiter)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	handler := newHandler(apiRouter, webRouter, cfg.TrustProxy)
	if cfg.TrustProxy {
		slog.Info("trusting proxy headers for client addresses")
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "version", version)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// newHandler combines the API and web routers behind the shared middleware.
// Forwarding headers rewrite the client address only when trustProxy is set;
// otherwise the login limiter keys on the connecting peer.
func newHandler(apiRouter, webRouter http.Handler, trustProxy bool) http.Handler {
	// API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/healthz", apiRouter)
	mux.Handle("/", webRouter)

	handler := api.LoggingMiddleware(middleware.Recoverer(mux))
	if trustProxy {
		handler = middleware.RealIP(handler)
	}
	return handler
}

// newLimiter returns the login limiter: shared through Redis when REDIS_ADDR
// is set, in process memory otherwise.
func newLimiter(ctx context.Context, cfg config.Config) (auth.Limiter, func(), error) {
	if cfg.RedisAddr == "" {
		return auth.NewMemoryLimiter(cfg.LoginAttemptsPerMinute), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}

	slog.Info("login throttling shared through redis", "addr", cfg.RedisAddr)
	return auth.NewRedisLimiter(client, cfg.LoginAttemptsPerMinute), func() { client.Close() }, nil
}

// ensureAdmin creates the first admin account on an empty database and
// prints its generated password once.
func ensureAdmin(ctx context.Context, database *sqlx.DB, username string) error {
	n, err := store.CountUsers(ctx, database)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	password, err := generatePassword(16)
	if err != nil {
		return fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if _, err := store.CreateUser(ctx, database, username, string(hash), model.RoleAdmin); err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	printInitResult(username, password)
	return nil
}

// printInitResult prints the first-run admin credentials to stdout.
func printInitResult(username, password string) {
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
	fmt.Println()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
