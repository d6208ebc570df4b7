package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/opencamara/camara-server/internal/database"
	"github.com/opencamara/camara-server/internal/env"
	"github.com/opencamara/camara-server/internal/token"
	"github.com/opencamara/camara-server/internal/version"
)

var _cfgFile = flag.String("cfg", "", "path to config file")

func main() {
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	httpHost string
	httpPort int
	db       struct {
		dsn         string
		automigrate bool
	}
	jwt struct {
		secret     string
		ttl        time.Duration
		refreshTTL time.Duration
	}
}

type application struct {
	config     config
	db         *database.DB
	tokens     *token.Manager
	baseLogger *slog.Logger
	wg         sync.WaitGroup
}

func run(logger *slog.Logger) error {
	var cfg config

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return err
		}
	}

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.db.dsn = env.GetString("DB_DSN", "postgres:postgres@localhost:5432/postgres?sslmode=disable")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.jwt.secret = env.GetString("JWT_SECRET", "")
	cfg.jwt.ttl = env.GetDuration("JWT_TTL", time.Hour)
	cfg.jwt.refreshTTL = env.GetDuration("JWT_REFRESH_TTL", 30*24*time.Hour)

	showVersion := flag.Bool("version", false, "display version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	if cfg.jwt.secret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	db, err := database.New(cfg.db.dsn, cfg.db.automigrate)
	if err != nil {
		return err
	}
	defer db.Close()

	app := &application{
		config:     cfg,
		db:         db,
		tokens:     token.NewManager(cfg.jwt.secret, cfg.jwt.ttl, "camara-server"),
		baseLogger: logger,
	}

	return app.serveHTTP()
}
