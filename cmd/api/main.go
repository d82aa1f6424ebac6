package main

import (
	"os"
	"sync"

	"github.com/estately/api/internal/config"
	"github.com/estately/api/internal/data"
	"github.com/estately/api/internal/jsonlog"
	"github.com/estately/api/internal/mailer"
	"github.com/estately/api/internal/pool"
)

// Application version
const version = "1.0.0"

// Application dependencies
type application struct {
	config *config.Config
	logger *jsonlog.Logger
	models data.Models
	mailer mailer.Mailer
	pool   *pool.Pool
	wg     sync.WaitGroup
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// Load configuration from the environment (and .env, if present).
	cfg, err := config.Load()
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Open the shared database connection pool.
	db, err := pool.Open(pool.Config{
		Host:       cfg.DB.Host,
		Port:       cfg.DB.Port,
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Name:       cfg.DB.Name,
		SSLMode:    cfg.DB.SSLMode,
		MaxConns:   cfg.DB.MaxConns,
		QueueLimit: cfg.DB.QueueLimit,
	})
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	logger.PrintInfo("database connection pool established", nil)

	app := &application{
		config: cfg,
		logger: logger,
		models: data.NewModels(db),
		mailer: mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender),
		pool:   db,
	}

	if err := app.serve(); err != nil {
		logger.PrintFatal(err, nil)
	}
}
