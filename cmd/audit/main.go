package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/unet360/unet360/backend/internal/db"
	"github.com/unet360/unet360/backend/internal/util"
	"github.com/unet360/unet360/backend/pkg/audit"
	"github.com/unet360/unet360/backend/pkg/logger"
	"github.com/unet360/unet360/backend/pkg/logger/console"
	pgstore "github.com/unet360/unet360/backend/pkg/store/pgx"

	_ "github.com/lib/pq"
)

// audit checks every stored node once and exits non-zero when any node is
// in ERROR, so it can gate deployments or run from cron.
func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		JSON:   util.GetEnvString("LOG_FORMAT", "text") == "json",
		Prefix: "audit",
	})
	logger.Init(consoleLogger)

	conn, err := db.Connect(ctx, util.GetEnv("DATABASE_URL"), util.GetEnvInt("STARTUP_RETRIES", 5))
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer conn.Close()

	statuses, err := audit.New(pgstore.NewNodeStorage(conn)).Run(ctx)
	if err != nil {
		logger.Fatal("Audit failed", "err", err)
	}

	for _, s := range statuses {
		switch s.Status {
		case audit.StatusError:
			logger.Error("Node", "node", s.Name, "status", s.Status, "reasons", s.Reasons)
		case audit.StatusWarning:
			logger.Warn("Node", "node", s.Name, "status", s.Status, "reasons", s.Reasons)
		default:
			logger.Debug("Node", "node", s.Name, "status", s.Status)
		}
	}

	counts := audit.Counts(statuses)
	logger.Info("Audit finished",
		"nodes", len(statuses),
		"ok", counts[audit.StatusOK],
		"warning", counts[audit.StatusWarning],
		"error", counts[audit.StatusError],
	)

	if audit.HasErrors(statuses) {
		conn.Close()
		os.Exit(1)
	}
}
