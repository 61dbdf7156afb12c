// Package main is a one-shot runner for the yearly grade promotion.
//
// The API server fires the promotion on its own schedule; this binary
// exists for operators who need to run it by hand, typically after a
// missed window or when backfilling a specific academic year. The run
// is idempotent: a year that has already been applied is a no-op.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/config"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/application/command"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/infrastructure/persistence/postgres"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/logger"
	"github.com/Chathuranga-Niroshana/ceyacc-backend/pkg/timeutil"
)

func main() {
	year := flag.Int("year", 0, "academic year to promote (default: current year in Asia/Colombo)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *year); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, year int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})

	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbConn.Close()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if year == 0 {
		year = timeutil.AcademicYear(timeutil.Now())
	}

	handler := command.NewPromoteGradesHandler(postgres.NewStudentRecordRepository(dbConn), log)
	result, err := handler.Handle(ctx, command.PromoteGradesCommand{AcademicYear: year})
	if err != nil {
		return fmt.Errorf("promotion run: %w", err)
	}

	if result.AlreadyRan {
		log.Info("promotion already applied for this year, nothing to do",
			logger.Int("academic_year", result.AcademicYear),
		)
		return nil
	}

	log.Info("promotion run finished",
		logger.Int("academic_year", result.AcademicYear),
		logger.Int("total", result.Total),
		logger.Int("advanced", result.Advanced),
		logger.Int("completed", result.Completed),
		logger.Duration("duration", result.Duration),
	)
	return nil
}
