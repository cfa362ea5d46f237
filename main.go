package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"appointment-visit-audit/internal/config"
	"appointment-visit-audit/internal/dataset"
	"appointment-visit-audit/internal/ingest"
	"appointment-visit-audit/internal/logger"
	"appointment-visit-audit/internal/report"
	"appointment-visit-audit/internal/visits"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		stop()
		exitWithError(err)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(args, getenv)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	log := logger.New(logger.Config{
		Writer: stderr,
		Format: cfg.Log.Format,
		Level:  logger.ParseLevel(cfg.Log.Level),
	}).With("run_id", runID)

	attrs, err := cfg.Attributes()
	if err != nil {
		return err
	}
	selector, err := cfg.Selector()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now, err := cfg.ResolveNow(loc, time.Now)
	if err != nil {
		return err
	}

	appointments, references, err := loadInputs(ctx, cfg, log)
	if err != nil {
		return err
	}

	pipeline := visits.New(visits.Options{
		Attributes: attrs,
		Selector:   selector,
		Location:   loc,
		Now:        now,
		Client:     cfg.Client,
	}, log)
	result, err := pipeline.Run(appointments, references)
	if err != nil {
		return err
	}

	rep := report.Build(runID, now, report.Inputs{
		Appointments: sourceName(appointments, cfg.Appointments),
		References:   sourceName(references, cfg.References),
		Identity:     cfg.Identity,
		Include:      cfg.Include,
		Timezone:     cfg.Timezone,
	}, result)
	report.Print(stdout, rep)

	if cfg.JSONOut != "" {
		if err := report.WriteJSON(rep, cfg.JSONOut); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		fmt.Fprintf(stdout, "\nJSON report written to %s\n", cfg.JSONOut)
	}
	if cfg.TableOut != "" {
		if err := report.WriteTableCSV(rep, cfg.TableOut); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
		fmt.Fprintf(stdout, "Sequenced table CSV written to %s\n", cfg.TableOut)
	}
	return nil
}

// loadInputs reads both uploads from files, or from Postgres when enabled.
// A missing upload is returned as a nil table.
func loadInputs(ctx context.Context, cfg *config.Config, log *slog.Logger) (*dataset.Table, *dataset.Table, error) {
	if !cfg.Postgres.Enabled {
		appointments, err := ingest.Load(cfg.Appointments)
		if err != nil {
			return nil, nil, fmt.Errorf("load appointments: %w", err)
		}
		references, err := ingest.Load(cfg.References)
		if err != nil {
			return nil, nil, fmt.Errorf("load references: %w", err)
		}
		log.Info("uploads loaded", "appointments", appointments.Len(), "references", references.Len())
		return appointments, references, nil
	}

	db, err := ingest.OpenPostgres(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	appointments, err := ingest.LoadPostgres(ctx, db, cfg.Postgres.Schema, cfg.Postgres.AppointmentsTable)
	if err != nil {
		return nil, nil, fmt.Errorf("load appointments: %w", err)
	}
	references, err := ingest.LoadPostgres(ctx, db, cfg.Postgres.Schema, cfg.Postgres.ReferencesTable)
	if err != nil {
		return nil, nil, fmt.Errorf("load references: %w", err)
	}
	log.Info("uploads loaded from postgres",
		"schema", cfg.Postgres.Schema,
		"appointments", appointments.Len(),
		"references", references.Len(),
	)
	return appointments, references, nil
}

func sourceName(table *dataset.Table, fallback string) string {
	if table != nil && table.Name != "" {
		return table.Name
	}
	return fallback
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
