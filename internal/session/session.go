package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/itsmostafa/gobf/internal/bf"
	"github.com/itsmostafa/gobf/internal/config"
)

// ErrFileRead is returned when the program file cannot be read
var ErrFileRead = errors.New("could not read program file")

// Config holds one interpreter session's configuration
type Config struct {
	// SourcePath is the program file; when empty Source is used instead
	SourcePath string
	Source     string
	Interp     config.Config

	Stdin  io.Reader
	Stdout io.Writer
	// Stderr receives the stats summary and tape dump
	Stderr io.Writer

	ShowStats bool
	DumpTape  bool
	// CheckOnly translates and validates the program without running it
	CheckOnly bool

	Logger *slog.Logger
}

// Run loads, translates and executes a program
func Run(ctx context.Context, cfg Config) error {
	// Default streams to the process
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if err := cfg.Interp.Validate(); err != nil {
		return err
	}

	log := cfg.Logger.With("run_id", uuid.New().String())

	src, name, err := loadSource(cfg)
	if err != nil {
		return err
	}

	prog, err := bf.Translate(src, cfg.Interp.Mode)
	if err != nil {
		return fmt.Errorf("failed to translate %s: %w", name, err)
	}
	log.Debug("program translated", "source", name, "instructions", len(prog), "mode", cfg.Interp.Mode)

	if cfg.CheckOnly {
		if err := prog.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		FormatCheckOK(cfg.Stderr, name, len(prog))
		return nil
	}

	exec := bf.NewExecutor(prog, bf.Options{
		Input:    cfg.Stdin,
		Output:   cfg.Stdout,
		Cursor:   cfg.Interp.Cursor,
		EOF:      cfg.Interp.EOF,
		Encoding: cfg.Interp.Encoding,
		MaxSteps: cfg.Interp.MaxSteps,
		Logger:   log,
	})

	log.Info("run started", "source", name)
	start := time.Now()
	runErr := exec.Run(ctx)
	elapsed := time.Since(start)

	stats := exec.Stats()
	log.Info("run finished",
		"steps", stats.Steps,
		"bytes_read", stats.BytesRead,
		"bytes_written", stats.BytesWritten,
		"duration", elapsed,
		"error", runErr,
	)

	if cfg.ShowStats {
		FormatSummary(cfg.Stderr, stats, elapsed, runErr)
	}
	if cfg.DumpTape {
		FormatTapeDump(cfg.Stderr, exec.State())
	}

	if runErr != nil {
		return fmt.Errorf("failed to run %s: %w", name, runErr)
	}
	return nil
}

func loadSource(cfg Config) ([]byte, string, error) {
	if cfg.SourcePath == "" {
		return []byte(cfg.Source), "<literal>", nil
	}

	data, err := os.ReadFile(cfg.SourcePath)
	if err != nil {
		return nil, cfg.SourcePath, fmt.Errorf("%w %s: %w", ErrFileRead, cfg.SourcePath, err)
	}
	if cfg.Interp.Mode == bf.Strict {
		data = bf.TrimTrailingNewline(data)
	}
	return data, cfg.SourcePath, nil
}
