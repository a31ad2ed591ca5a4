package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/five82/secondbrain/internal/brain"
	"github.com/five82/secondbrain/internal/config"
	"github.com/five82/secondbrain/internal/logging"
	"github.com/five82/secondbrain/internal/prefs"
	"github.com/five82/secondbrain/internal/state"
	"github.com/five82/secondbrain/internal/ui"
)

// Exit codes returned by Ask.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ErrEmptyQuestion is returned for a one-shot question that is blank after
// trimming.
var ErrEmptyQuestion = errors.New("question is empty")

// Options configure the secondbrain application. Non-empty BaseURL and
// Timeout take precedence over the config file and the environment.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/secondbrain/prefs.toml
	BaseURL    string
	Timeout    string
}

// session holds everything wired for one run.
type session struct {
	cfg       config.Config
	logger    *slog.Logger
	logCloser io.Closer
	client    *brain.Client
	lifecycle *state.Lifecycle
}

func (s *session) Close() error {
	if s.logCloser == nil {
		return nil
	}
	return s.logCloser.Close()
}

func newSession(opts Options) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client := brain.NewClient(cfg.BaseURL, brain.WithTimeout(cfg.Timeout))
	lifecycle := state.New(client, state.WithLogger(logger))

	logger.Info("session_started",
		"endpoint", client.Endpoint(),
		"timeout", cfg.Timeout,
		"log_level", cfg.LogLevel,
	)
	if strings.TrimSpace(cfg.BaseURL) == "" {
		logger.Warn("base_url_empty", "hint", "set base_url or SECONDBRAIN_API_BASE_URL")
	}

	return &session{
		cfg:       cfg,
		logger:    logger,
		logCloser: closer,
		client:    client,
		lifecycle: lifecycle,
	}, nil
}

func applyOverrides(cfg *config.Config, opts Options) error {
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = base
	}
	if strings.TrimSpace(opts.Timeout) != "" {
		d, err := config.ParseTimeout(opts.Timeout)
		if err != nil {
			return fmt.Errorf("timeout flag: %w", err)
		}
		cfg.Timeout = d
	}
	return nil
}

// Run boots the secondbrain TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		s.logger.Warn("prefs_unavailable", "error", err)
	}

	err = ui.Run(ui.Options{
		Context:   ctx,
		Lifecycle: s.lifecycle,
		Endpoint:  s.client.Endpoint(),
		LogPath:   s.cfg.LogPath(),
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
	s.logger.Info("session_ended")
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// Ask submits one question through the same lifecycle the TUI uses. The
// answer goes to stdout; a failure message goes to stderr. The return value
// is the process exit code.
func Ask(ctx context.Context, opts Options, question string, stdout, stderr io.Writer) int {
	if strings.TrimSpace(question) == "" {
		fmt.Fprintf(stderr, "secondbrain: %v\n", ErrEmptyQuestion)
		return ExitUsage
	}

	s, err := newSession(opts)
	if err != nil {
		fmt.Fprintf(stderr, "secondbrain: %v\n", err)
		return ExitFailure
	}
	defer s.Close()

	s.lifecycle.Submit(ctx, question)
	result := s.lifecycle.State()
	if !result.Succeeded() {
		fmt.Fprintln(stderr, result.Message())
		return ExitFailure
	}
	fmt.Fprintln(stdout, result.Answer())
	return ExitOK
}
