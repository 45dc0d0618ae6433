package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/five82/tideline/internal/archive"
	"github.com/five82/tideline/internal/config"
	"github.com/five82/tideline/internal/insight"
	"github.com/five82/tideline/internal/logging"
	"github.com/five82/tideline/internal/prefs"
	"github.com/five82/tideline/internal/state"
	"github.com/five82/tideline/internal/store"
	"github.com/five82/tideline/internal/timeline"
	"github.com/five82/tideline/internal/ui"
)

// Options configure the timeline viewer.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/tideline/prefs.toml
	PollEvery  int    // seconds; zero uses default
	Verbose    bool
}

// Run boots the tideline TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	logger, logFile, err := logging.OpenFile(cfg.LogPath(), opts.Verbose)
	if err != nil {
		return err
	}
	defer logFile.Close()

	source, closeSource, err := OpenSource(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSource(); err != nil {
			logger.Warn("close archive failed", "error", err)
		}
	}()

	engine, err := timeline.NewEngine(timeline.Config{Location: cfg.Location()})
	if err != nil {
		return fmt.Errorf("init timeline: %w", err)
	}

	snapshots := state.NewStore(engine.Now)

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	pollCtx, stopPolling := context.WithCancel(ctx)
	defer stopPolling()

	// Populate the store before the UI draws its first frame.
	_ = refresh(ctx, snapshots, source, logger)

	Poller{
		Store:    snapshots,
		Source:   source,
		Interval: interval,
		Logger:   logger,
	}.Start(pollCtx)

	logger.Info("tideline started",
		"source", cfg.Source,
		"log", cfg.LogPath(),
		"timezone", engine.Location().String(),
		"poll", interval,
	)

	return ui.Run(ctx, ui.Options{
		Source:     source,
		Store:      snapshots,
		Engine:     engine,
		Summarizer: NewSummarizer(logger),
		Logger:     logger,
		LogPath:    cfg.LogPath(),
		ThemeName:  userPrefs.Theme,
		Zoom:       userPrefs.Zoom,
		PrefsPath:  prefsPath,
	})
}

// OpenSource opens the archive named by cfg: the local sqlite database or a
// remote tideline API. The returned func releases it.
func OpenSource(cfg config.Config) (archive.Archive, func() error, error) {
	switch cfg.Source {
	case config.SourceHTTP:
		client, err := archive.NewClient(cfg.APIBind)
		if err != nil {
			return nil, nil, fmt.Errorf("init archive client: %w", err)
		}
		return client, func() error { return nil }, nil
	default:
		db, err := store.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open archive: %w", err)
		}
		return db, db.Close, nil
	}
}

// NewSummarizer returns an Anthropic summarizer when ANTHROPIC_API_KEY is
// set, or nil.
func NewSummarizer(logger *slog.Logger) insight.Summarizer {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		logger.Debug("summaries disabled; ANTHROPIC_API_KEY not set")
		return nil
	}
	return insight.NewAnthropic(key)
}
