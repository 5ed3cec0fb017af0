package ops

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hpungsan/bridgeai/internal/clipboard"
	"github.com/hpungsan/bridgeai/internal/config"
	"github.com/hpungsan/bridgeai/internal/extract"
	"github.com/hpungsan/bridgeai/internal/payload"
	"github.com/hpungsan/bridgeai/internal/platform"
	"github.com/hpungsan/bridgeai/internal/prompt"
	"github.com/hpungsan/bridgeai/internal/store"
	"github.com/hpungsan/bridgeai/internal/tabs"
)

// Deps are the collaborators every operation runs against.
type Deps struct {
	Config     *config.Config
	Store      store.Store
	Payloads   *payload.Manager
	Extractors *extract.Registry
	Platforms  *platform.Registry
	Opener     tabs.Opener
	Clipboard  clipboard.Writer
	Logger     zerolog.Logger
}

// Open builds Deps from cfg: it connects the configured slot store, registers
// configured extra platforms and picks a tab opener. Remote stores open tabs
// through the daemon as well.
func Open(ctx context.Context, cfg *config.Config, baseDir string, log zerolog.Logger) (*Deps, error) {
	s, err := store.Open(ctx, store.Options{
		Backend:     cfg.StoreBackend,
		BaseDir:     baseDir,
		RedisURL:    cfg.RedisURL,
		RedisTTL:    2 * cfg.PayloadTTL(),
		DatabaseURL: cfg.DatabaseURL,
		DaemonURL:   cfg.DaemonURL,
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxIdle:     cfg.DBMaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	d, err := New(cfg, s, clipboard.System{}, nil, log)
	if err != nil {
		s.Close()
		return nil, err
	}
	if cfg.StoreBackend == store.BackendRemote {
		d.Opener = tabs.NewRemoteOpener(cfg.DaemonURL, nil)
	}
	return d, nil
}

// New assembles Deps over an already-open store. A nil opener opens tabs in
// the local browser.
func New(cfg *config.Config, s store.Store, cb clipboard.Writer, opener tabs.Opener, log zerolog.Logger) (*Deps, error) {
	extractors := extract.NewRegistry(extract.Config{
		Clipboard:    cb,
		ReadyTimeout: cfg.ReadyTimeout(),
		Logger:       log,
	})
	for _, desc := range cfg.Platforms {
		if err := extractors.Register(extract.NewGeneric(desc, extract.Config{
			Clipboard:    cb,
			ReadyTimeout: cfg.ReadyTimeout(),
			Logger:       log,
		})); err != nil {
			return nil, fmt.Errorf("register platform %s: %w", desc.ID, err)
		}
	}
	platforms := extractors.Platforms()

	if opener == nil {
		opener = tabs.NewBrowserOpener(platforms)
	}

	return &Deps{
		Config:     cfg,
		Store:      s,
		Payloads:   payload.NewManager(s, payload.WithTTL(cfg.PayloadTTL()), payload.WithLogger(log)),
		Extractors: extractors,
		Platforms:  platforms,
		Opener:     opener,
		Clipboard:  cb,
		Logger:     log,
	}, nil
}

// Close releases the store.
func (d *Deps) Close() error {
	return d.Store.Close()
}

// PromptOptions returns the configured windowing.
func (d *Deps) PromptOptions() prompt.Options {
	return prompt.Options{
		MessageCount:       d.Config.MessageCount,
		IncludeFullHistory: d.Config.IncludeFullHistory,
	}
}
