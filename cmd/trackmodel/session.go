package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/trackmaker/internal/config"
	"github.com/Faultbox/trackmaker/internal/logger"
	"github.com/Faultbox/trackmaker/internal/model"
	"github.com/Faultbox/trackmaker/internal/texture"
	"github.com/Faultbox/trackmaker/pkg/diag"
)

var errNoModels = errors.New("no model files given")

// session is one editor-like context: a texture cache and model registry
// plus a record of every diagnostic raised while filling them.
type session struct {
	cfg      *config.Config
	textures *texture.Cache
	registry *model.Registry
	diags    *diag.Collector
}

// loadConfig reads configuration and starts logging from the global flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	ov := config.Overrides{
		Debug:         ctx.GlobalBool("debug"),
		LogLevel:      ctx.GlobalString("log-level"),
		LogFile:       ctx.GlobalString("log-file"),
		LogMaxSizeMB:  ctx.GlobalInt("log-max-size"),
		LogMaxBackups: ctx.GlobalInt("log-max-backups"),
		NoDecode:      ctx.GlobalBool("no-decode"),
	}
	if d := ctx.Duration("debounce"); d > 0 {
		ov.Debounce = config.Duration(d)
	}

	cfg, err := config.Load(ctx.GlobalString("config"), ov)
	if err != nil {
		return nil, err
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.FileConfig(), true); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

func newSession(cfg *config.Config) *session {
	diags := &diag.Collector{}
	cache := texture.NewCache(cfg.Textures.Decode)
	asm := model.NewAssembler(model.Options{
		Assets:   cfg.Assets,
		Textures: cache,
		Sink:     diag.Tee(diags, logger.NewDiagSink(logger.Named("diag"))),
		Logger:   logger.Named("model"),
	})
	return &session{
		cfg:      cfg,
		textures: cache,
		registry: model.NewRegistry(asm),
		diags:    diags,
	}
}

// resolveAll assembles every path. Failures do not stop the remaining paths;
// they are combined into the returned error.
func (s *session) resolveAll(paths []string) ([]*model.Model, error) {
	var (
		models []*model.Model
		errs   error
	)
	start := time.Now()
	for _, path := range paths {
		h, err := s.registry.Resolve(path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		m, _ := s.registry.Get(h)
		models = append(models, m)
	}

	hits, misses := s.textures.Stats()
	logger.Debug("session resolved",
		zap.Int("models", s.registry.Len()),
		zap.Int("texture_hits", hits),
		zap.Int("texture_misses", misses),
		zap.Duration("elapsed", time.Since(start)))

	return models, errs
}

// setup is the common prologue of the one-shot commands.
func setup(ctx *cli.Context) (*session, []*model.Model, error) {
	if ctx.NArg() == 0 {
		return nil, nil, errNoModels
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	s := newSession(cfg)
	models, err := s.resolveAll(ctx.Args())
	return s, models, err
}
