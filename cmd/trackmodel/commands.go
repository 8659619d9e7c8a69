package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/trackmaker/internal/config"
	"github.com/Faultbox/trackmaker/internal/logger"
	"github.com/Faultbox/trackmaker/pkg/diag"
)

// Assemble models and print their mesh tables.
func inspectModels(ctx *cli.Context) error {
	s, models, err := setup(ctx)
	for _, m := range models {
		writeModel(os.Stdout, m)
	}
	if s != nil {
		err = multierr.Append(err, s.textureWarnings(ctx.Bool("strict")))
	}
	return err
}

// textureWarnings summarizes the unresolved textures of the session. They
// only fail the command when strict is set.
func (s *session) textureWarnings(strict bool) error {
	n := s.diags.Count(diag.UnresolvedTexture)
	if n == 0 {
		return nil
	}
	if strict {
		return s.diags.Err()
	}
	logger.Warn("some meshes render untextured", zap.Int("unresolved_textures", n))
	return nil
}

// Print classified collision meshes.
func showCollision(ctx *cli.Context) error {
	_, models, err := setup(ctx)
	for _, m := range models {
		writeCollision(os.Stdout, m)
	}
	return err
}

// Print attachment points.
func showAttachments(ctx *cli.Context) error {
	_, models, err := setup(ctx)
	for _, m := range models {
		writeAttachments(os.Stdout, m, ctx.Bool("matrix"))
	}
	return err
}

// Print the distinct textures the models resolved to.
func showTextures(ctx *cli.Context) error {
	s, _, err := setup(ctx)
	if s != nil {
		hits, misses := s.textures.Stats()
		writeTextures(os.Stdout, s.textures.Textures(), hits, misses)
	}
	return err
}

var errConfigExists = errors.New("config file already exists (use --force to overwrite)")

// Write the effective configuration to a file.
func initConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	path, err := writeConfig(cfg, ctx.Args().First(), ctx.Bool("force"))
	if err != nil {
		return err
	}
	logger.Sugar.Infof("wrote config to %s", path)
	return nil
}

// writeConfig saves cfg to path, or to the user config directory when path
// is empty, and returns where it went. An existing file is kept unless force
// is set.
func writeConfig(cfg *config.Config, path string, force bool) (string, error) {
	target := path
	if target == "" {
		target = config.DefaultPath()
	}
	if _, err := os.Stat(target); err == nil && !force {
		return "", fmt.Errorf("%s: %w", target, errConfigExists)
	}

	if path == "" {
		err := cfg.Save()
		return target, err
	}
	return target, cfg.SaveTo(path)
}
