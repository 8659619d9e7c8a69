// trackmodel assembles track models from their geometry, material and
// companion files and reports what the editor would load.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/Faultbox/trackmaker/internal/logger"
)

func main() {
	app := cli.NewApp()
	app.Name = "trackmodel"
	app.Usage = "assemble and inspect track models"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "path to a YAML or TOML config file",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level (debug, info, warn, error, quiet)",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write logs to this rotating file",
		},
		cli.IntFlag{
			Name:  "log-max-size",
			Usage: "rotate the log file after this many megabytes",
		},
		cli.IntFlag{
			Name:  "log-max-backups",
			Usage: "number of rotated log files to keep",
		},
		cli.BoolFlag{
			Name:  "no-decode",
			Usage: "only check that textures exist instead of decoding them",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "inspect",
			Usage: "assemble models and list their meshes",
			Description: `
Assemble each model from its geometry file, material library and the optional
_KCL collision and _Atch attachment companions, then print one row per
material mesh along with the model bounds.`,
			ArgsUsage: "model1.obj model2.obj ...",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "strict",
					Usage: "fail when a texture cannot be resolved",
				},
			},
			Action: inspectModels,
		},
		{
			Name:      "collision",
			Usage:     "list the classified collision meshes of each model",
			ArgsUsage: "model1.obj model2.obj ...",
			Action:    showCollision,
		},
		{
			Name:      "attachments",
			Usage:     "list the attachment points of each model",
			ArgsUsage: "model1.obj model2.obj ...",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "matrix, m",
					Usage: "print the full transform of each attachment",
				},
			},
			Action: showAttachments,
		},
		{
			Name:      "textures",
			Usage:     "list the distinct textures referenced by the models",
			ArgsUsage: "model1.obj model2.obj ...",
			Action:    showTextures,
		},
		{
			Name:  "watch",
			Usage: "re-assemble models whenever their files change",
			Description: `
Watch the directories holding the given models and re-assemble every model,
with a fresh registry and texture cache, once changes settle.`,
			ArgsUsage: "model1.obj model2.obj ...",
			Flags: []cli.Flag{
				cli.DurationFlag{
					Name:  "debounce",
					Usage: "quiet period before re-assembling (overrides config)",
				},
			},
			Action: watchModels,
		},
		{
			Name:  "config",
			Usage: "manage the configuration file",
			Subcommands: []cli.Command{
				{
					Name:      "init",
					Usage:     "write the effective configuration to a file",
					ArgsUsage: "[path]",
					Description: `
Write the defaults, merged with any loaded config file and flags, as YAML or
TOML (by extension) to path, or to the user config directory when no path is
given.`,
					Flags: []cli.Flag{
						cli.BoolFlag{
							Name:  "force, f",
							Usage: "overwrite an existing file",
						},
					},
					Action: initConfig,
				},
			},
		},
	}

	err := app.Run(os.Args)
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
