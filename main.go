package main

import (
	"os"

	"github.com/banga/craytracer-sub000/cmd"
	"github.com/banga/craytracer-sub000/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("craytracer")

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "craytracer"
	app.Usage = "render scenes using Monte Carlo path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "minimum log level (debug, info, notice, warning, error)",
			EnvVar: "CRAYTRACER_LOG_LEVEL",
		},
		cli.StringSliceFlag{
			Name:  "log-module",
			Usage: "per-module log level as module=level, e.g. scene=debug (repeatable)",
		},
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored log output",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "scenes",
			Usage:  "list built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "render",
			Usage: "render a built-in scene",
			Description: `
Build the named scene, render it with a pool of workers that claim 64x64
tiles, and save the gamma-corrected result as a PNG file.

Interrupting the render stops workers from claiming new tiles; tiles in
flight are finished and the partial image is still written.`,
			ArgsUsage: "scene_name",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:   "width",
					Value:  400,
					Usage:  "frame width",
					EnvVar: "CRAYTRACER_WIDTH",
				},
				cli.IntFlag{
					Name:   "height",
					Value:  400,
					Usage:  "frame height",
					EnvVar: "CRAYTRACER_HEIGHT",
				},
				cli.IntFlag{
					Name:   "spp",
					Value:  64,
					Usage:  "samples per pixel",
					EnvVar: "CRAYTRACER_SPP",
				},
				cli.IntFlag{
					Name:   "depth",
					Value:  8,
					Usage:  "maximum number of bounces per path",
					EnvVar: "CRAYTRACER_DEPTH",
				},
				cli.StringFlag{
					Name:  "integrator",
					Value: "path",
					Usage: "light transport algorithm (path, simple)",
				},
				cli.StringFlag{
					Name:  "split",
					Value: "median",
					Usage: "BVH split method (median, sah)",
				},
				cli.StringFlag{
					Name:  "light-sampling",
					Value: "power",
					Usage: "light selection distribution (power, uniform)",
				},
				cli.IntFlag{
					Name:  "tile-size",
					Value: 64,
					Usage: "tile edge length in pixels",
				},
				cli.IntFlag{
					Name:   "workers",
					Value:  0,
					Usage:  "number of render workers (0 = number of CPUs)",
					EnvVar: "CRAYTRACER_WORKERS",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 0,
					Usage: "sampler seed",
				},
				cli.StringFlag{
					Name:   "out, o",
					Value:  "frame.png",
					Usage:  "image filename for the rendered frame",
					EnvVar: "CRAYTRACER_OUT",
				},
				cli.IntFlag{
					Name:  "thumbnail",
					Value: 0,
					Usage: "also save a thumbnail of this width (0 = none)",
				},
			},
			Action: cmd.RenderScene,
		},
	}
	return app
}

func main() {
	if err := cmd.LoadEnv(".env"); err != nil {
		logger.Warning(err)
	}

	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
