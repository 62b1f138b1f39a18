package cmd

import (
	"github.com/banga/craytracer-sub000/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("craytracer")

func setupLogging(ctx *cli.Context) error {
	if ctx.GlobalBool("no-color") {
		log.SetColor(false)
	}

	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	// Per-module overrides win over the global verbosity
	for _, spec := range ctx.GlobalStringSlice("log-module") {
		module, level, err := log.ParseModuleLevel(spec)
		if err != nil {
			return err
		}
		log.SetModuleLevel(module, level)
	}
	return nil
}
