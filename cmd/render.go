package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/banga/craytracer-sub000/pkg/integrator"
	"github.com/banga/craytracer-sub000/pkg/renderer"
	"github.com/banga/craytracer-sub000/pkg/scene"
	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

// Options collects everything needed to render a built-in scene to disk.
type Options struct {
	Scene      scene.Config
	Renderer   renderer.Config
	Integrator integrator.Kind
	Out        string // PNG output path
	Thumbnail  uint   // Thumbnail width in pixels; 0 disables the thumbnail
}

// LoadEnv reads flag defaults from a .env file. Variables already set in the
// environment take precedence and a missing file is not an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// RenderScene renders a built-in scene to a PNG file.
func RenderScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene name argument")
	}

	opts, err := optionsFromFlags(ctx)
	if err != nil {
		return err
	}

	// Stop claiming tiles on Ctrl+C and still save what was rendered
	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := Render(renderCtx, ctx.Args().First(), opts)
	if err != nil && stats.TilesRendered == 0 {
		return err
	}

	displayRenderStats(stats)
	return err
}

func optionsFromFlags(ctx *cli.Context) (Options, error) {
	split, err := scene.ParseSplitMethod(ctx.String("split"))
	if err != nil {
		return Options{}, err
	}
	lightSampling, err := scene.ParseLightSampling(ctx.String("light-sampling"))
	if err != nil {
		return Options{}, err
	}
	kind, err := integrator.Parse(ctx.String("integrator"))
	if err != nil {
		return Options{}, err
	}

	return Options{
		Scene: scene.Config{
			Width:           ctx.Int("width"),
			Height:          ctx.Int("height"),
			SamplesPerPixel: ctx.Int("spp"),
			MaxDepth:        ctx.Int("depth"),
			Split:           split,
			LightSampling:   lightSampling,
		},
		Renderer: renderer.Config{
			TileSize:   ctx.Int("tile-size"),
			NumWorkers: ctx.Int("workers"),
			Seed:       uint64(ctx.Int64("seed")),
		},
		Integrator: kind,
		Out:        ctx.String("out"),
		Thumbnail:  uint(ctx.Int("thumbnail")),
	}, nil
}

// Render loads the named scene, renders it and writes the image. If ctx is
// cancelled mid-render the partial image is still written and the
// cancellation error is returned.
func Render(ctx context.Context, name string, opts Options) (renderer.RenderStats, error) {
	s, err := scene.Load(name, opts.Scene)
	if err != nil {
		return renderer.RenderStats{}, err
	}
	logger.Noticef("loaded scene %q: %d lights, %s BVH", name, len(s.Lights), opts.Scene.Split)

	r := renderer.New(s, integrator.New(opts.Integrator), opts.Renderer)
	logger.Noticef("rendering with the %s integrator on %d workers", opts.Integrator, r.NumWorkers())

	lastDecile := 0
	film, stats, renderErr := r.Render(ctx, func(p renderer.Progress) {
		if decile := 10 * p.TilesDone / p.TotalTiles; decile > lastDecile {
			lastDecile = decile
			logger.Infof("%3d%% (%d/%d tiles)", 10*decile, p.TilesDone, p.TotalTiles)
		}
	})
	if renderErr != nil {
		logger.Warningf("%v", renderErr)
		if stats.TilesRendered == 0 {
			return stats, renderErr
		}
	}
	logger.Debugf("average luminance %.4f", film.AverageLuminance())

	img := film.Image()
	if err := renderer.WritePNG(opts.Out, img); err != nil {
		return stats, err
	}
	logger.Noticef("image saved to %s", opts.Out)

	if opts.Thumbnail > 0 {
		thumbPath := thumbnailPath(opts.Out)
		if err := renderer.WriteThumbnail(thumbPath, img, opts.Thumbnail); err != nil {
			return stats, err
		}
		logger.Noticef("thumbnail saved to %s", thumbPath)
	}

	return stats, renderErr
}

// thumbnailPath inserts "_thumb" before the extension of path
func thumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_thumb" + ext
}

func displayRenderStats(stats renderer.RenderStats) {
	logger.Noticef("render statistics (%dx%d, %d spp)\n%s", stats.Width, stats.Height, stats.SamplesPerPixel, stats.Table())
}
