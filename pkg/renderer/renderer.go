package renderer

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/banga/craytracer-sub000/pkg/integrator"
	"github.com/banga/craytracer-sub000/pkg/log"
	"github.com/banga/craytracer-sub000/pkg/scene"
)

var logger = log.New("renderer")

// Config contains the renderer configuration. Film size, samples per pixel
// and path depth come from the scene.
type Config struct {
	TileSize   int    // Size of each tile (64x64 recommended)
	NumWorkers int    // Number of parallel workers (0 = use CPU count)
	Seed       uint64 // Global sampler seed; equal seeds give identical images
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		TileSize:   64,
		NumWorkers: 0,
		Seed:       0,
	}
}

// Progress is reported once for every completed tile
type Progress struct {
	Tile       Tile
	TilesDone  int
	TotalTiles int
}

// Renderer renders a scene with an integrator, one tile per work item
type Renderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     Config
	tiles      []Tile
	numWorkers int
}

// New creates a renderer for s. The scene must not be modified while a
// render is in progress.
func New(s *scene.Scene, integ integrator.Integrator, config Config) *Renderer {
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	width, height := s.Camera.FilmBounds()
	tiles := NewTileGrid(width, height, config.TileSize)

	return &Renderer{
		scene:      s,
		integrator: integ,
		config:     config,
		tiles:      tiles,
		numWorkers: min(numWorkers, len(tiles)),
	}
}

// NumWorkers returns the number of goroutines Render will use
func (r *Renderer) NumWorkers() int {
	return r.numWorkers
}

// Tiles returns the tile grid in claim order
func (r *Renderer) Tiles() []Tile {
	return r.tiles
}

// Render renders every tile into a new film. onProgress, if not nil, is
// called on the caller's goroutine after each tile completes. When ctx is
// cancelled workers stop claiming tiles, tiles already in flight are finished,
// and the partial film is returned together with the wrapped context error.
func (r *Renderer) Render(ctx context.Context, onProgress func(Progress)) (*Film, RenderStats, error) {
	width, height := r.scene.Camera.FilmBounds()
	film := NewFilm(width, height)
	spp := r.scene.Config.SamplesPerPixel

	logger.Infof("rendering %dx%d at %d spp: %d tiles on %d workers", width, height, spp, len(r.tiles), r.numWorkers)
	start := time.Now()

	var (
		next    atomic.Int64
		wg      sync.WaitGroup
		workers = make([]WorkerStats, r.numWorkers)
		done    = make(chan Tile, len(r.tiles))
	)
	for w := 0; w < r.numWorkers; w++ {
		workers[w].ID = w
		wg.Add(1)
		go func(stats *WorkerStats) {
			defer wg.Done()
			// Each worker owns its sampler; samples depend only on the seed
			// and pixel, never on which worker renders the tile
			sampler := core.NewIndependentSampler(r.config.Seed)
			for ctx.Err() == nil {
				index := int(next.Add(1) - 1)
				if index >= len(r.tiles) {
					return
				}
				tile := r.tiles[index]

				tileStart := time.Now()
				stats.Samples += r.renderTile(sampler, tile, film)
				stats.Tiles++
				stats.Duration += time.Since(tileStart)
				done <- tile
			}
		}(&workers[w])
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	tilesDone := 0
	for tile := range done {
		tilesDone++
		logger.Debugf("tile %d done (%d/%d)", tile.ID, tilesDone, len(r.tiles))
		if onProgress != nil {
			onProgress(Progress{Tile: tile, TilesDone: tilesDone, TotalTiles: len(r.tiles)})
		}
	}

	stats := RenderStats{
		Width:           width,
		Height:          height,
		SamplesPerPixel: spp,
		TotalTiles:      len(r.tiles),
		TilesRendered:   tilesDone,
		Duration:        time.Since(start),
		Workers:         workers,
	}
	for _, w := range workers {
		stats.TotalSamples += w.Samples
	}

	if tilesDone < len(r.tiles) {
		if err := ctx.Err(); err != nil {
			return film, stats, fmt.Errorf("render stopped after %d of %d tiles: %w", tilesDone, len(r.tiles), err)
		}
	}
	logger.Infof("render finished in %s", stats.Duration.Round(time.Millisecond))
	return film, stats, nil
}

// renderTile takes every sample for the pixels of tile and merges them into
// film. It returns the number of samples taken.
func (r *Renderer) renderTile(sampler core.PixelSampler, tile Tile, film *Film) int {
	camera := r.scene.Camera
	spp := r.scene.Config.SamplesPerPixel
	pixels := make([]PixelStats, tile.Bounds.Dx()*tile.Bounds.Dy())

	i := 0
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			for s := 0; s < spp; s++ {
				sampler.StartPixel(x, y, s)
				ray := camera.GenerateRay(x, y, sampler.Get2D())
				pixels[i].AddSample(r.integrator.EstimateLi(sampler, ray, r.scene))
			}
			i++
		}
	}

	film.mergeTile(tile.Bounds, pixels)
	return len(pixels) * spp
}
