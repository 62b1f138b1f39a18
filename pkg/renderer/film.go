package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/banga/craytracer-sub000/pkg/core"
	"github.com/nfnt/resize"
)

// DisplayGamma is the gamma applied when converting radiance to 8-bit color
const DisplayGamma = 2.2

// Film is the shared pixel buffer written by render workers. Workers render
// a tile privately and merge it in one locked copy.
type Film struct {
	Width, Height int

	mu     sync.Mutex
	pixels []PixelStats
}

// NewFilm creates a black film
func NewFilm(width, height int) *Film {
	return &Film{
		Width:  width,
		Height: height,
		pixels: make([]PixelStats, width*height),
	}
}

// mergeTile adds the samples of a rendered tile. pixels holds the tile's
// pixels in row-major order.
func (f *Film) mergeTile(bounds image.Rectangle, pixels []PixelStats) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := &f.pixels[y*f.Width+x]
			p.ColorAccum = p.ColorAccum.Add(pixels[i].ColorAccum)
			p.SampleCount += pixels[i].SampleCount
			i++
		}
	}
}

// Pixel returns the statistics of pixel (x, y)
func (f *Film) Pixel(x, y int) PixelStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pixels[y*f.Width+x]
}

// Image converts the film to gamma-corrected 8-bit RGBA
func (f *Film) Image() *image.RGBA {
	f.mu.Lock()
	defer f.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, toRGBA(f.pixels[y*f.Width+x].Color()))
		}
	}
	return img
}

// toRGBA converts linear radiance to an 8-bit display color
func toRGBA(radiance core.Vec3) color.RGBA {
	c := radiance.Clamp(0, 1).GammaCorrect(DisplayGamma)
	return color.RGBA{
		R: uint8(255*c.X + 0.5),
		G: uint8(255*c.Y + 0.5),
		B: uint8(255*c.Z + 0.5),
		A: 255,
	}
}

// WritePNG encodes img as a PNG file at path
func WritePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return file.Close()
}

// WriteThumbnail scales img to width pixels, preserving its aspect ratio, and
// writes it as a PNG file at path
func WriteThumbnail(path string, img image.Image, width uint) error {
	return WritePNG(path, resize.Resize(width, 0, img, resize.Bilinear))
}

// AverageLuminance returns the mean linear luminance over all pixels
func (f *Film) AverageLuminance() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pixels) == 0 {
		return 0
	}
	sum := 0.0
	for i := range f.pixels {
		sum += f.pixels[i].Color().Luminance()
	}
	return sum / float64(len(f.pixels))
}
