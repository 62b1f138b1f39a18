package geometry

import (
	"math"

	"github.com/banga/craytracer-sub000/pkg/core"
)

// CameraConfig contains camera configuration parameters
type CameraConfig struct {
	Origin core.Vec3 // Camera position
	Target core.Vec3 // Point the camera looks at
	Up     core.Vec3 // Up direction
	VFov   float64   // Vertical field of view in degrees
	Width  int       // Film width in pixels
	Height int       // Film height in pixels
}

// Camera is a pinhole perspective camera that maps film samples to world rays
type Camera struct {
	config        CameraConfig
	cameraToWorld core.Transform
	tanHalfFov    float64
	aspect        float64
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	return &Camera{
		config:        config,
		cameraToWorld: core.LookAt(config.Origin, config.Target, config.Up),
		tanHalfFov:    math.Tan(config.VFov * math.Pi / 360.0),
		aspect:        float64(config.Width) / float64(config.Height),
	}
}

// GenerateRay returns the world ray through pixel (x, y) offset by the jitter
// sample in [0,1)². Pixel (0, 0) is the top-left corner of the film.
func (c *Camera) GenerateRay(x, y int, jitter core.Vec2) core.Ray {
	// Film position in [-1, 1] with +y up
	sx := 2*(float64(x)+jitter.X)/float64(c.config.Width) - 1
	sy := 1 - 2*(float64(y)+jitter.Y)/float64(c.config.Height)

	direction := core.NewVec3(sx*c.tanHalfFov*c.aspect, sy*c.tanHalfFov, 1)
	return core.NewRay(c.config.Origin, c.cameraToWorld.Vector(direction).Normalize())
}

// FilmBounds returns the film size in pixels
func (c *Camera) FilmBounds() (int, int) {
	return c.config.Width, c.config.Height
}

// Config returns the camera configuration
func (c *Camera) Config() CameraConfig {
	return c.config
}
