package renderer

import "image"

// Tile is a rectangular region of the film rendered as one unit of work
type Tile struct {
	ID     int
	Bounds image.Rectangle
}

// NewTileGrid creates a grid of tiles covering the entire image in row-major
// order. Tiles on the right and bottom edges are clipped to the image.
func NewTileGrid(width, height, tileSize int) []Tile {
	if tileSize <= 0 {
		tileSize = max(width, height)
	}

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]Tile, 0, tilesX*tilesY)
	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, Tile{ID: len(tiles), Bounds: image.Rect(x0, y0, x1, y1)})
		}
	}
	return tiles
}
