package tiledownloader

import "context"

// areaTile is one tile inside a download_area sweep, independent of the
// worker-pool Job type since area downloads bypass the queue to block on
// each tile in turn.
type areaTile struct {
	z, x, y int
}

// enumerateArea lists every tile covering [minLat,maxLat]x[minLon,maxLon]
// across [minZoom,maxZoom], inclusive.
func enumerateArea(minLat, minLon, maxLat, maxLon float64, minZoom, maxZoom int) []areaTile {
	var tiles []areaTile
	for z := minZoom; z <= maxZoom; z++ {
		x0, y0 := LonLatToTile(maxLat, minLon, z)
		x1, y1 := LonLatToTile(minLat, maxLon, z)
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		if y0 > y1 {
			y0, y1 = y1, y0
		}
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				tiles = append(tiles, areaTile{z: z, x: x, y: y})
			}
		}
	}
	return tiles
}

// DownloadArea fetches every tile covering the bounding box across the
// zoom range, blocking per tile and aborting on the first empty payload
// or fetch error. progress, if non-nil, is called after each tile with
// (tiles done, tiles total).
func (d *Downloader) DownloadArea(ctx context.Context, minLat, minLon, maxLat, maxLon float64, minZoom, maxZoom int, progress func(done, total int)) bool {
	tiles := enumerateArea(minLat, minLon, maxLat, maxLon, minZoom, maxZoom)
	total := len(tiles)

	for i, t := range tiles {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		data, err := d.fetchOrigin(ctx, t.z, t.x, t.y)
		if err != nil || len(data) == 0 {
			return false
		}
		if err := d.store.Put(t.z, t.x, t.y, data); err != nil {
			return false
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	return true
}
