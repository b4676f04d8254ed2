package tiledownloader

import "math"

// LonLatToTile converts a geographic coordinate to the slippy-map tile
// that contains it at the given zoom level, using the standard spherical
// Mercator projection.
func LonLatToTile(lat, lon float64, zoom int) (x, y int) {
	n := math.Exp2(float64(zoom))
	x = int(math.Floor((lon + 180.0) / 360.0 * n))
	y = int(math.Floor((1.0 - math.Asinh(math.Tan(lat*math.Pi/180.0))/math.Pi) / 2.0 * n))
	return x, y
}

// TileBounds returns the geographic bounding box covered by tile (z, x, y).
func TileBounds(z, x, y int) (minLat, minLon, maxLat, maxLon float64) {
	minLon, maxLat = tileCorner(z, x, y)
	maxLon, minLat = tileCorner(z, x+1, y+1)
	return minLat, minLon, maxLat, maxLon
}

// tileCorner returns the lon/lat of the top-left corner of tile (z, x, y),
// the inverse of LonLatToTile's projection.
func tileCorner(z, x, y int) (lon, lat float64) {
	n := math.Exp2(float64(z))
	lon = float64(x)/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1.0 - 2.0*float64(y)/n)))
	lat = latRad * 180.0 / math.Pi
	return lon, lat
}
