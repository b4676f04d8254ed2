// Package tiledownloader fetches map tiles from an OSM-compatible tile
// origin through a bounded worker pool fed by a priority queue, writing
// completed tiles into a tilecache.Store.
package tiledownloader
