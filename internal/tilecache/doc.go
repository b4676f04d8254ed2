// Package tilecache implements the on-disk map tile cache: files laid out
// as <root>/<z>/<x>/<y>.png, optionally zlib-deflated, with a last-served
// index the tile server updates on each hit. Periodic sweeps age out stale
// tiles by file modification time.
package tilecache
