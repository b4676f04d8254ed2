// Package tileserver exposes the HTTP map tile API: GET /tile/{z}/{x}/{y}
// serving from a tilecache.Store (enqueuing a download on miss) and GET
// /stats reporting running counters, behind a rolling one-minute rate
// limiter and a background sweep that ages out stale tiles.
package tileserver
