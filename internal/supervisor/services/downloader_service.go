package services

import "context"

// TileDownloader matches tiledownloader.Downloader's lifecycle methods.
type TileDownloader interface {
	Start(ctx context.Context)
	Stop()
}

// DownloaderService wraps the tile downloader worker pool as a supervised
// service. The downloader's own Start spawns its workers and returns
// immediately, so Serve just waits out the context and stops them.
type DownloaderService struct {
	downloader TileDownloader
}

// NewDownloaderService builds a DownloaderService over d.
func NewDownloaderService(d TileDownloader) *DownloaderService {
	return &DownloaderService{downloader: d}
}

// Serve implements suture.Service.
func (s *DownloaderService) Serve(ctx context.Context) error {
	s.downloader.Start(ctx)
	<-ctx.Done()
	s.downloader.Stop()
	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *DownloaderService) String() string { return "tile-downloader" }
