package tiledownloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdoa-platform/core/internal/tilecache"
)

func TestSynchronize_MirrorsRemoteAndRestoresOrigin(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stats":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"total_tiles":4,"cached_tiles":2,"requests_served":9}`))
		default:
			w.Write([]byte("remote-tile"))
		}
	}))
	defer remote.Close()

	store := tilecache.NewStore(t.TempDir(), false)
	dl := New("https://tile.openstreetmap.org", store, 1, 2*time.Second)

	ok, err := dl.Synchronize(context.Background(), remote.URL, -1, -1, 1, 1, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://tile.openstreetmap.org", dl.originURL)
}
