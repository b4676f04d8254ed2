package tilecache

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// zlibMagic is the first byte of every valid zlib stream produced by
// compress/zlib at the default and best-compression levels (CMF=0x78).
const zlibMagic = 0x78

func looksZlib(data []byte) bool {
	return len(data) >= 2 && data[0] == zlibMagic
}

func compressTile(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("tilecache: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("tilecache: compress: %w", err)
	}
	return buf.Bytes(), nil
}

func decompressTile(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("tilecache: decompress: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tilecache: decompress: %w", err)
	}
	return out, nil
}
