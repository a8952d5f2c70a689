package testutil

import (
	"archive/tar"
	"archive/zip"
	"io"
	"os"
	"sort"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

// Compression selects the stream wrapping used by WriteTar.
type Compression int

const (
	NoCompression Compression = iota
	Gzip
	Zstd
)

// WriteZip writes a zip bundle at path holding files. Entries are written in
// sorted name order.
func WriteZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range sortedNames(files) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, files[name])
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

// WriteTar writes a tar bundle at path holding files, optionally compressed.
func WriteTar(t *testing.T, path string, compression Compression, files map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	var stream io.WriteCloser
	switch compression {
	case Gzip:
		stream = gzip.NewWriter(f)
	case Zstd:
		zw, err := zstd.NewWriter(f)
		require.NoError(t, err)
		stream = zw
	default:
		stream = nopWriteCloser{f}
	}

	tw := tar.NewWriter(stream)
	for _, name := range sortedNames(files) {
		content := files[name]
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := io.WriteString(tw, content)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, stream.Close())
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func sortedNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
