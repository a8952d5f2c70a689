package fsutil

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxEntrySize bounds how much of a single matching entry is read into memory.
const maxEntrySize = 1 << 20

type archiveKind int

const (
	notArchive archiveKind = iota
	zipArchive
	tarArchive
	tarGzipArchive
	tarZstdArchive
)

// archiveSuffixes is checked in order, so compound suffixes come first.
var archiveSuffixes = []struct {
	suffix string
	kind   archiveKind
}{
	{".tar.gz", tarGzipArchive},
	{".tgz", tarGzipArchive},
	{".tar.zst", tarZstdArchive},
	{".tzst", tarZstdArchive},
	{".tar", tarArchive},
	{".zip", zipArchive},
	{".jar", zipArchive},
}

// ArchiveEntry is one matching file inside an archive bundle.
type ArchiveEntry struct {
	// Name is the slash separated path of the entry inside the bundle.
	Name    string
	Content []byte
}

// IsArchive reports whether path names a bundle format ListArchive can read.
func IsArchive(path string) bool {
	return kindOf(path) != notArchive
}

func kindOf(path string) archiveKind {
	lower := strings.ToLower(path)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return s.kind
		}
	}
	return notArchive
}

// ListArchive enumerates the regular file entries of the bundle at path and
// returns, in archive order, those accepted by filter together with their
// content. Any read or format error aborts the listing; the caller treats the
// whole bundle as empty.
func ListArchive(path string, filter Filter) ([]ArchiveEntry, error) {
	if filter == nil {
		panic("filter must not be nil")
	}

	switch kindOf(path) {
	case zipArchive:
		return listZip(path, filter)
	case tarArchive, tarGzipArchive, tarZstdArchive:
		return listTar(path, filter)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", path)
	}
}

func listZip(path string, filter Filter) ([]ArchiveEntry, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive %s: %w", path, err)
	}
	defer r.Close()

	var entries []ArchiveEntry
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !filter(f.Name) {
			continue
		}
		content, err := readZipEntry(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from %s: %w", f.Name, path, err)
		}
		entries = append(entries, ArchiveEntry{Name: cleanEntryName(f.Name), Content: content})
	}
	return entries, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return readBounded(rc)
}

func listTar(path string, filter Filter) ([]ArchiveEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tar archive %s: %w", path, err)
	}
	defer file.Close()

	var stream io.Reader = file
	switch kindOf(path) {
	case tarGzipArchive:
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
		}
		defer gz.Close()
		stream = gz
	case tarZstdArchive:
		zr, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream %s: %w", path, err)
		}
		defer zr.Close()
		stream = zr
	}

	var entries []ArchiveEntry
	tr := tar.NewReader(stream)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar archive %s: %w", path, err)
		}
		if hdr.Typeflag != tar.TypeReg || !filter(hdr.Name) {
			continue
		}
		content, err := readBounded(tr)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from %s: %w", hdr.Name, path, err)
		}
		entries = append(entries, ArchiveEntry{Name: cleanEntryName(hdr.Name), Content: content})
	}
	return entries, nil
}

func readBounded(r io.Reader) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, maxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if len(content) > maxEntrySize {
		return nil, fmt.Errorf("entry exceeds %d bytes", maxEntrySize)
	}
	return content, nil
}

func cleanEntryName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	return strings.TrimPrefix(name, "./")
}
