package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// LoadFile loads the given file and performs decompression if necessary.
// Archives are expected to carry the cartridge image as their first
// entry.
func LoadFile(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var decoder io.Reader
	switch filepath.Ext(filename) {
	case ".gz":
		decoder, err = gzip.NewReader(bytes.NewReader(data))
	case ".zip":
		var r *zip.Reader
		r, err = zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			break
		}
		if len(r.File) == 0 {
			return nil, fmt.Errorf("%s: empty archive", filename)
		}
		decoder, err = r.File[0].Open()
	case ".7z":
		var r *sevenzip.Reader
		r, err = sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			break
		}
		if len(r.File) == 0 {
			return nil, fmt.Errorf("%s: empty archive", filename)
		}
		decoder, err = r.File[0].Open()
	default:
		// not an archive, return the data as is
		return data, nil
	}
	if err != nil {
		return nil, err
	}

	return io.ReadAll(decoder)
}

// IsArchive reports whether the file at path needs decompression before
// it can be memory mapped.
func IsArchive(path string) bool {
	switch filepath.Ext(path) {
	case ".gz", ".zip", ".7z":
		return true
	}
	return false
}
