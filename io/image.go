package io

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// LoadImage reads a raw program image, decompressing it if necessary.
// Archives (.7z and .zip) yield their first file; .gz is decompressed.
// Any other file is returned as is.
func LoadImage(filename string) (data []byte, err error) {
	data, err = os.ReadFile(filename)
	if err != nil {
		return
	}

	return DecodeImage(filepath.Ext(filename), data)
}

// DecodeImage decompresses an image by its file extension.
func DecodeImage(ext string, data []byte) (image []byte, err error) {
	var decoder io.Reader

	switch strings.ToLower(ext) {
	case ".gz":
		var zr *gzip.Reader
		zr, err = gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return
		}
		defer zr.Close()
		decoder = zr
	case ".zip":
		var zr *zip.Reader
		zr, err = zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return
		}
		if len(zr.File) == 0 {
			err = ErrImageEmpty
			return
		}
		var rc io.ReadCloser
		rc, err = zr.File[0].Open()
		if err != nil {
			return
		}
		defer rc.Close()
		decoder = rc
	case ".7z":
		var sr *sevenzip.Reader
		sr, err = sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return
		}
		if len(sr.File) == 0 {
			err = ErrImageEmpty
			return
		}
		var rc io.ReadCloser
		rc, err = sr.File[0].Open()
		if err != nil {
			return
		}
		defer rc.Close()
		decoder = rc
	default:
		image = data
		return
	}

	image, err = io.ReadAll(decoder)
	return
}
