// Package intake validates Statement of Facts files before they are stored or
// sent for extraction.
package intake

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"marithon/internal/domain"
)

const sniffLen = 512

// oleMagic opens every legacy Word (.doc) compound file.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// FileTypeOf resolves a file name to an accepted file type by extension.
func FileTypeOf(filename string) (domain.FileType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	ft, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}
	return ft, nil
}

// Sniff reports whether the leading bytes of a file are consistent with its
// declared type.
func Sniff(ft domain.FileType, head []byte) bool {
	detected := http.DetectContentType(head)
	switch ft {
	case domain.FileTypePDF:
		return detected == "application/pdf"
	case domain.FileTypeDOCX:
		return detected == "application/zip"
	case domain.FileTypeDOC:
		return bytes.HasPrefix(head, oleMagic)
	case domain.FileTypeTXT:
		return strings.HasPrefix(detected, "text/plain")
	}
	return false
}

// Check validates name, size and content of an upload and rewinds r so it can
// be read again from the start. A maxBytes of zero disables the size check.
func Check(filename string, r io.ReadSeeker, size, maxBytes int64) (domain.FileType, error) {
	if r == nil || filename == "" {
		return "", domain.ErrMissingFile
	}
	ft, err := FileTypeOf(filename)
	if err != nil {
		return "", err
	}
	if maxBytes > 0 && size > maxBytes {
		return "", domain.ErrFileTooLarge
	}

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("reading file header: %w", err)
	}
	if n == 0 {
		return "", domain.ErrMissingFile
	}
	if !Sniff(ft, buf[:n]) {
		return "", domain.ErrUnsupportedFileType
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seeking file: %w", err)
	}
	return ft, nil
}
