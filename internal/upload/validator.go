// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upload validates and stores user-submitted image files. Files are
// judged by their actual bytes, never by the declared content type alone.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/mllab/labsite/internal/model"
)

// MaxFileSize is the upload size ceiling.
const MaxFileSize = 5 << 20 // 5 MiB

// MaxFilenameLength bounds the client-supplied filename.
const MaxFilenameLength = 255

// sniffLen is how many leading bytes the signature checks need.
const sniffLen = 16

// Validation failures. All are safe to show to clients.
var (
	ErrFileTooLarge   = fmt.Errorf("file exceeds the %d MiB limit", MaxFileSize>>20)
	ErrFileEmpty      = errors.New("file is empty")
	ErrTypeNotAllowed = errors.New("file type is not allowed")
	ErrTypeMismatch   = errors.New("file content does not match its declared type")
	ErrBadFilename    = errors.New("invalid filename")
	ErrUnknownContent = errors.New("file content is not a recognized image format")
)

var allowedMimeTypes = map[string]string{
	model.MimeTypeJPEG: "jpg",
	model.MimeTypePNG:  "png",
	model.MimeTypeGIF:  "gif",
	model.MimeTypeWebP: "webp",
	model.MimeTypeSVG:  "svg",
}

// Validate runs every upload check in order: size, declared type, content
// sniffing, then filename. The first failure wins.
func Validate(filename, declaredType string, size int64, head []byte) error {
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	if size == 0 {
		return ErrFileEmpty
	}
	declared := normalizeMime(declaredType)
	if _, ok := allowedMimeTypes[declared]; !ok {
		return ErrTypeNotAllowed
	}

	detected := DetectImageType(head)
	if detected == "" {
		return ErrUnknownContent
	}
	if detected != declared {
		return ErrTypeMismatch
	}

	return checkFilename(filename)
}

// ExtensionFor returns the canonical file extension for an allowed MIME
// type, or "" when the type is not allowed.
func ExtensionFor(mimeType string) string {
	return allowedMimeTypes[normalizeMime(mimeType)]
}

// normalizeMime strips parameters like "; charset=utf-8" and lowercases.
func normalizeMime(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

func checkFilename(name string) error {
	if name == "" || len(name) > MaxFilenameLength {
		return ErrBadFilename
	}
	if strings.Contains(name, "..") ||
		strings.ContainsAny(name, `/\`) ||
		strings.ContainsRune(name, 0) {
		return ErrBadFilename
	}
	return nil
}

// DetectImageType sniffs the leading bytes and returns the matching MIME
// type, or "" when no known signature matches.
func DetectImageType(head []byte) string {
	switch {
	case bytes.HasPrefix(head, []byte("\x89PNG\r\n\x1a\n")):
		return model.MimeTypePNG
	case len(head) >= 3 && head[0] == 0xFF && head[1] == 0xD8 && head[2] == 0xFF:
		return model.MimeTypeJPEG
	case bytes.HasPrefix(head, []byte("GIF87a")) || bytes.HasPrefix(head, []byte("GIF89a")):
		return model.MimeTypeGIF
	case isWebP(head):
		return model.MimeTypeWebP
	case isSVG(head):
		return model.MimeTypeSVG
	}
	return ""
}

// isWebP needs both the RIFF container tag and the WEBP form tag; RIFF alone
// also matches WAV and AVI files.
func isWebP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[0:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}

// isSVG accepts text starting with an XML declaration or an <svg tag, with
// leading whitespace tolerated.
func isSVG(head []byte) bool {
	trimmed := bytes.TrimLeftFunc(head, unicode.IsSpace)
	return bytes.HasPrefix(trimmed, []byte("<?xml")) ||
		bytes.HasPrefix(trimmed, []byte("<svg"))
}
