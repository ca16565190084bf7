// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package upload

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mllab/labsite/internal/model"
)

// Storage writes validated uploads to disk under a fixed root, one
// subdirectory per upload kind.
type Storage struct {
	root string
}

// NewStorage creates the uploads root and its kind subdirectories.
func NewStorage(root string) (*Storage, error) {
	for _, kind := range []model.UploadKind{model.UploadKindImage, model.UploadKindPerson} {
		dir := filepath.Join(root, string(kind))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating uploads dir %s: %w", dir, err)
		}
	}
	return &Storage{root: root}, nil
}

// Root returns the uploads root directory.
func (s *Storage) Root() string {
	return s.root
}

// GenerateFilename produces a collision-resistant stored name of the form
// {unixMillis}-{token}.{ext}. The client filename never reaches disk.
func GenerateFilename(ext string) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating upload token: %w", err)
	}
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), hex.EncodeToString(u[:8]), ext), nil
}

// Save streams src into the kind's directory under a generated name and
// returns the public URL path of the stored file.
func (s *Storage) Save(kind model.UploadKind, ext string, src io.Reader) (string, error) {
	name, err := GenerateFilename(ext)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(s.root, string(kind), name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}

	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("closing upload file: %w", err)
	}

	return "/uploads/" + string(kind) + "/" + name, nil
}

// Path resolves a stored file's absolute location from its kind and name.
func (s *Storage) Path(kind model.UploadKind, name string) string {
	return filepath.Join(s.root, string(kind), name)
}
