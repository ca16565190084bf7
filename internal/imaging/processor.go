// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging derives resized variants of uploaded raster images using
// pure Go codecs.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/mllab/labsite/internal/model"
)

// VariantResult describes one generated variant.
type VariantResult struct {
	Type     string
	Width    int
	Height   int
	Size     int64
	FilePath string
}

// Processor generates image variants under the uploads root.
type Processor struct {
	uploadsDir string
}

// NewProcessor creates a processor rooted at uploadsDir.
func NewProcessor(uploadsDir string) *Processor {
	return &Processor{uploadsDir: uploadsDir}
}

// IsRaster reports whether a MIME type is a raster format variants can be
// generated for. SVG is vector and passes through untouched.
func (p *Processor) IsRaster(mimeType string) bool {
	switch mimeType {
	case model.MimeTypeJPEG, model.MimeTypePNG, model.MimeTypeGIF, model.MimeTypeWebP:
		return true
	}
	return false
}

// CreateVariants generates every configured variant of a stored upload.
// kind and name locate the original under the uploads root. Individual
// variant failures do not abort the rest; an error is returned only when
// nothing could be produced.
func (p *Processor) CreateVariants(kind model.UploadKind, name string) ([]VariantResult, error) {
	sourcePath := filepath.Join(p.uploadsDir, string(kind), name)

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("reading source image: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding source image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	var results []VariantResult
	var errs []string
	for variantType, cfg := range model.ImageVariants {
		res, err := p.createVariant(img, kind, name, variantType, cfg)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", variantType, err))
			continue
		}
		if res != nil {
			results = append(results, *res)
		}
	}

	if len(errs) > 0 && len(results) == 0 {
		return nil, fmt.Errorf("all variants failed: %s", strings.Join(errs, "; "))
	}
	return results, nil
}

func (p *Processor) createVariant(img image.Image, kind model.UploadKind, name, variantType string, cfg model.ImageVariantConfig) (*VariantResult, error) {
	bounds := img.Bounds()
	// Upscaling a small source only wastes disk.
	if bounds.Dx() <= cfg.Width && bounds.Dy() <= cfg.Height && !cfg.Crop {
		return nil, nil
	}

	var resized image.Image
	if cfg.Crop {
		resized = imaging.Fill(img, cfg.Width, cfg.Height, imaging.Center, imaging.Lanczos)
	} else {
		resized = imaging.Fit(img, cfg.Width, cfg.Height, imaging.Lanczos)
	}

	encoded, err := encodeImage(resized, formatFromFilename(name), cfg.Quality)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(p.uploadsDir, string(kind), variantType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating variant dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return nil, fmt.Errorf("writing variant: %w", err)
	}

	rb := resized.Bounds()
	return &VariantResult{
		Type:     variantType,
		Width:    rb.Dx(),
		Height:   rb.Dy(),
		Size:     int64(len(encoded)),
		FilePath: path,
	}, nil
}

// Dimensions returns an image file's width and height without decoding the
// full pixel data.
func (p *Processor) Dimensions(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening image: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("reading image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// readExifOrientation returns the EXIF orientation tag, or 1 (normal) when
// it cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation normalizes an image according to its EXIF orientation.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes img with the given format and quality. WebP encoding
// has no pure Go implementation so variants fall back to JPEG.
func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func formatFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	default:
		return "jpeg"
	}
}
