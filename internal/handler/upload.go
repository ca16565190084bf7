// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/mllab/labsite/internal/middleware"
	"github.com/mllab/labsite/internal/model"
	"github.com/mllab/labsite/internal/upload"
	"github.com/mllab/labsite/internal/util"
)

// UploadImage stores a general content image under uploads/images.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, model.UploadKindImage)
}

// UploadPersonImage stores a profile photo under uploads/people.
func (h *Handler) UploadPersonImage(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, model.UploadKindPerson)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, kind model.UploadKind) {
	// The multipart reader is capped slightly above the file limit so an
	// oversized upload is reported as such rather than as a broken form.
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeMutationError(w, "reading upload", err)
		return
	}
	head = head[:n]

	declared := header.Header.Get("Content-Type")
	if err := upload.Validate(header.Filename, declared, header.Size, head); err != nil {
		h.rejectUpload(w, r, header.Filename, declared, err)
		return
	}

	ext := upload.ExtensionFor(declared)
	url, err := h.storage.Save(kind, ext, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		writeMutationError(w, "storing upload", err)
		return
	}
	name := path.Base(url)

	var variants []imagingVariant
	if h.images != nil && h.images.IsRaster(declared) {
		results, err := h.images.CreateVariants(kind, name)
		if err != nil {
			// The original is already stored, so variant failures degrade
			// rather than fail the upload.
			slog.Warn("image variant generation failed",
				"source", model.EventSourceUpload,
				"ip", util.ClientIP(r),
				"file", name,
				"error", err)
		}
		for _, res := range results {
			variants = append(variants, imagingVariant{
				Type: res.Type,
				URL:  "/uploads/" + string(kind) + "/" + res.Type + "/" + name,
			})
		}
	}

	userID := int64(0)
	if u, ok := middleware.UserFrom(r.Context()); ok {
		userID = u.UserID
	}
	slog.Info("file uploaded",
		"source", model.EventSourceUpload,
		"user_id", userID,
		"ip", util.ClientIP(r),
		"file", name,
		"size", header.Size)

	WriteJSON(w, http.StatusCreated, uploadResponse{
		URL:      url,
		Filename: name,
		Size:     header.Size,
		MimeType: declared,
		Variants: variants,
	})
}

type imagingVariant struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type uploadResponse struct {
	URL      string           `json:"url"`
	Filename string           `json:"filename"`
	Size     int64            `json:"size"`
	MimeType string           `json:"type"`
	Variants []imagingVariant `json:"variants,omitempty"`
}

// rejectUpload maps validation failures to client responses and records the
// rejection in the audit log.
func (h *Handler) rejectUpload(w http.ResponseWriter, r *http.Request, filename, declared string, err error) {
	slog.Warn("upload rejected",
		"source", model.EventSourceUpload,
		"ip", util.ClientIP(r),
		"url", r.URL.Path,
		"filename", filename,
		"declared_type", declared,
		"reason", err.Error())

	switch {
	case errors.Is(err, upload.ErrFileTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		WriteError(w, http.StatusBadRequest, err.Error())
	}
}
