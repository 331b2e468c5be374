// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/churchcms/internal/service"
)

// multipartOverhead leaves room for the form fields around the file part.
const multipartOverhead = 1 << 20

// UploadsHandler receives images from the admin form image fields.
type UploadsHandler struct {
	media    *service.MediaService
	activity *service.ActivityService
}

// NewUploadsHandler creates a new UploadsHandler. activity may be nil.
func NewUploadsHandler(media *service.MediaService, activity *service.ActivityService) *UploadsHandler {
	return &UploadsHandler{media: media, activity: activity}
}

// Upload handles POST /admin/uploads with a multipart "file" part and an
// optional "folder". It answers {"url": "..."}.
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.media.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, service.ErrTooLarge.Error())
			return
		}
		writeJSONError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	res, err := h.media.Upload(r.Context(), r.FormValue("folder"), header.Filename, header.Header.Get("Content-Type"), file)
	switch {
	case errors.Is(err, service.ErrNotImage):
		writeJSONError(w, http.StatusBadRequest, "Only image files can be uploaded")
		return
	case errors.Is(err, service.ErrTooLarge):
		writeJSONError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	case err != nil:
		slog.Error("failed to upload image", "error", err, "filename", header.Filename)
		writeJSONError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	if h.activity != nil {
		userID, ip := actor(r)
		h.activity.LogContent(r.Context(), "uploaded", "image", 0, userID, ip)
	}
	writeJSON(w, http.StatusOK, res)
}
