package handlers

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/storage"
)

const maxUploadBytes = 5 << 20

// UploadImage stores an article image and returns its public URL.
func (a *App) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "invalid upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		a.error(w, http.StatusBadRequest, "image exceeds the 5MB limit")
		return
	}
	if !storage.AllowedImageExt(header.Filename) {
		a.error(w, http.StatusBadRequest, "only image files are allowed")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		a.fail(w, err, "failed to read upload")
		return
	}
	if len(data) > maxUploadBytes {
		a.error(w, http.StatusBadRequest, "image exceeds the 5MB limit")
		return
	}

	key := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	stored, err := a.Files.Write(r.Context(), key, data)
	if err != nil {
		a.fail(w, err, "failed to store upload")
		return
	}

	a.json(w, http.StatusCreated, map[string]any{
		"success":  true,
		"filename": stored,
		"url":      a.uploadURL(stored),
	})
}

// UploadDelete removes a previously uploaded image.
func (a *App) UploadDelete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if err := a.Files.Remove(r.Context(), filename); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			a.error(w, http.StatusNotFound, "image not found")
			return
		}
		a.fail(w, err, "failed to delete image")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Deleted %s", filename),
	})
}

// UploadsList returns the stored images with their public URLs.
func (a *App) UploadsList(w http.ResponseWriter, r *http.Request) {
	stored, err := a.Files.List(r.Context())
	if err != nil {
		a.fail(w, err, "failed to list images")
		return
	}
	images := make([]map[string]any, 0, len(stored))
	for _, img := range stored {
		images = append(images, map[string]any{
			"filename": img.Name,
			"url":      a.uploadURL(img.Name),
			"size":     img.Size,
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"images":  images,
		"total":   len(images),
	})
}

func (a *App) uploadURL(key string) string {
	return strings.TrimRight(a.Cfg.UploadBaseURL, "/") + "/" + key
}
