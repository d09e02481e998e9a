package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"server/internal/storage"
)

func multipartImage(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

func TestUploadImageStoresFile(t *testing.T) {
	app, _ := newTestApp(newFakeArticles(), &fakeCounters{})
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	app.Files = files

	body, contentType := multipartImage(t, "cover.PNG", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	app.UploadImage(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	payload := decodeBody(t, rr)
	filename, _ := payload["filename"].(string)
	if !strings.HasSuffix(filename, ".png") {
		t.Fatalf("filename = %q, want normalized .png extension", filename)
	}
	if url, _ := payload["url"].(string); url != "/uploads/"+filename {
		t.Fatalf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(files.BasePath(), filename))
	if err != nil {
		t.Fatalf("read stored upload: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored content = %q", data)
	}
}

func TestUploadImageRejectsExtension(t *testing.T) {
	app, _ := newTestApp(newFakeArticles(), &fakeCounters{})
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	app.Files = files

	body, contentType := multipartImage(t, "payload.exe", []byte("nope"))
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	app.UploadImage(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestUploadImageRequiresFile(t *testing.T) {
	app, _ := newTestApp(newFakeArticles(), &fakeCounters{})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/uploads/image", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rr := httptest.NewRecorder()
	app.UploadImage(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestUploadDelete(t *testing.T) {
	app, _ := newTestApp(newFakeArticles(), &fakeCounters{})
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	app.Files = files
	if _, err := files.Write(context.Background(), "gone.png", []byte("x")); err != nil {
		t.Fatalf("seed upload: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/uploads/image/gone.png", nil)
	rr := httptest.NewRecorder()
	app.UploadDelete(rr, withURLParam(req, "filename", "gone.png"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if _, err := os.Stat(filepath.Join(files.BasePath(), "gone.png")); !os.IsNotExist(err) {
		t.Fatalf("file still present after delete, stat err = %v", err)
	}
}

func TestUploadDeleteMissing(t *testing.T) {
	app, _ := newTestApp(newFakeArticles(), &fakeCounters{})
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	app.Files = files

	req := httptest.NewRequest(http.MethodDelete, "/api/uploads/image/ghost.png", nil)
	rr := httptest.NewRecorder()
	app.UploadDelete(rr, withURLParam(req, "filename", "ghost.png"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestUploadsList(t *testing.T) {
	app, _ := newTestApp(newFakeArticles(), &fakeCounters{})
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	app.Files = files
	for _, name := range []string{"a.png", "b.jpg", "notes.txt"} {
		if _, err := files.Write(context.Background(), name, []byte("x")); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	rr := httptest.NewRecorder()
	app.UploadsList(rr, httptest.NewRequest(http.MethodGet, "/api/uploads/images", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	payload := decodeBody(t, rr)
	if total, _ := payload["total"].(float64); total != 2 {
		t.Fatalf("total = %v, want 2 (txt file filtered out)", payload["total"])
	}
}
