package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/SentryView/sentryview/pkg/backend"
	log "github.com/SentryView/sentryview/pkg/logging"
	"github.com/SentryView/sentryview/pkg/metadata"
	"github.com/SentryView/sentryview/pkg/models"
	"github.com/SentryView/sentryview/pkg/notify"
	"github.com/SentryView/sentryview/pkg/render"
	"go.uber.org/zap"
)

// MaxUploadSize is the per-file cap for analysis uploads.
const MaxUploadSize = 100 << 20 // 100 MB

// multipartMemory bounds how much of a request body is buffered in memory
// before spilling to temp files.
const multipartMemory = 32 << 20

var allowedUploadExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".mp4": true, ".avi": true, ".mov": true,
	".mp3": true, ".wav": true, ".flac": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".txt": true, ".csv": true,
	".zip": true, ".rar": true,
}

// FileDropPageHandler handles GET requests to /file-drop.
func (s *Server) FileDropPageHandler(w http.ResponseWriter, r *http.Request) {
	s.renderFileDropPage(w, nil)
}

func (s *Server) renderFileDropPage(w http.ResponseWriter, results []models.FileResult) {
	data := struct {
		Title   string
		Results []render.FileResultView
		Toast   render.ToastView
	}{
		Title:   "File analysis",
		Results: render.NewFileResultViews(results),
		Toast:   s.toastView(),
	}

	w.Header().Set(ContentTypeHeader, "text/html")
	if err := s.Renderer.Page(w, "fileDropPage", data); err != nil {
		log.Error("Failed to render file-drop page", zap.Error(err))
		http.Error(w, "", http.StatusInternalServerError)
	}
}

// validateUploads applies the client-side gate: size cap, extension allow
// list and duplicate rejection (same name and size within the batch).
// Rejected files produce messages, accepted files pass through in order.
func validateUploads(files []*multipart.FileHeader) (accepted []*multipart.FileHeader, rejections []string) {
	type seenKey struct {
		name string
		size int64
	}
	seen := make(map[seenKey]bool)

	for _, fh := range files {
		if fh.Size > MaxUploadSize {
			rejections = append(rejections, fmt.Sprintf("%s: file too large (over 100 MB)", fh.Filename))
			continue
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedUploadExtensions[ext] {
			rejections = append(rejections, fmt.Sprintf("%s: unsupported file type", fh.Filename))
			continue
		}
		key := seenKey{fh.Filename, fh.Size}
		if seen[key] {
			rejections = append(rejections, fmt.Sprintf("%s: duplicate file", fh.Filename))
			continue
		}
		seen[key] = true
		accepted = append(accepted, fh)
	}
	return accepted, rejections
}

// FileDropHandler handles POST requests to /file-drop: validates the batch,
// forwards it to the analysis backend and presents the per-file results.
func (s *Server) FileDropHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, models.FileDropEnvelope{Success: false, Error: "invalid multipart request"})
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.Notifier.Notify("Add files before applying the filter", notify.SeverityError)
		writeJSON(w, http.StatusBadRequest, models.FileDropEnvelope{Success: false, Error: "no files provided"})
		return
	}

	accepted, rejections := validateUploads(files)
	if len(rejections) > 0 {
		s.Notifier.Notify(strings.Join(rejections, "\n"), notify.SeverityError)
	}
	if len(accepted) == 0 {
		writeJSON(w, http.StatusBadRequest, models.FileDropEnvelope{Success: false, Error: strings.Join(rejections, "; ")})
		return
	}

	uploads := make([]backend.Upload, 0, len(accepted))
	opened := make([]multipart.File, 0, len(accepted))
	defer func() {
		for _, f := range opened {
			if err := f.Close(); err != nil {
				log.Error("Failed to close uploaded file", zap.Error(err))
			}
		}
	}()
	for _, fh := range accepted {
		f, err := fh.Open()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, models.FileDropEnvelope{Success: false, Error: "failed to read upload"})
			return
		}
		opened = append(opened, f)
		uploads = append(uploads, backend.Upload{Filename: fh.Filename, Content: f})
	}

	metadata.UploadsTotal.Inc()
	results, message, err := s.Backend.AnalyzeFiles(r.Context(), uploads)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, models.FileDropEnvelope{Success: false, Error: s.actionFailed(err, "analyze files")})
		return
	}

	s.Notifier.Notify(message, notify.SeveritySuccess)
	log.Info("File batch analyzed",
		zap.Int("files", len(accepted)),
		zap.Int("results", len(results)))

	if wantsHTML(r) {
		s.renderFileDropPage(w, results)
		return
	}
	writeJSON(w, http.StatusOK, models.FileDropEnvelope{Success: true, Results: results, Message: message})
}
