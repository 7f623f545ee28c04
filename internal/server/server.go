// Package server exposes the conversion pipeline over HTTP.
//
// The boundary validates uploads before anything touches disk, gives every
// job its own working directory, and guarantees that directory is gone when
// the request ends — success, handled failure, or panic alike. Pipeline
// internals are never surfaced to callers: failures map to one generic
// conversion-failed response plus a correlated log record.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	docx2pdf "github.com/avelar/go-docx2pdf"
	"github.com/avelar/go-docx2pdf/internal/fileutil"
)

// DefaultMaxUpload bounds request bodies (32MB).
const DefaultMaxUpload = 32 << 20

// Service converts one uploaded document to a PDF.
type Service interface {
	ConvertFile(ctx context.Context, inputPath, outputPath string) error
}

// Options configures the HTTP boundary.
type Options struct {
	// WorkRoot is the directory job workdirs are created beneath.
	// Defaults to os.TempDir().
	WorkRoot string
	// MaxUploadBytes caps the request body. Defaults to DefaultMaxUpload.
	MaxUploadBytes int64
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the HTTP request boundary over the conversion pipeline.
type Server struct {
	svc       Service
	workRoot  string
	maxUpload int64
	logger    *slog.Logger
}

// New creates a Server over the given conversion service.
func New(svc Service, opts Options) *Server {
	if opts.WorkRoot == "" {
		opts.WorkRoot = os.TempDir()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUpload
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		svc:       svc,
		workRoot:  opts.WorkRoot,
		maxUpload: opts.MaxUploadBytes,
		logger:    opts.Logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleInfo)
	r.Get("/health", s.handleHealth)
	r.Post("/convert", s.handleConvert)
	return r
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "docx2pdf",
		"usage":   "POST a Word document as multipart field \"file\" to /convert",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConvert accepts a .doc/.docx upload and responds with the converted
// PDF as an attachment named after the upload's stem.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "multipart field \"file\" is required",
		})
		return
	}
	defer file.Close()

	// Extension check happens before any write into a working directory;
	// a rejected upload must leave no trace on disk.
	filename := filepath.Base(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".doc" && ext != ".docx" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "file must be a Word document (.doc or .docx)",
		})
		return
	}

	jobID := uuid.NewString()
	jobDir := filepath.Join(s.workRoot, "docx2pdf-"+jobID)
	if err := os.MkdirAll(jobDir, 0700); err != nil {
		s.logger.Error("create job dir", "job", jobID, "error", err)
		s.serverFailure(w)
		return
	}
	defer os.RemoveAll(jobDir)

	inputPath := filepath.Join(jobDir, filename)
	if err := fileutil.SaveStream(file, inputPath); err != nil {
		s.logger.Error("save upload", "job", jobID, "error", err)
		s.serverFailure(w)
		return
	}

	stem := fileutil.Stem(filename)
	outputPath := filepath.Join(jobDir, stem+".pdf")

	if err := s.svc.ConvertFile(r.Context(), inputPath, outputPath); err != nil {
		// Callers only see a generic failure; detail goes to the log,
		// correlated by job id.
		if errors.Is(err, docx2pdf.ErrUnsupportedExtension) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "file must be a Word document (.doc or .docx)",
			})
			return
		}
		s.logger.Error("conversion failed", "job", jobID, "file", filename, "error", err)
		s.serverFailure(w)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stem+".pdf"))
	http.ServeFile(w, r, outputPath)
}

func (s *Server) serverFailure(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "failed to convert the document",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
