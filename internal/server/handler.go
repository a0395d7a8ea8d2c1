package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"rptconv/internal/file"
	"rptconv/internal/logger"
	"rptconv/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Processor converts the file at input and returns the path of the result
type Processor interface {
	Run(ctx context.Context, input string) (string, error)
}

// ProcessHandler serves the upload-and-convert endpoint
type ProcessHandler struct {
	processor      Processor
	metrics        *Metrics
	workRoot       string
	maxUploadBytes int64
	log            *slog.Logger
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(processor Processor, metrics *Metrics, workRoot string, maxUploadBytes int64) *ProcessHandler {
	return &ProcessHandler{
		processor:      processor,
		metrics:        metrics,
		workRoot:       workRoot,
		maxUploadBytes: maxUploadBytes,
		log:            logger.GetLogger().With("component", "process-handler"),
	}
}

// DownloadName derives the attachment name from the uploaded file name
func DownloadName(uploaded string) string {
	return strings.ReplaceAll(filepath.Base(uploaded), ".rpt", "_processed.txt")
}

// ProcessFile accepts a multipart "file" upload, runs it through the
// processor and returns the result as an attachment
func (h *ProcessHandler) ProcessFile(c *gin.Context) {
	start := time.Now()
	h.log.Info("Received file processing request")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			h.log.Error("Upload too large", "limit", h.maxUploadBytes)
			h.reject(c, start, http.StatusRequestEntityTooLarge, "File too large")
		case h.hasEmptyFilePart(c):
			h.log.Error("No selected file")
			h.reject(c, start, http.StatusBadRequest, "No selected file")
		default:
			h.log.Error("No file part in request", "error", err)
			h.reject(c, start, http.StatusBadRequest, "No file part")
		}
		return
	}

	log := h.log.With("file", header.Filename, "size", header.Size)
	log.Info("Processing file")

	ws, err := file.NewWorkspace(h.workRoot)
	if err != nil {
		h.fail(c, start, log, err)
		return
	}
	defer func() {
		if err := ws.Close(); err != nil {
			log.Error("Error cleaning up workspace", "path", ws.Path, "error", err)
		}
	}()
	log = log.With("request_id", ws.ID)
	c.Header("X-Request-Id", ws.ID)

	upload, err := header.Open()
	if err != nil {
		h.fail(c, start, log, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	input, err := ws.Save("input.rpt", upload)
	upload.Close()
	if err != nil {
		h.fail(c, start, log, fmt.Errorf("failed to save upload: %w", err))
		return
	}

	output, err := h.processor.Run(c.Request.Context(), input)
	if err != nil {
		h.fail(c, start, log, err)
		return
	}

	name := DownloadName(header.Filename)
	log.Info("Sending file back to client", "download_name", name)
	c.Header("Content-Disposition", utils.FormatAttachment(name))
	c.File(output)
	h.metrics.observe(outcomeSuccess, start)
}

// hasEmptyFilePart reports whether the form carried a "file" part without a
// filename, which multipart parsing stores as a plain value
func (h *ProcessHandler) hasEmptyFilePart(c *gin.Context) bool {
	form := c.Request.MultipartForm
	if form == nil {
		return false
	}
	_, ok := form.Value["file"]
	return ok
}

func (h *ProcessHandler) reject(c *gin.Context, start time.Time, status int, message string) {
	c.String(status, "%s", message)
	h.metrics.observe(outcomeRejected, start)
}

func (h *ProcessHandler) fail(c *gin.Context, start time.Time, log *slog.Logger, err error) {
	log.Error("Error during processing", "error", err)
	c.String(http.StatusInternalServerError, "Error processing file: %v", err)
	h.metrics.observe(outcomeFailed, start)
}
