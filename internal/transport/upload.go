package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"rptconv/internal/config"
	"rptconv/internal/logger"
	"rptconv/pkg/types"
	"rptconv/pkg/utils"
)

// maxErrorBody caps how much of a failed response is kept for the error message
const maxErrorBody = 64 * 1024

// ProgressTracker receives the bytes of the upload as they are streamed
type ProgressTracker interface {
	// Track returns a writer fed with every uploaded byte and a func called
	// once streaming ends
	Track(name string, total int64) (io.Writer, func())
}

// UploadClient submits a file to the process endpoint and returns the
// converted payload
type UploadClient struct {
	httpClient *http.Client
	config     *config.ClientConfig
	tracker    ProgressTracker
	log        *slog.Logger
}

// NewUploadClient creates a new upload client. tracker may be nil.
func NewUploadClient(cfg *config.ClientConfig, httpClient *http.Client, tracker ProgressTracker) *UploadClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &UploadClient{
		httpClient: httpClient,
		config:     cfg,
		tracker:    tracker,
		log:        logger.GetLogger().With("component", "upload-client"),
	}
}

// ValidateFile checks that a file was chosen and carries the required extension
func (c *UploadClient) ValidateFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return &ValidationError{Reason: "Please select a file first"}
	}
	if !utils.HasExtension(filepath.Base(path), c.config.RequiredExtension) {
		return &ValidationError{Reason: fmt.Sprintf("Please select a %s file", c.config.RequiredExtension)}
	}
	return nil
}

// Submit uploads the file at path as multipart form data and buffers the
// response body
func (c *UploadClient) Submit(ctx context.Context, path string) (*types.UploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	upload := types.UploadRequest{Name: filepath.Base(path), Size: stat.Size()}
	body, contentType := c.streamMultipart(file, upload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		body.Close()
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	c.log.Info("Uploading file", "file", upload.Name, "size", upload.Size, "endpoint", c.config.Endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "upload failed", Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("Response received", "status", resp.StatusCode, "headers", resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			c.log.Debug("Could not read error body", "error", readErr)
		}
		return nil, &ServerError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(text)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "failed to read response", Err: err}
	}
	if len(data) == 0 {
		return nil, ErrEmptyResponse
	}

	result := &types.UploadResult{
		Filename: c.config.FallbackFilename,
		Data:     data,
	}
	if name, ok := utils.ParseDispositionFilename(resp.Header.Get("Content-Disposition")); ok {
		result.Filename = name
		result.Suggested = true
	}

	c.log.Debug("Response buffered", "bytes", len(data), "filename", result.Filename)
	return result, nil
}

// streamMultipart encodes file into a multipart body on the fly. The returned
// reader owns file and closes it once the body has been produced or abandoned.
func (c *UploadClient) streamMultipart(file *os.File, upload types.UploadRequest) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	contentType := mw.FormDataContentType()

	go func() {
		defer file.Close()

		err := c.writeFilePart(mw, file, upload)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, contentType
}

func (c *UploadClient) writeFilePart(mw *multipart.Writer, file io.Reader, upload types.UploadRequest) error {
	src := file
	if c.tracker != nil {
		w, done := c.tracker.Track(upload.Name, upload.Size)
		defer done()
		src = io.TeeReader(file, w)
	}

	part, err := mw.CreateFormFile("file", upload.Name)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, src)
	return err
}
