package app

import (
	"context"

	"rptconv/pkg/types"
)

// Submitter validates and uploads a file to the process endpoint
type Submitter interface {
	// ValidateFile checks the file before anything is sent
	ValidateFile(path string) error
	// Submit uploads the file and returns the buffered response
	Submit(ctx context.Context, path string) (*types.UploadResult, error)
}

// StatusReporter displays the state of the current operation
type StatusReporter interface {
	ReportStatus(message string, kind types.StatusKind)
}
