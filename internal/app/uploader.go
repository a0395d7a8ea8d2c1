package app

import (
	"context"
	"fmt"
	"log/slog"

	"rptconv/internal/config"
	"rptconv/internal/logger"
	"rptconv/pkg/types"
	"rptconv/pkg/utils"
)

// UploaderOptions configures one upload operation
type UploaderOptions struct {
	FilePath  string // Required: path to the file to process
	OutputDir string // Directory the converted file is saved to
}

// UploaderApp uploads a file for processing and saves the result
type UploaderApp struct {
	config *config.Config
	client Submitter
	status StatusReporter
	log    *slog.Logger
}

// NewUploaderApp creates a new uploader application
func NewUploaderApp(cfg *config.Config, client Submitter, status StatusReporter) *UploaderApp {
	return &UploaderApp{
		config: cfg,
		client: client,
		status: status,
		log:    logger.GetLogger().With("component", "uploader"),
	}
}

// Run performs a single upload operation. Any failure is reported once
// through the status display and returned.
func (u *UploaderApp) Run(ctx context.Context, opts *UploaderOptions) error {
	if err := u.client.ValidateFile(opts.FilePath); err != nil {
		return u.fail(err)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = u.config.Client.OutputDir
	}

	u.status.ReportStatus("Processing...", types.StatusNeutral)

	result, err := u.client.Submit(ctx, opts.FilePath)
	if err != nil {
		return u.fail(err)
	}

	path, err := Save(outputDir, result.Filename, u.config.Client.FallbackFilename, result.Data)
	if err != nil {
		return u.fail(err)
	}

	u.log.Info("Saved processed file", "path", path, "bytes", len(result.Data))
	u.status.ReportStatus(fmt.Sprintf("File processed successfully! Saved %s (%s)",
		path, utils.FormatFileSize(int64(len(result.Data)))), types.StatusSuccess)
	return nil
}

func (u *UploaderApp) fail(err error) error {
	u.log.Error("Processing failed", "error", err)
	u.status.ReportStatus(fmt.Sprintf("Error: %v", err), types.StatusError)
	return err
}
