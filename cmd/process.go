package cmd

import (
	"fmt"
	"net/http"
	"os"

	"rptconv/internal/app"
	"rptconv/internal/transport"
	"rptconv/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type ProcessFlags struct {
	FilePath   string
	OutputDir  string
	Endpoint   string
	NoProgress bool
}

var processFlags ProcessFlags

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Upload a report for conversion and save the result",
	Long: `Upload a report to the conversion endpoint. This will:

1. Check that the file has the required extension (.rpt by default)
2. POST it as multipart form data
3. Save the returned file under the name suggested by the server

Use --file to choose the report and --out to choose where the result goes.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("no-progress") {
			cfg.Client.ShowProgress = !processFlags.NoProgress
		}
		return validateProcessFlags(&processFlags)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runProcessApp(&processFlags); err != nil {
			// already reported through the status line
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processFlags.FilePath, "file", "f", "", "Path to the report to upload (required)")
	processCmd.Flags().StringVarP(&processFlags.OutputDir, "out", "o", "", "Directory to save the converted file")
	processCmd.Flags().StringVarP(&processFlags.Endpoint, "endpoint", "e", "", "Process endpoint URL")
	processCmd.Flags().BoolVar(&processFlags.NoProgress, "no-progress", false, "Disable the upload progress bar")

	processCmd.MarkFlagRequired("file")

	viper.BindPFlag("client.output_dir", processCmd.Flags().Lookup("out"))
	viper.BindPFlag("client.endpoint", processCmd.Flags().Lookup("endpoint"))
}

// validateProcessFlags validates the process command flags against the loaded config
func validateProcessFlags(flags *ProcessFlags) error {
	if flags.FilePath == "" {
		return fmt.Errorf("file path is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// runProcessApp creates and runs the uploader application
func runProcessApp(flags *ProcessFlags) error {
	ctx, cancel := createContext()
	defer cancel()

	var tracker transport.ProgressTracker
	if cfg.Client.ShowProgress {
		tracker = ui.NewProgressUI()
	}
	client := transport.NewUploadClient(&cfg.Client, &http.Client{}, tracker)

	opts := &app.UploaderOptions{
		FilePath:  flags.FilePath,
		OutputDir: cfg.Client.OutputDir,
	}

	uploader := app.NewUploaderApp(cfg, client, ui.NewConsoleUI())
	return uploader.Run(ctx, opts)
}
