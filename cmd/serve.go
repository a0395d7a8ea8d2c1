package cmd

import (
	"fmt"

	"rptconv/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the conversion service",
	Long: `Run the HTTP conversion service. Uploaded reports are passed through the
stages listed under server.stages in the config file. Each stage is an external
command whose arguments may use {input} and {output}.

Endpoints:
  POST /process-file, POST /api/process-file   convert an uploaded report
  GET  /metrics                                Prometheus metrics
  GET  /healthz                                liveness`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateServer(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := createContext()
		defer cancel()

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		return server.New(&cfg.Server).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Address to listen on (default :5000)")
	serveCmd.Flags().String("static", "", "Directory of static files served at /")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.static_dir", serveCmd.Flags().Lookup("static"))
}
