package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"rptconv/internal/config"
	"rptconv/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg     *config.Config
	cfgFile string
	verbose bool
	logging = logger.GetLogger()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rptconv",
	Short: "rptconv - upload .rpt reports for conversion",
	Long: `rptconv sends survey .rpt reports to a conversion service and saves the
converted file it returns.

Usage:
  Convert a report:      rptconv process --file /path/to/data.rpt
  Run the service:       rptconv serve --addr :5000

The endpoint, required extension and output directory can be set with flags,
RPTCONV_* environment variables, a .env file or $HOME/.rptconv.yaml.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(viper.GetViper())
		if err != nil {
			return err
		}

		if verbose {
			cfg.LogLevel = "debug"
		}
		logger.SetLevel(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rptconv.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	viper.SetEnvPrefix("RPTCONV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())
}

// initConfig reads in .env, the config file and ENV variables
func initConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn("Could not load .env file", "error", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			logging.Warn("Could not find home directory", "error", err)
			return nil
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rptconv")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	logging.Info("Using config file", "path", viper.ConfigFileUsed())
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// createContext creates a context that cancels on interrupt signals
func createContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
