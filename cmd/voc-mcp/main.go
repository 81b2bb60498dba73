package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/voc-tools-mcp/internal/config"
	"github.com/ironsheep/voc-tools-mcp/internal/logging"
	"github.com/ironsheep/voc-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	// Global flags
	verbose    bool
	configPath string
	envFile    string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "voc-mcp",
	Short: "PASCAL-VOC annotation tools and MCP server",
	Long: `voc-mcp reads and writes PASCAL-VOC annotation XML files.

Run without a subcommand to serve the annotation tools over MCP on
stdin/stdout. Configure it in your MCP client (e.g., Claude Desktop).

Environment variables:
  VOC_MCP_LOG_LEVEL   debug, info, warn, error
  VOC_MCP_LOG_FORMAT  json, console
  VOC_MCP_DATABASE    <source><database> for new documents
  VOC_MCP_VERIFIED    mark new documents verified (true/false)`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve annotation tools over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("voc-mcp %s\n  Build time: %s\n  Git commit: %s\n", Version, BuildTime, GitCommit))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(previewCmd)
}

// setup loads configuration and builds the logger. Logs go to stderr
// because stdout carries MCP traffic and command output.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err = logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	server.Version = Version
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("Starting MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	srv := server.New(cfg, logger)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
