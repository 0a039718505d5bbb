/*
main.go - hrd command-line entry point

PURPOSE:
  One binary for the HR records tool: serve the HTTP API, or work on the
  data directory directly (export, import, audit logs).

COMMANDS:
  hrd serve                       HTTP API with graceful shutdown
  hrd export <module> [list]      Print a list as JSON (or -o file)
  hrd import <module> <file>      Append a JSON array to a list (--list)
  hrd logs <module>               Print a module's audit log

GLOBAL FLAGS:
  --config     YAML config file (default: HRD_CONFIG or ./hrd.yaml)
  --data-dir   Directory holding the *.json lists (HRD_DATA_DIR); :memory:
               keeps everything in memory for the life of the process
  --log-level  debug, info, warn, error (HRD_LOG_LEVEL)
  -v           Shorthand for --log-level=debug

EXAMPLES:
  hrd serve --port 3000
  hrd export compensation > comp.json
  hrd import training attendance.json --list attendance
  hrd logs relations --json

SEE ALSO:
  - config/config.go: Config sources and precedence
  - api/server.go: Routes served by `hrd serve`
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/hr-records/config"
	"github.com/warp/hr-records/factory"
	"github.com/warp/hr-records/generic"
	"github.com/warp/hr-records/generic/store"
	"github.com/warp/hr-records/logging"
	"github.com/warp/hr-records/store/jsonfile"
)

var (
	// Global flags
	configPath string
	dataDir    string
	logLevel   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hrd",
	Short: "HR records: planning, recruitment, training, performance, compensation, relations",
	Long: `hrd keeps six HR record modules in JSON files, one file per list plus
one audit log per module, and serves them over an HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, exportCmd, importCmd, logsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// MemoryDataDir as --data-dir keeps every list in memory; nothing is read
// from or written to disk.
const MemoryDataDir = ":memory:"

// openModules opens every module over the configured data directory.
func openModules(ctx context.Context) (*factory.Modules, error) {
	backend, err := openBackend(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return factory.Open(ctx, backend, generic.WithLogger(logger))
}

func openBackend(dataDir string) (generic.Backend, error) {
	if dataDir == MemoryDataDir {
		logger.Debug("opening modules in memory")
		return store.NewMemory(), nil
	}
	dir, err := jsonfile.New(dataDir)
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	logger.Debug("opening modules", zap.String("data_dir", dir.Path()))
	return dir, nil
}
