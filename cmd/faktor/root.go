package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/faktor/internal/paths"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// cfg holds the settings loaded from config.yaml by PersistentPreRunE.
var cfg settings

var rootCmd = &cobra.Command{
	Use:           "faktor",
	Short:         "Faktor resolves product component templates against their model",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		configDir, err := resolveConfigDir()
		if err != nil {
			return sysError(err)
		}
		loaded, err := loadConfig(configDir)
		if err != nil {
			return sysError(err)
		}
		cfg = loaded
		setupLogger(cfg.LogLevel, cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: ./.faktor or the platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.faktor-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(setStatusCmd)
	rootCmd.AddCommand(usagesCmd)
	rootCmd.AddCommand(valuesCmd)
	rootCmd.AddCommand(deltaCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(rootsCmd)
}

// resolveDataDir returns the data directory:
// --data-dir flag > FAKTOR_DATA_DIR env > config.yaml data_dir > $(CWD)/.faktor-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, cfg.DataDir)
}

// resolveConfigDir returns the configuration directory:
// --config-dir flag > FAKTOR_CONFIG_DIR env > ./.faktor > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
