package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize faktor configuration and storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// PersistentPreRunE already created the config directory and file.
		configDir, err := resolveConfigDir()
		if err != nil {
			return sysError(err)
		}
		dataDir, err := resolveDataDir()
		if err != nil {
			return sysError(err)
		}
		backend, err := attachBackend()
		if err != nil {
			return err
		}
		if err := backend.Detach(); err != nil {
			return sysError(err)
		}

		out := cmd.OutOrStdout()
		if flagJSON {
			return printJSON(out, map[string]string{"config_dir": configDir, "data_dir": dataDir})
		}
		fmt.Fprintln(out, "faktor initialized")
		fmt.Fprintln(out, "  config:", configDir)
		fmt.Fprintln(out, "  data:  ", dataDir)
		return nil
	},
}
