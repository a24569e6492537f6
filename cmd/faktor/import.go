package main

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/faktor/internal/modelfile"
	"github.com/mesh-intelligence/faktor/internal/sqlite"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import <model.yaml>",
	Short: "Load a model file and its component documents into the repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := modelfile.Load(args[0])
		if err != nil {
			if errors.Is(err, modelfile.ErrInvalidModel) {
				return userError("%w", err)
			}
			return sysError(err)
		}
		backend, err := attachBackend()
		if err != nil {
			return err
		}
		defer backend.Detach()

		if err := backend.SaveProject(p); err != nil {
			return sysError(fmt.Errorf("save project: %w", err))
		}
		hclog.L().Named("cli").Debug("imported model", "path", args[0])

		out := cmd.OutOrStdout()
		if flagJSON {
			return printJSON(out, map[string]int{"types": len(p.Types()), "product_cmpts": len(p.ProductCmpts())})
		}
		fmt.Fprintf(out, "imported %d types and %d product components\n", len(p.Types()), len(p.ProductCmpts()))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <model.yaml>",
	Short: "Write the repository as a model file with component documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(_ *sqlite.Backend, p *types.Project) error {
			if err := modelfile.Save(args[0], p); err != nil {
				return sysError(fmt.Errorf("export: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d types and %d product components to %s\n",
				len(p.Types()), len(p.ProductCmpts()), args[0])
			return nil
		})
	},
}
