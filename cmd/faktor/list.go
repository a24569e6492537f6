package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list <table> [filter...]",
	Short: "List types or product components with optional filter",
	Long: `List queries entities from the specified table with optional filters.

Filters are key=value pairs, ANDed together. Values that parse as JSON keep
their JSON type.

Tables and filter keys:
  types          supertype, changing_over_time
  product_cmpts  type_name, template, is_template, limit

Example:
  faktor list product_cmpts template=motor.StandardTemplate
  faktor list product_cmpts is_template=true
  faktor list types supertype=motor.Product`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := parseFilter(args[1:])
		if err != nil {
			return err
		}
		backend, err := attachBackend()
		if err != nil {
			return err
		}
		defer backend.Detach()

		table, err := backend.GetTable(args[0])
		if err != nil {
			if errors.Is(err, types.ErrTableNotFound) {
				return userError("unknown table %q (valid: %s)", args[0], validTableNamesStr)
			}
			return sysError(err)
		}
		entities, err := table.Fetch(filter)
		if err != nil {
			if errors.Is(err, types.ErrInvalidFilter) {
				return userError("%w", err)
			}
			return sysError(fmt.Errorf("fetch: %w", err))
		}

		out := cmd.OutOrStdout()
		if flagJSON {
			views := make([]any, 0, len(entities))
			for _, e := range entities {
				if pc, ok := e.(*types.ProductCmpt); ok {
					views = append(views, cmptViewOf(pc))
					continue
				}
				views = append(views, e)
			}
			return printJSON(out, views)
		}
		for _, e := range entities {
			switch v := e.(type) {
			case *types.ProductCmptType:
				fmt.Fprintf(out, "%s\t%d properties\n", v.QualifiedName, len(v.Properties))
			case *types.ProductCmpt:
				fmt.Fprintf(out, "%s\t%s\n", v.QualifiedName, v.TypeName)
			}
		}
		return nil
	},
}

// cmptView is the JSON summary of a product component.
type cmptView struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Template    string   `json:"template,omitempty"`
	IsTemplate  bool     `json:"is_template,omitempty"`
	Generations []string `json:"generations,omitempty"`
}

func cmptViewOf(pc *types.ProductCmpt) cmptView {
	v := cmptView{Name: pc.QualifiedName, Type: pc.TypeName, Template: pc.Template, IsTemplate: pc.IsTemplate}
	for _, g := range pc.Generations() {
		v.Generations = append(v.Generations, g.ValidFrom.Format(types.DateLayout))
	}
	return v
}
