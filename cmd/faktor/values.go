package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

var valuesCmd = &cobra.Command{
	Use:   "values <status>",
	Short: "List the stored property values with a template value status",
	Long: `Values lists every stored property value whose status is defined,
inherited or undefined, across all components and generations.

Example:
  faktor values inherited
  faktor values undefined --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := types.ParseTemplateValueStatus(args[0])
		if s := strings.ToLower(args[0]); status.String() != s && s != "excluded" {
			return userError("unknown status %q (valid: defined, inherited, undefined)", args[0])
		}
		backend, err := attachBackend()
		if err != nil {
			return err
		}
		defer backend.Detach()

		refs, err := backend.ValuesWithStatus(status)
		if err != nil {
			return sysError(err)
		}
		out := cmd.OutOrStdout()
		if flagJSON {
			views := make([]valueView, 0, len(refs))
			for _, r := range refs {
				views = append(views, valueView{
					Container: r.Container,
					Property:  r.PropertyName,
					ValueType: string(r.ValueType),
					Status:    r.Status.String(),
				})
			}
			return printJSON(out, views)
		}
		for _, r := range refs {
			fmt.Fprintf(out, "%s\t%s\t%s\n", r.Container, r.PropertyName, r.ValueType)
		}
		return nil
	},
}
