package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/faktor/internal/links"
	"github.com/mesh-intelligence/faktor/internal/sqlite"
	"github.com/mesh-intelligence/faktor/internal/validate"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [product-cmpt...]",
	Short: "Validate components against their type and templates",
	Long: `Validate checks template references, template value statuses, effective
values against the model value sets, link cardinalities and targets, and
warns when a component differs from its model. The command fails when any
component has an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(_ *sqlite.Backend, p *types.Project) error {
			cmpts, err := selectCmpts(p, args)
			if err != nil {
				return err
			}
			v := validate.New(p)
			views := []messageView{}
			failed := false
			for _, pc := range cmpts {
				ml := v.Validate(pc)
				failed = failed || ml.ContainsErrors()
				for _, m := range ml {
					views = append(views, messageView{
						Cmpt:     pc.QualifiedName,
						Severity: m.Severity.String(),
						Code:     m.Code,
						Text:     m.Text,
					})
				}
			}

			out := cmd.OutOrStdout()
			if flagJSON {
				if err := printJSON(out, views); err != nil {
					return err
				}
			} else {
				for _, m := range views {
					fmt.Fprintf(out, "%s: %s %s: %s\n", m.Cmpt, m.Severity, m.Code, m.Text)
				}
			}
			if failed {
				return userError("validation failed")
			}
			if !flagJSON && len(views) == 0 {
				fmt.Fprintln(out, "ok")
			}
			return nil
		})
	},
}

type messageView struct {
	Cmpt     string `json:"product_cmpt"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Text     string `json:"text"`
}

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List the components not reached by any link",
	Long: `Roots lists the components no other component links to. A group of
components that only link to each other contributes one of its members.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(_ *sqlite.Backend, p *types.Project) error {
			names := []string{}
			for _, pc := range links.FindRoots(p.ProductCmpts()) {
				names = append(names, pc.QualifiedName)
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, names)
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		})
	},
}
