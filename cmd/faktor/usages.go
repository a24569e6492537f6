package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/faktor/internal/sqlite"
	"github.com/mesh-intelligence/faktor/internal/template"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

var usagesCmd = &cobra.Command{
	Use:   "usages <template> [property]",
	Short: "List the components that use a template",
	Long: `Usages lists every component that uses the template, directly or
through other templates. With a property it splits the users into those
inheriting the template's value and those defining their own.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(b *sqlite.Backend, p *types.Project) error {
			tmpl, err := findCmpt(p, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				names, err := b.TemplateUsages(tmpl.QualifiedName)
				if err != nil {
					return sysError(err)
				}
				if flagJSON {
					return printJSON(out, names)
				}
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			}

			c, err := findContainer(tmpl, flagGeneration)
			if err != nil {
				return err
			}
			pv := c.PropertyValue(args[1])
			if flagValueType != "" {
				pv = c.PropertyValueOfType(args[1], types.PropertyValueType(flagValueType))
			}
			if pv == nil {
				return userError("%s has no value for %q", c.Name(), args[1])
			}
			usage := template.NewFinder(p).PropertyUsages(pv)
			view := struct {
				Inheriting []string `json:"inheriting"`
				Defining   []string `json:"defining"`
			}{Inheriting: containerNames(usage.Inheriting), Defining: containerNames(usage.Defining)}
			if flagJSON {
				return printJSON(out, view)
			}
			for _, n := range view.Inheriting {
				fmt.Fprintln(out, "inherits", n)
			}
			for _, n := range view.Defining {
				fmt.Fprintln(out, "defines ", n)
			}
			return nil
		})
	},
}

func containerNames(values []*types.PropertyValue) []string {
	out := []string{}
	for _, pv := range values {
		out = append(out, pv.Container().Name())
	}
	return out
}

func init() {
	usagesCmd.Flags().StringVar(&flagValueType, "value-type", "", "value type when the property yields several")
	usagesCmd.Flags().StringVar(&flagGeneration, "generation", "", "valid-from date of the template generation")
}
