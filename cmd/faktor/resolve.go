package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/faktor/internal/sqlite"
	"github.com/mesh-intelligence/faktor/internal/template"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <product-cmpt> [property]",
	Short: "Show effective values after template inheritance",
	Long: `Resolve prints, for every property value of the component, its
status, the container the effective value comes from and the value itself.
Values with no source along the template chain show the neutral value.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(_ *sqlite.Backend, p *types.Project) error {
			pc, err := findCmpt(p, args[0])
			if err != nil {
				return err
			}
			finder := template.NewFinder(p)
			if finder.HasTemplateCycle(pc) {
				return userError("template chain of %s is cyclic", pc.QualifiedName)
			}

			views := []valueView{}
			for _, c := range pc.Containers() {
				for _, pv := range c.Values().All() {
					if len(args) == 2 && pv.PropertyName != args[1] {
						continue
					}
					res := finder.Resolve(pv)
					v := valueView{
						Container: c.Name(),
						Property:  pv.PropertyName,
						ValueType: string(pv.ValueType),
						Status:    pv.Status.String(),
						Value:     payload(res.Value),
					}
					if !res.IsNeutral() {
						v.Source = res.Source.Container().Name()
					}
					views = append(views, v)
				}
			}

			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, views)
			}
			for _, v := range views {
				source := v.Source
				if source == "" {
					source = "-"
				}
				fmt.Fprintf(out, "%-30s %-35s %-9s %-30s %s\n",
					v.Container, v.Property+"/"+v.ValueType, v.Status, source, v.Value)
			}
			return nil
		})
	},
}

var (
	flagValueType  string
	flagGeneration string
	flagLink       string
)

var setStatusCmd = &cobra.Command{
	Use:   "set-status <product-cmpt> <property|association> <status>",
	Short: "Change the template value status of a value or link",
	Long: `Set-status switches a property value (or, with --link, a link) between
defined, inherited and undefined. Switching to defined copies the effective
value so the component keeps what it showed before.

Example:
  faktor set-status motor.Basic deductible inherited --value-type ConfiguredValueSet
  faktor set-status motor.Basic rate defined --generation 2024-01-01
  faktor set-status motor.Basic coverages undefined --link Collision`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, prop, statusArg := args[0], args[1], args[2]
		status := types.ParseTemplateValueStatus(statusArg)
		if s := strings.ToLower(statusArg); status.String() != s && s != "excluded" {
			return userError("invalid status %q (valid: defined, inherited, undefined)", statusArg)
		}

		return withProject(func(b *sqlite.Backend, p *types.Project) error {
			pc, err := findCmpt(p, name)
			if err != nil {
				return err
			}
			c, err := findContainer(pc, flagGeneration)
			if err != nil {
				return err
			}
			finder := template.NewFinder(p)

			if flagLink != "" {
				l := c.FindLink(prop, flagLink)
				if l == nil {
					return userError("%s has no link %s->%s", c.Name(), prop, flagLink)
				}
				err = finder.SetLinkStatus(l, status)
			} else {
				pv := c.PropertyValue(prop)
				if flagValueType != "" {
					pv = c.PropertyValueOfType(prop, types.PropertyValueType(flagValueType))
				}
				if pv == nil {
					return userError("%s has no value for %q", c.Name(), prop)
				}
				err = finder.SetStatus(pv, status)
			}
			if errors.Is(err, types.ErrNoTemplate) {
				return userError("%w", err)
			}
			if err != nil {
				return sysError(err)
			}

			table, err := b.GetTable(types.TableProductCmpts)
			if err != nil {
				return sysError(err)
			}
			if _, err := table.Set("", pc); err != nil {
				return sysError(fmt.Errorf("save %s: %w", pc.QualifiedName, err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", c.Name(), prop, status)
			return nil
		})
	},
}

func init() {
	setStatusCmd.Flags().StringVar(&flagValueType, "value-type", "", "value type when the property yields several (e.g. ConfiguredValueSet)")
	setStatusCmd.Flags().StringVar(&flagGeneration, "generation", "", "valid-from date of the generation (default: the static container)")
	setStatusCmd.Flags().StringVar(&flagLink, "link", "", "target of the link to change; the second argument names the association")
}
