package main

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/faktor/internal/delta"
	"github.com/mesh-intelligence/faktor/internal/sqlite"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

var deltaCmd = &cobra.Command{
	Use:   "delta [product-cmpt...]",
	Short: "Show differences between stored values and the model",
	Long: `Delta compares each component (every component when none is named)
with its type: missing values, values without a property, value type, value
set and multi-value mismatches, links without association or on the wrong
level, and surplus generations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(_ *sqlite.Backend, p *types.Project) error {
			deltas, err := computeDeltas(p, args)
			if err != nil {
				return err
			}
			return printDeltas(cmd.OutOrStdout(), deltas)
		})
	},
}

var fixCmd = &cobra.Command{
	Use:   "fix [product-cmpt...]",
	Short: "Apply the model delta to components and save them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(b *sqlite.Backend, p *types.Project) error {
			deltas, err := computeDeltas(p, args)
			if err != nil {
				return err
			}
			table, err := b.GetTable(types.TableProductCmpts)
			if err != nil {
				return sysError(err)
			}
			log := hclog.L().Named("cli")
			fixed := []string{}
			for _, d := range deltas {
				if d.IsEmpty() {
					continue
				}
				pc := d.Container.Owner()
				entries := d.Len()
				if err := d.Fix(); err != nil {
					return sysError(fmt.Errorf("fix %s: %w", pc.QualifiedName, err))
				}
				if _, err := table.Set("", pc); err != nil {
					return sysError(fmt.Errorf("save %s: %w", pc.QualifiedName, err))
				}
				log.Debug("fixed component", "name", pc.QualifiedName, "entries", entries)
				fixed = append(fixed, pc.QualifiedName)
			}

			out := cmd.OutOrStdout()
			if flagJSON {
				return printJSON(out, map[string][]string{"fixed": fixed})
			}
			for _, n := range fixed {
				fmt.Fprintln(out, "fixed", n)
			}
			if len(fixed) == 0 {
				fmt.Fprintln(out, "no differences")
			}
			return nil
		})
	},
}

// computeDeltas computes the delta of each selected component. Components
// whose type is unknown are reported as user errors.
func computeDeltas(p *types.Project, names []string) ([]*delta.Delta, error) {
	cmpts, err := selectCmpts(p, names)
	if err != nil {
		return nil, err
	}
	out := make([]*delta.Delta, 0, len(cmpts))
	for _, pc := range cmpts {
		d, err := delta.Compute(p, pc)
		if err != nil {
			return nil, userError("%s: %w", pc.QualifiedName, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// deltaView is the JSON form of the entries of one container.
type deltaView struct {
	Container string   `json:"container"`
	Entries   []string `json:"entries"`
}

func printDeltas(w io.Writer, deltas []*delta.Delta) error {
	views := []deltaView{}
	for _, d := range deltas {
		d.Walk(func(n *delta.Delta) {
			if len(n.Entries) == 0 {
				return
			}
			v := deltaView{Container: n.Container.Name()}
			for _, e := range n.Entries {
				v.Entries = append(v.Entries, e.String())
			}
			views = append(views, v)
		})
	}
	if flagJSON {
		return printJSON(w, views)
	}
	if len(views) == 0 {
		fmt.Fprintln(w, "no differences")
		return nil
	}
	for _, v := range views {
		fmt.Fprintln(w, v.Container)
		for _, e := range v.Entries {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	return nil
}
