package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/faktor/internal/ipsxml"
	"github.com/mesh-intelligence/faktor/internal/sqlite"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <product-cmpt>",
	Short: "Print the stored document of a product component",
	Long: `Show prints the component as its XML document. With --json it prints
the stored values and links plus the links of other components that
target it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProject(func(b *sqlite.Backend, p *types.Project) error {
			pc, err := findCmpt(p, args[0])
			if err != nil {
				return err
			}
			if flagJSON {
				incoming, err := b.LinksTo(pc.QualifiedName)
				if err != nil {
					return sysError(err)
				}
				v := storedViewOf(pc)
				for _, r := range incoming {
					v.Incoming = append(v.Incoming, incomingView{Cmpt: r.Cmpt, Container: r.Container, Association: r.Association})
				}
				return printJSON(cmd.OutOrStdout(), v)
			}
			if err := ipsxml.Encode(cmd.OutOrStdout(), pc); err != nil {
				return sysError(err)
			}
			return nil
		})
	},
}

// valueView is the JSON form of one stored or resolved property value.
type valueView struct {
	Container string `json:"container"`
	Property  string `json:"property"`
	ValueType string `json:"value_type"`
	Status    string `json:"status"`
	Value     string `json:"value,omitempty"`
	Source    string `json:"source,omitempty"`
}

// linkView is the JSON form of one stored link.
type linkView struct {
	Container   string `json:"container"`
	Association string `json:"association"`
	Target      string `json:"target"`
	Status      string `json:"status"`
	Cardinality string `json:"cardinality"`
}

// incomingView is a link of another component targeting the shown one.
type incomingView struct {
	Cmpt        string `json:"cmpt"`
	Container   string `json:"container"`
	Association string `json:"association"`
}

type storedView struct {
	cmptView
	Values   []valueView    `json:"values"`
	Links    []linkView     `json:"links"`
	Incoming []incomingView `json:"incoming"`
}

func storedViewOf(pc *types.ProductCmpt) storedView {
	v := storedView{cmptView: cmptViewOf(pc), Values: []valueView{}, Links: []linkView{}, Incoming: []incomingView{}}
	for _, c := range pc.Containers() {
		for _, pv := range c.Values().All() {
			v.Values = append(v.Values, valueView{
				Container: c.Name(),
				Property:  pv.PropertyName,
				ValueType: string(pv.ValueType),
				Status:    pv.Status.String(),
				Value:     payload(pv),
			})
		}
		for _, l := range c.Links() {
			v.Links = append(v.Links, linkView{
				Container:   c.Name(),
				Association: l.Association,
				Target:      l.Target,
				Status:      l.Status.String(),
				Cardinality: types.FormatCardinality(l.Min) + ".." + types.FormatCardinality(l.Max),
			})
		}
	}
	return v
}
