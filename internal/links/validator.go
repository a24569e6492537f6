// Package links validates the links of a product component container
// against the associations of its type and finds the roots of a link
// graph.
package links

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/faktor/internal/template"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

// Validator checks link containers of one project.
type Validator struct {
	project *types.Project
	finder  *template.Finder
	log     hclog.Logger
}

// NewValidator returns a Validator for p.
func NewValidator(p *types.Project) *Validator {
	return &Validator{project: p, finder: template.NewFinder(p), log: hclog.L().Named("links")}
}

// Validate checks the links of c. Associations that live on the other
// temporal level and derived unions are skipped. Containers of templates
// may stay below minimum cardinalities; their users complete them.
func (v *Validator) Validate(c *types.Container) types.MessageList {
	var ml types.MessageList
	pc := c.Owner()
	if pc == nil {
		return ml
	}
	t := v.project.FindType(pc.TypeName)
	if t == nil {
		return ml
	}
	for _, a := range t.AllAssociations(v.project) {
		if a.DerivedUnion || !a.BelongsTo(c.Kind, t.ChangingOverTime) {
			continue
		}
		ml.Add(v.validateAssociation(c, a)...)
	}
	v.log.Trace("validated links", "container", c.Name(), "messages", ml.Len())
	return ml
}

type effectiveLink struct {
	local *types.Link
	card  *types.Link
}

// effectiveLinks returns the links of a in c that take part in the
// product, paired with the link whose cardinality applies. UNDEFINED links
// are left out; an INHERITED link that finds nothing keeps its own
// cardinality.
func (v *Validator) effectiveLinks(c *types.Container, a *types.Association) []effectiveLink {
	var out []effectiveLink
	for _, l := range c.LinksOf(a.Name) {
		if l.Status == types.StatusUndefined {
			continue
		}
		card := v.finder.EffectiveLink(l)
		if card == nil {
			card = l
		}
		out = append(out, effectiveLink{local: l, card: card})
	}
	return out
}

func (v *Validator) validateAssociation(c *types.Container, a *types.Association) types.MessageList {
	var ml types.MessageList
	links := v.effectiveLinks(c, a)
	isTemplate := c.IsTemplateContainer()
	assoc := types.ObjectProperty{Object: a, Property: "Name"}

	if n := len(links); n < a.Min && !isTemplate {
		ml.Add(types.NewError(types.MsgLessThanMinLinks,
			fmt.Sprintf("at least %d links of %s are required, found %d", a.Min, a.Name, n), assoc))
	} else if a.Max != types.Many && n > a.Max {
		ml.Add(types.NewError(types.MsgMoreThanMaxLinks,
			fmt.Sprintf("at most %d links of %s are allowed, found %d", a.Max, a.Name, n), assoc))
	}

	seen := make(map[string]bool)
	for _, el := range links {
		if seen[el.local.Target] {
			ml.Add(types.NewError(types.MsgDuplicateTarget,
				fmt.Sprintf("%s is linked more than once through %s", el.local.Target, a.Name),
				types.ObjectProperty{Object: el.local, Property: "Target"}))
		}
		seen[el.local.Target] = true
		ml.Add(v.validateTarget(el.local, a)...)
	}

	if a.Policy == nil {
		return ml
	}
	sumMin, sumMax := 0, 0
	for _, el := range links {
		ml.Add(validateCardinality(el.local, el.card, a.Policy)...)
		sumMin += el.card.Min
		if sumMax != types.Many {
			if el.card.Max == types.Many {
				sumMax = types.Many
			} else {
				sumMax += el.card.Max
			}
		}
	}
	if len(links) > 0 && exceeds(sumMax, a.Policy.Max) {
		ml.Add(types.NewError(types.MsgMaxCardinalityExceedsModelMax,
			fmt.Sprintf("the maximum cardinalities of %s add up to %s, the model allows %s",
				a.Name, types.FormatCardinality(sumMax), types.FormatCardinality(a.Policy.Max)), assoc))
	}
	if !isTemplate && sumMin < a.Policy.Min {
		ml.Add(types.NewError(types.MsgMinCardinalityFallsBelowModelMin,
			fmt.Sprintf("the minimum cardinalities of %s add up to %d, the model requires %d",
				a.Name, sumMin, a.Policy.Min), assoc))
	}
	return ml
}

// exceeds reports whether max n is above limit, both possibly Many.
func exceeds(n, limit int) bool {
	if limit == types.Many {
		return false
	}
	return n == types.Many || n > limit
}

// validateCardinality checks the effective cardinality card of link l.
// Messages reference the local link.
func validateCardinality(l, card *types.Link, policy *types.Cardinality) types.MessageList {
	var ml types.MessageList
	minField := types.ObjectProperty{Object: l, Property: "Min"}
	maxField := types.ObjectProperty{Object: l, Property: "Max"}
	defField := types.ObjectProperty{Object: l, Property: "Default"}

	if card.Max != types.Many && card.Max < 1 {
		ml.Add(types.NewError(types.MsgMaxCardinalityMustBeAtLeastOne,
			fmt.Sprintf("maximum cardinality of %s must be at least 1", l.Key()), maxField))
	}
	if card.Max != types.Many && card.Min > card.Max {
		ml.Add(types.NewError(types.MsgMinGreaterThanMax,
			fmt.Sprintf("minimum cardinality %d of %s is greater than maximum %d", card.Min, l.Key(), card.Max), minField, maxField))
	}
	if card.Default < card.Min || exceeds(card.Default, card.Max) {
		ml.Add(types.NewError(types.MsgDefaultNotInRange,
			fmt.Sprintf("default cardinality %d of %s is outside %d..%s", card.Default, l.Key(), card.Min, types.FormatCardinality(card.Max)), defField))
	}
	if exceeds(card.Max, policy.Max) {
		ml.Add(types.NewError(types.MsgMaxCardinalityExceedsModelMax,
			fmt.Sprintf("maximum cardinality %s of %s exceeds the model maximum %s",
				types.FormatCardinality(card.Max), l.Key(), types.FormatCardinality(policy.Max)), maxField))
	}
	return ml
}

func (v *Validator) validateTarget(l *types.Link, a *types.Association) types.MessageList {
	var ml types.MessageList
	target := v.project.FindProductCmpt(l.Target)
	if target == nil {
		ml.Add(types.NewWarning(types.MsgUnknownTarget,
			fmt.Sprintf("link target %s does not exist", l.Target),
			types.ObjectProperty{Object: l, Property: "Target"}))
		return ml
	}
	tt := v.project.FindType(target.TypeName)
	if tt == nil || !tt.IsSubtypeOf(v.project, a.Target) {
		ml.Add(types.NewError(types.MsgInvalidTarget,
			fmt.Sprintf("%s is not a %s", l.Target, a.Target),
			types.ObjectProperty{Object: l, Property: "Target"}))
	}
	return ml
}
