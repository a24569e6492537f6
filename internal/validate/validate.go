// Package validate checks product components against their types, their
// templates and the link rules, and reports findings as message lists.
// Validation never fails on a structurally invalid model; every problem
// becomes a message.
package validate

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/faktor/internal/delta"
	"github.com/mesh-intelligence/faktor/internal/links"
	"github.com/mesh-intelligence/faktor/internal/template"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

// Validator validates the components of one project.
type Validator struct {
	project *types.Project
	finder  *template.Finder
	links   *links.Validator
	log     hclog.Logger
}

// New returns a Validator for p.
func New(p *types.Project) *Validator {
	return &Validator{
		project: p,
		finder:  template.NewFinder(p),
		links:   links.NewValidator(p),
		log:     hclog.L().Named("validate"),
	}
}

// Result pairs a component with its messages.
type Result struct {
	Cmpt     *types.ProductCmpt
	Messages types.MessageList
}

// All validates every component of the project in registration order.
func (v *Validator) All() []Result {
	var out []Result
	for _, pc := range v.project.ProductCmpts() {
		out = append(out, Result{Cmpt: pc, Messages: v.Validate(pc)})
	}
	return out
}

// Validate returns the messages for pc.
func (v *Validator) Validate(pc *types.ProductCmpt) types.MessageList {
	var ml types.MessageList
	t := v.project.FindType(pc.TypeName)
	if t == nil {
		ml.Add(types.NewError(types.MsgUnknownType,
			fmt.Sprintf("product component type %s does not exist", pc.TypeName),
			types.ObjectProperty{Object: pc, Property: "TypeName"}))
		return ml
	}
	ml.Add(v.validateTemplate(pc, t)...)
	for _, c := range pc.Containers() {
		for _, pv := range c.Values().All() {
			ml.Add(v.validateValue(pc, t, pv)...)
		}
		ml.Add(v.links.Validate(c)...)
	}
	if d, err := delta.Compute(v.project, pc); err == nil && !d.IsEmpty() {
		ml.Add(types.NewWarning(types.MsgDifferencesToModel,
			fmt.Sprintf("%s differs from its type in %d places", pc.QualifiedName, d.Len()),
			types.ObjectProperty{Object: pc}))
	}
	v.log.Debug("validated product component", "cmpt", pc.QualifiedName, "messages", ml.Len(), "errors", ml.ContainsErrors())
	return ml
}

func (v *Validator) validateTemplate(pc *types.ProductCmpt, t *types.ProductCmptType) types.MessageList {
	var ml types.MessageList
	if pc.Template == "" {
		return ml
	}
	field := types.ObjectProperty{Object: pc, Property: "Template"}
	tmpl := v.project.FindProductCmpt(pc.Template)
	switch {
	case tmpl == nil:
		ml.Add(types.NewError(types.MsgUnknownTemplate,
			fmt.Sprintf("template %s does not exist", pc.Template), field))
	case !tmpl.IsTemplate:
		ml.Add(types.NewError(types.MsgTemplateNotATemplate,
			fmt.Sprintf("%s is not a template", pc.Template), field))
	case !t.IsSubtypeOf(v.project, tmpl.TypeName):
		ml.Add(types.NewError(types.MsgTemplateTypeMismatch,
			fmt.Sprintf("template %s is a %s, %s is not", pc.Template, tmpl.TypeName, t.QualifiedName), field))
	}
	if tmpl != nil && v.finder.HasTemplateCycle(pc) {
		ml.Add(types.NewError(types.MsgTemplateCycle,
			fmt.Sprintf("template chain of %s returns to itself", pc.QualifiedName), field))
	}
	return ml
}

func (v *Validator) validateValue(pc *types.ProductCmpt, t *types.ProductCmptType, pv *types.PropertyValue) types.MessageList {
	var ml types.MessageList
	status := types.ObjectProperty{Object: pv, Property: "Status"}
	prop := t.FindProperty(v.project, pv.PropertyName)
	if prop == nil || !prop.Yields(pv.ValueType) {
		// Reported through the delta.
		return ml
	}
	switch pv.Status {
	case types.StatusInherited:
		if v.finder.TemplateContainer(pv.Container()) == nil {
			ml.Add(types.NewError(types.MsgInheritedWithoutTemplate,
				fmt.Sprintf("%s inherits but %s has no template", pv.Key(), pv.Container().Name()), status))
			return ml
		}
	case types.StatusUndefined:
		if !pc.IsTemplate {
			ml.Add(types.NewError(types.MsgUndefinedOutsideTemplate,
				fmt.Sprintf("%s is undefined but %s is not a template", pv.Key(), pc.QualifiedName), status))
		}
		return ml
	}

	res := v.finder.Resolve(pv)
	if res.IsNeutral() {
		return ml
	}
	eff := res.Value
	switch pv.ValueType {
	case types.ValueTypeAttributeValue:
		ml.Add(validateHolder(pv, eff.Holder, prop, prop.ModelValueSet())...)
	case types.ValueTypeConfiguredValueSet:
		ml.Add(validateValueSet(pv, eff.ValueSet, prop)...)
	case types.ValueTypeConfiguredDefault:
		ml.Add(validateHolder(pv, eff.Holder, prop, v.configuredValueSet(pv, prop))...)
	}
	return ml
}

func validateHolder(pv *types.PropertyValue, h types.ValueHolder, prop *types.Property, vs types.ValueSet) types.MessageList {
	var ml types.MessageList
	if h == nil {
		return ml
	}
	multi := pv.ValueType == types.ValueTypeAttributeValue && prop.MultiValue
	if h.IsMultiValue() != multi {
		want := "single value"
		if multi {
			want = "list of values"
		}
		ml.Add(types.NewError(types.MsgMultiValueMismatch,
			fmt.Sprintf("%s must hold a %s", pv.Key(), want),
			types.ObjectProperty{Object: pv, Property: "Holder"}))
		return ml
	}
	if pv.ValueType == types.ValueTypeConfiguredDefault && h.IsNull() {
		return ml
	}
	ml.Add(h.Validate(prop.Datatype, vs, pv)...)
	return ml
}

// configuredValueSet returns the effective configured value set next to a
// configured default, falling back to the model value set.
func (v *Validator) configuredValueSet(pv *types.PropertyValue, prop *types.Property) types.ValueSet {
	c := pv.Container()
	if c != nil {
		if cvs := c.PropertyValueOfType(pv.PropertyName, types.ValueTypeConfiguredValueSet); cvs != nil {
			if vs := v.finder.EffectiveValueSet(cvs); vs != nil {
				return vs
			}
		}
	}
	return prop.ModelValueSet()
}

// validateValueSet checks a configured value set against the model value
// set. Inherited value sets are checked as well: a template may hold a set
// the model no longer allows.
func validateValueSet(pv *types.PropertyValue, vs types.ValueSet, prop *types.Property) types.MessageList {
	var ml types.MessageList
	if vs == nil {
		return ml
	}
	field := types.ObjectProperty{Object: pv, Property: "ValueSet"}
	model := prop.ModelValueSet()
	if !model.Type().Allows(vs.Type()) {
		ml.Add(types.NewError(types.MsgValueSetTypeMismatch,
			fmt.Sprintf("%s is a %s value set, the model requires %s", pv.Key(), vs.Type(), model.Type()), field))
		return ml
	}
	if enum, ok := vs.(*types.EnumValueSet); ok {
		for _, s := range enum.Values {
			val := types.StringValue(s)
			if err := prop.Datatype.Parse(s); err != nil {
				ml.Add(types.NewError(types.MsgValueNotParsable, err.Error(), field))
				continue
			}
			if !model.Contains(val, prop.Datatype) {
				ml.Add(types.NewError(types.MsgValueNotInValueSet,
					fmt.Sprintf("value %q of %s is not in the model value set %s", s, pv.Key(), model), field))
			}
		}
	}
	if vs.ContainsNull() && !model.ContainsNull() {
		ml.Add(types.NewError(types.MsgValueNotInValueSet,
			fmt.Sprintf("%s allows null, the model value set does not", pv.Key()), field))
	}
	return ml
}
