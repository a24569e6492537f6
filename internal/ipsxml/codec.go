package ipsxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"github.com/mesh-intelligence/faktor/pkg/types"
)

// Encode writes pc as an indented XML document.
func Encode(w io.Writer, pc *types.ProductCmpt) error {
	doc := xmlProductCmpt{
		Name:       pc.QualifiedName,
		Type:       pc.TypeName,
		RuntimeID:  pc.RuntimeID,
		Template:   pc.Template,
		IsTemplate: pc.IsTemplate,
		Items:      containerItems(pc.Static()),
	}
	for _, g := range pc.Generations() {
		doc.Generations = append(doc.Generations, xmlGeneration{
			ValidFrom: g.ValidFrom.Format(types.DateLayout),
			Items:     containerItems(g),
		})
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", pc.QualifiedName, err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Marshal returns the XML document of pc.
func Marshal(pc *types.ProductCmpt) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, pc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a product component document. Unknown elements are
// skipped. Malformed attributes are collected and returned together.
func Decode(r io.Reader) (*types.ProductCmpt, error) {
	var doc xmlProductCmpt
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: %s without name", ErrInvalidDocument, rootElement)
	}
	pc := types.NewProductCmpt(doc.Name, doc.Type)
	if doc.RuntimeID != "" {
		pc.RuntimeID = doc.RuntimeID
	}
	pc.Template = doc.Template
	pc.IsTemplate = doc.IsTemplate

	var result *multierror.Error
	if err := fillContainer(pc.Static(), doc.Items); err != nil {
		result = multierror.Append(result, err)
	}
	for _, xg := range doc.Generations {
		validFrom, err := time.Parse(types.DateLayout, xg.ValidFrom)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: generation validFrom %q", ErrInvalidDocument, xg.ValidFrom))
			continue
		}
		if err := fillContainer(pc.NewGeneration(validFrom), xg.Items); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}
	return pc, nil
}

// Unmarshal reads a product component document from data.
func Unmarshal(data []byte) (*types.ProductCmpt, error) {
	return Decode(bytes.NewReader(data))
}

// MarshalPropertyValue returns the XML element of a single value.
func MarshalPropertyValue(pv *types.PropertyValue) ([]byte, error) {
	return xml.MarshalIndent(valueItem(pv), "", "  ")
}

// UnmarshalPropertyValue reads a single value element into a detached
// property value.
func UnmarshalPropertyValue(data []byte) (*types.PropertyValue, error) {
	var it xmlItem
	if err := xml.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	vt := types.PropertyValueType(it.XMLName.Local)
	if !vt.IsValid() {
		return nil, fmt.Errorf("%w: <%s> is not a property value", ErrInvalidDocument, it.XMLName.Local)
	}
	return readValue(&it, vt)
}

func containerItems(c *types.Container) []xmlItem {
	var items []xmlItem
	for _, pv := range c.Values().All() {
		items = append(items, valueItem(pv))
	}
	for _, l := range c.Links() {
		items = append(items, linkItem(l))
	}
	return items
}

func valueItem(pv *types.PropertyValue) xmlItem {
	it := xmlItem{
		XMLName: xml.Name{Local: string(pv.ValueType)},
		ID:      pv.ID,
		Status:  pv.Status.String(),
	}
	switch pv.ValueType {
	case types.ValueTypeFormula:
		it.FormulaSignature = pv.PropertyName
	case types.ValueTypeTableContentUsage:
		it.StructureUsage = pv.PropertyName
	case types.ValueTypeValidationRuleConfig:
		it.RuleName = pv.PropertyName
	default:
		it.Attribute = pv.PropertyName
	}
	if pv.Status != types.StatusDefined {
		return it
	}
	switch pv.ValueType {
	case types.ValueTypeAttributeValue, types.ValueTypeConfiguredDefault:
		writeHolder(&it, pv.Holder)
	case types.ValueTypeConfiguredValueSet:
		it.ValueSet = writeValueSet(pv.ValueSet)
	case types.ValueTypeFormula:
		expr := pv.Expression
		it.Expression = &expr
	case types.ValueTypeTableContentUsage:
		name := pv.TableContentName
		it.TableContentName = &name
	case types.ValueTypeValidationRuleConfig:
		it.Active = formatBool(pv.Active)
	}
	return it
}

func writeHolder(it *xmlItem, h types.ValueHolder) {
	if h == nil {
		return
	}
	if h.IsMultiValue() {
		mv := &xmlMultiValue{}
		for _, v := range h.Values() {
			mv.Values = append(mv.Values, writeValue(v))
		}
		it.MultiValue = mv
		return
	}
	v := writeValue(h.Values()[0])
	it.Value = &v
}

func writeValue(v types.Value) xmlValue {
	if v.IsNull() {
		return xmlValue{IsNull: true}
	}
	return xmlValue{Content: v.Content}
}

func writeValueSet(vs types.ValueSet) *xmlValueSet {
	spec := types.SpecOf(vs)
	if spec == nil {
		return nil
	}
	out := &xmlValueSet{ContainsNull: spec.ContainsNull}
	switch spec.Type {
	case types.ValueSetEnum:
		out.Enum = &xmlEnum{Values: spec.Values}
	case types.ValueSetRange:
		out.Range = &xmlRange{Lower: spec.Lower, Upper: spec.Upper, Step: spec.Step}
	default:
		out.AllValues = &struct{}{}
	}
	return out
}

func linkItem(l *types.Link) xmlItem {
	return xmlItem{
		XMLName:     xml.Name{Local: linkElement},
		ID:          l.ID,
		Association: l.Association,
		Target:      l.Target,
		Min:         types.FormatCardinality(l.Min),
		Max:         types.FormatCardinality(l.Max),
		Default:     types.FormatCardinality(l.Default),
		Status:      l.Status.String(),
	}
}

func fillContainer(c *types.Container, items []xmlItem) error {
	var result *multierror.Error
	for i := range items {
		it := &items[i]
		name := it.XMLName.Local
		if name == linkElement {
			l, err := readLink(it)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			c.AddLink(l)
			continue
		}
		vt := types.PropertyValueType(name)
		if !vt.IsValid() {
			hclog.L().Named("ipsxml").Debug("skipping unknown element", "element", name, "container", c.Name())
			continue
		}
		pv, err := readValue(it, vt)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		c.AddPropertyValue(pv)
	}
	return result.ErrorOrNil()
}

func readValue(it *xmlItem, vt types.PropertyValueType) (*types.PropertyValue, error) {
	name := it.nameOf()
	if name == "" {
		return nil, fmt.Errorf("%w: <%s> without property name", ErrInvalidDocument, vt)
	}
	pv := &types.PropertyValue{
		ID:           it.ID,
		PropertyName: name,
		ValueType:    vt,
		Status:       types.ParseTemplateValueStatus(it.Status),
	}
	if pv.ID == "" {
		pv.ID = types.NewID()
	}
	if pv.Status != types.StatusDefined {
		return pv, nil
	}
	switch vt {
	case types.ValueTypeAttributeValue, types.ValueTypeConfiguredDefault:
		pv.Holder = readHolder(it)
	case types.ValueTypeConfiguredValueSet:
		pv.ValueSet = readValueSet(it.ValueSet)
	case types.ValueTypeFormula:
		if it.Expression != nil {
			pv.Expression = *it.Expression
		}
	case types.ValueTypeTableContentUsage:
		if it.TableContentName != nil {
			pv.TableContentName = *it.TableContentName
		}
	case types.ValueTypeValidationRuleConfig:
		active, err := parseBool(it.Active)
		if err != nil {
			return nil, err
		}
		pv.Active = active
	}
	return pv, nil
}

func readHolder(it *xmlItem) types.ValueHolder {
	if it.MultiValue != nil {
		values := make([]types.Value, 0, len(it.MultiValue.Values))
		for _, v := range it.MultiValue.Values {
			values = append(values, readXMLValue(v))
		}
		return types.NewMultiValueHolder(values...)
	}
	if it.Value == nil {
		return types.NewSingleValueHolder(types.NullValue())
	}
	return types.NewSingleValueHolder(readXMLValue(*it.Value))
}

func readXMLValue(v xmlValue) types.Value {
	if v.IsNull {
		return types.NullValue()
	}
	return types.StringValue(v.Content)
}

func readValueSet(x *xmlValueSet) types.ValueSet {
	if x == nil {
		return types.NewUnrestrictedValueSet()
	}
	spec := &types.ValueSetSpec{Type: types.ValueSetUnrestricted, ContainsNull: x.ContainsNull}
	switch {
	case x.Enum != nil:
		spec.Type = types.ValueSetEnum
		spec.Values = x.Enum.Values
	case x.Range != nil:
		spec.Type = types.ValueSetRange
		spec.Lower, spec.Upper, spec.Step = x.Range.Lower, x.Range.Upper, x.Range.Step
	}
	return spec.ValueSet()
}

func readLink(it *xmlItem) (*types.Link, error) {
	if it.Association == "" || it.Target == "" {
		return nil, fmt.Errorf("%w: link without association or target", ErrInvalidDocument)
	}
	l := types.NewLink(it.Association, it.Target)
	if it.ID != "" {
		l.ID = it.ID
	}
	l.Status = types.ParseTemplateValueStatus(it.Status)
	var err error
	for _, f := range []struct {
		raw string
		dst *int
	}{{it.Min, &l.Min}, {it.Max, &l.Max}, {it.Default, &l.Default}} {
		if f.raw == "" {
			continue
		}
		if *f.dst, err = types.ParseCardinality(f.raw); err != nil {
			return nil, fmt.Errorf("%w: link %s cardinality %q", ErrInvalidDocument, l.Key(), f.raw)
		}
	}
	return l, nil
}
