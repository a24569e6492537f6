package modelfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/faktor/internal/ipsxml"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

// componentDir is where Save puts component documents, relative to the
// model file.
const componentDir = "components"

// Save writes p as a model file at path and one XML document per
// component under a components directory next to it.
func Save(path string, p *types.Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(filepath.Join(dir, componentDir), 0o755); err != nil {
		return fmt.Errorf("create component dir: %w", err)
	}
	f := FromProject(p)
	for _, pc := range p.ProductCmpts() {
		rel := filepath.Join(componentDir, pc.QualifiedName+".xml")
		data, err := ipsxml.Marshal(pc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, rel), data, 0o644); err != nil {
			return fmt.Errorf("write component: %w", err)
		}
		f.Components = append(f.Components, filepath.ToSlash(rel))
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode model file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}

// FromProject returns the model file form of p's types. Components are
// left empty.
func FromProject(p *types.Project) *File {
	f := &File{}
	for _, t := range p.Types() {
		f.Types = append(f.Types, typeSpecOf(t))
	}
	return f
}

func typeSpecOf(t *types.ProductCmptType) TypeSpec {
	s := TypeSpec{Name: t.QualifiedName, Supertype: t.Supertype, ChangingOverTime: t.ChangingOverTime}
	for _, prop := range t.Properties {
		s.Properties = append(s.Properties, PropertySpec{
			Name:               prop.Name,
			Type:               prop.Type,
			ChangingOverTime:   prop.ChangingOverTime,
			Datatype:           prop.Datatype,
			MultiValue:         prop.MultiValue,
			ValueSet:           types.SpecOf(prop.ValueSet),
			Default:            prop.DefaultValue,
			ActivatedByDefault: prop.ActivatedByDefault,
		})
	}
	for _, a := range t.Associations {
		as := AssociationSpec{
			Name:                  a.Name,
			Target:                a.Target,
			Min:                   a.Min,
			Max:                   types.FormatCardinality(a.Max),
			ChangingOverTime:      a.ChangingOverTime,
			DerivedUnion:          a.DerivedUnion,
			SubsettedDerivedUnion: a.SubsettedDerivedUnion,
		}
		if a.Policy != nil {
			as.Policy = &CardinalitySpec{Min: a.Policy.Min, Max: types.FormatCardinality(a.Policy.Max), Default: a.Policy.Default}
		}
		s.Associations = append(s.Associations, as)
	}
	return s
}
