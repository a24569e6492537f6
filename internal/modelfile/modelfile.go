// Package modelfile loads and saves a project: product component types in
// a YAML model file, product components as XML documents next to it.
//
//	types:
//	  - name: motor.Product
//	    changing_over_time: true
//	    properties:
//	      - name: rate
//	        type: productAttribute
//	        datatype: Decimal
//	        changing_over_time: true
//	    associations:
//	      - name: coverages
//	        target: motor.Coverage
//	        max: "*"
//	        policy: {min: 1, max: "1"}
//	components:
//	  - components/motor.Basic.xml
//
// Component paths are relative to the model file.
package modelfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/faktor/internal/ipsxml"
	"github.com/mesh-intelligence/faktor/pkg/types"
)

// ErrInvalidModel reports a model file that fails validation.
var ErrInvalidModel = errors.New("invalid model file")

// File is the YAML form of a model.
type File struct {
	Types      []TypeSpec `yaml:"types" validate:"dive"`
	Components []string   `yaml:"components,omitempty" validate:"dive,required"`
}

// TypeSpec is the YAML form of a product component type.
type TypeSpec struct {
	Name             string            `yaml:"name" validate:"required"`
	Supertype        string            `yaml:"supertype,omitempty"`
	ChangingOverTime bool              `yaml:"changing_over_time,omitempty"`
	Properties       []PropertySpec    `yaml:"properties,omitempty" validate:"dive"`
	Associations     []AssociationSpec `yaml:"associations,omitempty" validate:"dive"`
}

// PropertySpec is the YAML form of a property.
type PropertySpec struct {
	Name               string              `yaml:"name" validate:"required"`
	Type               types.PropertyType  `yaml:"type" validate:"required,oneof=productAttribute policyAttribute tableStructureUsage formula validationRule"`
	ChangingOverTime   bool                `yaml:"changing_over_time,omitempty"`
	Datatype           types.Datatype      `yaml:"datatype,omitempty" validate:"omitempty,oneof=String Integer Decimal Money Boolean Date"`
	MultiValue         bool                `yaml:"multi_value,omitempty"`
	ValueSet           *types.ValueSetSpec `yaml:"value_set,omitempty"`
	Default            *string             `yaml:"default,omitempty"`
	ActivatedByDefault bool                `yaml:"activated_by_default,omitempty"`
}

// AssociationSpec is the YAML form of an association. Max is a number or
// "*".
type AssociationSpec struct {
	Name                  string           `yaml:"name" validate:"required"`
	Target                string           `yaml:"target" validate:"required"`
	Min                   int              `yaml:"min,omitempty" validate:"gte=0"`
	Max                   string           `yaml:"max,omitempty" validate:"omitempty,cardinality"`
	ChangingOverTime      bool             `yaml:"changing_over_time,omitempty"`
	DerivedUnion          bool             `yaml:"derived_union,omitempty"`
	SubsettedDerivedUnion string           `yaml:"subsetted_derived_union,omitempty"`
	Policy                *CardinalitySpec `yaml:"policy,omitempty"`
}

// CardinalitySpec is the YAML form of a policy cardinality.
type CardinalitySpec struct {
	Min     int    `yaml:"min,omitempty" validate:"gte=0"`
	Max     string `yaml:"max,omitempty" validate:"omitempty,cardinality"`
	Default int    `yaml:"default,omitempty" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("cardinality", func(fl validator.FieldLevel) bool {
		_, err := types.ParseCardinality(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(fmt.Sprintf("modelfile: register cardinality validation: %v", err))
	}
	return v
}

// Load reads the model file at path and the component documents it lists.
func Load(path string) (*types.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse builds a project from model file data. Component paths resolve
// against baseDir.
func Parse(data []byte, baseDir string) (*types.Project, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	p := types.NewProject()
	for i := range f.Types {
		t, err := f.Types[i].ProductCmptType()
		if err != nil {
			return nil, err
		}
		p.AddType(t)
	}
	var result *multierror.Error
	for _, rel := range f.Components {
		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, rel)
		}
		pc, err := loadComponent(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		p.AddProductCmpt(pc)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	hclog.L().Named("modelfile").Debug("loaded model", "types", len(f.Types), "components", len(f.Components))
	return p, nil
}

func loadComponent(path string) (*types.ProductCmpt, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open component: %w", err)
	}
	defer fh.Close()
	pc, err := ipsxml.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pc, nil
}

// Validate checks the struct rules and that type names are unique. Every
// violation is reported.
func (f *File) Validate() error {
	var result *multierror.Error
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidModel, err)
		}
		for _, fe := range verrs {
			result = multierror.Append(result, fmt.Errorf("%w: %s: rule %q failed for %v", ErrInvalidModel, fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}
	seen := make(map[string]bool)
	for _, t := range f.Types {
		if seen[t.Name] {
			result = multierror.Append(result, fmt.Errorf("%w: duplicate type %s", ErrInvalidModel, t.Name))
		}
		seen[t.Name] = true
	}
	return result.ErrorOrNil()
}

// ProductCmptType converts the spec. Max cardinalities default to 1.
func (s *TypeSpec) ProductCmptType() (*types.ProductCmptType, error) {
	t := &types.ProductCmptType{
		QualifiedName:    s.Name,
		Supertype:        s.Supertype,
		ChangingOverTime: s.ChangingOverTime,
	}
	for _, ps := range s.Properties {
		t.Properties = append(t.Properties, &types.Property{
			Name:               ps.Name,
			Type:               ps.Type,
			ChangingOverTime:   ps.ChangingOverTime,
			Datatype:           ps.Datatype,
			MultiValue:         ps.MultiValue,
			ValueSet:           ps.ValueSet.ValueSet(),
			DefaultValue:       ps.Default,
			ActivatedByDefault: ps.ActivatedByDefault,
		})
	}
	for _, as := range s.Associations {
		maxCard, err := parseMax(as.Max)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidModel, s.Name, as.Name, err)
		}
		a := &types.Association{
			Name:                  as.Name,
			Target:                as.Target,
			Min:                   as.Min,
			Max:                   maxCard,
			ChangingOverTime:      as.ChangingOverTime,
			DerivedUnion:          as.DerivedUnion,
			SubsettedDerivedUnion: as.SubsettedDerivedUnion,
		}
		if as.Policy != nil {
			pmax, err := parseMax(as.Policy.Max)
			if err != nil {
				return nil, fmt.Errorf("%w: %s.%s policy: %v", ErrInvalidModel, s.Name, as.Name, err)
			}
			a.Policy = &types.Cardinality{Min: as.Policy.Min, Max: pmax, Default: as.Policy.Default}
		}
		t.Associations = append(t.Associations, a)
	}
	return t, nil
}

func parseMax(s string) (int, error) {
	if s == "" {
		return 1, nil
	}
	return types.ParseCardinality(s)
}
