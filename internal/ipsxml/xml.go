package ipsxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidDocument reports XML that cannot describe a product component.
var ErrInvalidDocument = errors.New("invalid product component document")

const rootElement = "ProductCmpt"

type xmlProductCmpt struct {
	XMLName     xml.Name        `xml:"ProductCmpt"`
	Name        string          `xml:"name,attr"`
	Type        string          `xml:"productCmptType,attr"`
	RuntimeID   string          `xml:"runtimeId,attr,omitempty"`
	Template    string          `xml:"template,attr,omitempty"`
	IsTemplate  bool            `xml:"isTemplate,attr,omitempty"`
	Items       []xmlItem       `xml:",any"`
	Generations []xmlGeneration `xml:"Generation"`
}

type xmlGeneration struct {
	ValidFrom string    `xml:"validFrom,attr"`
	Items     []xmlItem `xml:",any"`
}

// xmlItem is a property value or a link; XMLName tells which.
type xmlItem struct {
	XMLName xml.Name
	ID      string `xml:"id,attr,omitempty"`

	Attribute        string `xml:"attribute,attr,omitempty"`
	FormulaSignature string `xml:"formulaSignature,attr,omitempty"`
	StructureUsage   string `xml:"structureUsage,attr,omitempty"`
	RuleName         string `xml:"ruleName,attr,omitempty"`

	Association string `xml:"association,attr,omitempty"`
	Target      string `xml:"target,attr,omitempty"`
	Min         string `xml:"minCardinality,attr,omitempty"`
	Max         string `xml:"maxCardinality,attr,omitempty"`
	Default     string `xml:"defaultCardinality,attr,omitempty"`

	Status string `xml:"templateValueStatus,attr,omitempty"`
	Active string `xml:"active,attr,omitempty"`

	Value            *xmlValue      `xml:"Value"`
	MultiValue       *xmlMultiValue `xml:"MultiValue"`
	ValueSet         *xmlValueSet   `xml:"ValueSet"`
	Expression       *string        `xml:"Expression"`
	TableContentName *string        `xml:"TableContentName"`
}

type xmlValue struct {
	IsNull  bool   `xml:"isNull,attr,omitempty"`
	Content string `xml:",chardata"`
}

type xmlMultiValue struct {
	Values []xmlValue `xml:"Value"`
}

type xmlValueSet struct {
	ContainsNull bool      `xml:"containsNull,attr"`
	AllValues    *struct{} `xml:"AllValues"`
	Enum         *xmlEnum  `xml:"Enum"`
	Range        *xmlRange `xml:"Range"`
}

type xmlEnum struct {
	Values []string `xml:"Value"`
}

type xmlRange struct {
	Lower string `xml:"lowerBound,attr,omitempty"`
	Upper string `xml:"upperBound,attr,omitempty"`
	Step  string `xml:"step,attr,omitempty"`
}

const linkElement = "Link"

// nameOf returns the property name attribute of it.
func (it *xmlItem) nameOf() string {
	for _, s := range []string{it.Attribute, it.FormulaSignature, it.StructureUsage, it.RuleName} {
		if s != "" {
			return s
		}
	}
	return ""
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: active=%q", ErrInvalidDocument, s)
	}
	return b, nil
}
