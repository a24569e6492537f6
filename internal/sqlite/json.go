package sqlite

// JSON record structures for the JSONL data files.

// typeJSON represents a product component type in types.jsonl. Definition
// holds the full type as serialized by pkg/types.
type typeJSON struct {
	QualifiedName    string `json:"qualified_name"`
	Supertype        string `json:"supertype"`
	ChangingOverTime bool   `json:"changing_over_time"`
	Definition       string `json:"definition"`
}

// productCmptJSON represents a product component in product_cmpts.jsonl.
// Content is the component's XML document.
type productCmptJSON struct {
	Name       string `json:"name"`
	TypeName   string `json:"type_name"`
	Template   string `json:"template"`
	IsTemplate bool   `json:"is_template"`
	Content    string `json:"content"`
}
