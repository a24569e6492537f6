package sqlite

// Schema DDL. The entity tables mirror the JSONL files; the index tables
// are derived from component content on every write and load.
const (
	createTypes = `CREATE TABLE product_cmpt_types (
    qualified_name TEXT PRIMARY KEY,
    supertype TEXT NOT NULL DEFAULT '',
    changing_over_time INTEGER NOT NULL DEFAULT 0,
    definition TEXT NOT NULL
);`

	createProductCmpts = `CREATE TABLE product_cmpts (
    name TEXT PRIMARY KEY,
    type_name TEXT NOT NULL,
    template TEXT NOT NULL DEFAULT '',
    is_template INTEGER NOT NULL DEFAULT 0,
    content TEXT NOT NULL
);`

	createPropertyValues = `CREATE TABLE property_values (
    cmpt TEXT NOT NULL,
    container TEXT NOT NULL,
    property_name TEXT NOT NULL,
    value_type TEXT NOT NULL,
    status TEXT NOT NULL,
    id TEXT NOT NULL,
    FOREIGN KEY (cmpt) REFERENCES product_cmpts(name) ON DELETE CASCADE
);`

	createLinks = `CREATE TABLE links (
    cmpt TEXT NOT NULL,
    container TEXT NOT NULL,
    association TEXT NOT NULL,
    target TEXT NOT NULL,
    status TEXT NOT NULL,
    FOREIGN KEY (cmpt) REFERENCES product_cmpts(name) ON DELETE CASCADE
);`
)

// Index DDL.
const (
	idxTypesSupertype       = `CREATE INDEX idx_types_supertype ON product_cmpt_types(supertype);`
	idxCmptsType            = `CREATE INDEX idx_cmpts_type ON product_cmpts(type_name);`
	idxCmptsTemplate        = `CREATE INDEX idx_cmpts_template ON product_cmpts(template);`
	idxPropertyValuesCmpt   = `CREATE INDEX idx_property_values_cmpt ON property_values(cmpt);`
	idxPropertyValuesStatus = `CREATE INDEX idx_property_values_status ON property_values(status);`
	idxLinksCmpt            = `CREATE INDEX idx_links_cmpt ON links(cmpt);`
	idxLinksTarget          = `CREATE INDEX idx_links_target ON links(target);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createTypes,
	createProductCmpts,
	createPropertyValues,
	createLinks,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTypesSupertype,
	idxCmptsType,
	idxCmptsTemplate,
	idxPropertyValuesCmpt,
	idxPropertyValuesStatus,
	idxLinksCmpt,
	idxLinksTarget,
}
