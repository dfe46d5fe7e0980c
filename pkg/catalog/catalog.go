// Package catalog holds the immutable schema snapshot an analysis run reads
// once from pg_catalog/information_schema, plus the data-driven
// operator/function nullability classification tables the inference engine
// consults.
package catalog

// Enum describes a PostgreSQL enum type's ordered label set.
type Enum struct {
	OID    uint32
	Name   string
	Labels []string
}

// Type is a base or composite type's oid/name pair.
type Type struct {
	OID  uint32
	Name string
}

// Column is one column of a Table.
type Column struct {
	Name       string
	TypeOID    uint32
	NotNull    bool
	HasDefault bool
}

// Table is a schema-qualified table and its ordered columns.
type Table struct {
	Schema     string
	Name       string
	Columns    []Column
	PrimaryKey map[string]struct{}
}

// Column looks up a column by name, returning ok=false if absent.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// IsPrimaryKey reports whether name is (part of) t's primary key.
func (t *Table) IsPrimaryKey(name string) bool {
	_, ok := t.PrimaryKey[name]
	return ok
}

// Catalog is the immutable snapshot produced by Load. Once constructed it
// is never mutated; every field is read-only from the caller's perspective.
type Catalog struct {
	Enums     map[uint32]Enum
	Types     map[uint32]Type
	Tables    map[string]Table // key: "schema.name"
	Operators OperatorClasses
	Functions FunctionClasses
}

// Table looks up a table by optional schema (defaulting to "public") and
// name.
func (c *Catalog) Table(schema, name string) (Table, bool) {
	if schema == "" {
		schema = "public"
	}
	t, ok := c.Tables[schema+"."+name]
	return t, ok
}

// TypeName resolves a type oid to its name, or "" if unknown.
func (c *Catalog) TypeName(oid uint32) string {
	if t, ok := c.Types[oid]; ok {
		return t.Name
	}
	if e, ok := c.Enums[oid]; ok {
		return e.Name
	}
	return ""
}
