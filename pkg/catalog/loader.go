package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

// Loader reads a Catalog snapshot from a live PostgreSQL connection. The
// catalog is read-only: Load issues only SELECTs against pg_catalog and
// information_schema views, never writing to the database.
type Loader struct {
	conn   *pgx.Conn
	logger *slog.Logger
}

// NewLoader creates a Loader over an already-connected native pgx
// connection. If logger is nil, a discard logger is used.
func NewLoader(conn *pgx.Conn, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{conn: conn, logger: logger}
}

// Load queries pg_catalog once and returns an immutable Catalog snapshot.
// The operator/function classification tables are not read from the
// database — they are the fixed, data-driven defaults in classify.go.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	cat := &Catalog{
		Enums:     map[uint32]Enum{},
		Types:     map[uint32]Type{},
		Tables:    map[string]Table{},
		Operators: DefaultOperatorClasses,
		Functions: DefaultFunctionClasses,
	}

	if err := l.loadTypes(ctx, cat); err != nil {
		return nil, fmt.Errorf("catalog: load types: %w", err)
	}
	if err := l.loadEnums(ctx, cat); err != nil {
		return nil, fmt.Errorf("catalog: load enums: %w", err)
	}
	if err := l.loadTables(ctx, cat); err != nil {
		return nil, fmt.Errorf("catalog: load tables: %w", err)
	}

	l.logger.Debug("catalog loaded",
		slog.Int("types", len(cat.Types)),
		slog.Int("enums", len(cat.Enums)),
		slog.Int("tables", len(cat.Tables)))
	return cat, nil
}

func (l *Loader) loadTypes(ctx context.Context, cat *Catalog) error {
	rows, err := l.conn.Query(ctx, `
		SELECT oid, typname
		FROM pg_catalog.pg_type
		WHERE typtype IN ('b', 'c') AND typnamespace = (
			SELECT oid FROM pg_catalog.pg_namespace WHERE nspname = 'pg_catalog'
		)`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t Type
		if err := rows.Scan(&t.OID, &t.Name); err != nil {
			return err
		}
		cat.Types[t.OID] = t
	}
	return rows.Err()
}

func (l *Loader) loadEnums(ctx context.Context, cat *Catalog) error {
	rows, err := l.conn.Query(ctx, `
		SELECT t.oid, t.typname, e.enumlabel
		FROM pg_catalog.pg_type t
		JOIN pg_catalog.pg_enum e ON e.enumtypid = t.oid
		ORDER BY t.oid, e.enumsortorder`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var oid uint32
		var name, label string
		if err := rows.Scan(&oid, &name, &label); err != nil {
			return err
		}
		en := cat.Enums[oid]
		en.OID, en.Name = oid, name
		en.Labels = append(en.Labels, label)
		cat.Enums[oid] = en
	}
	return rows.Err()
}

func (l *Loader) loadTables(ctx context.Context, cat *Catalog) error {
	rows, err := l.conn.Query(ctx, `
		SELECT
			c.table_schema, c.table_name, c.column_name, c.ordinal_position,
			(a.atttypid)::oid AS type_oid,
			c.is_nullable = 'NO' AS not_null,
			c.column_default IS NOT NULL AS has_default,
			COALESCE(pk.is_pk, false) AS is_pk
		FROM information_schema.columns c
		JOIN pg_catalog.pg_class rel
			ON rel.relname = c.table_name
			AND rel.relnamespace = (SELECT oid FROM pg_catalog.pg_namespace WHERE nspname = c.table_schema)
		JOIN pg_catalog.pg_attribute a
			ON a.attrelid = rel.oid AND a.attname = c.column_name AND NOT a.attisdropped
		LEFT JOIN (
			SELECT kcu.table_schema, kcu.table_name, kcu.column_name, true AS is_pk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON kcu.constraint_name = tc.constraint_name
				AND kcu.table_schema = tc.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
		) pk
			ON pk.table_schema = c.table_schema
			AND pk.table_name = c.table_name
			AND pk.column_name = c.column_name
		WHERE c.table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY c.table_schema, c.table_name, c.ordinal_position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var schema, tableName, columnName string
		var ordinal int
		var typeOID uint32
		var notNull, hasDefault, isPK bool
		if err := rows.Scan(&schema, &tableName, &columnName, &ordinal, &typeOID, &notNull, &hasDefault, &isPK); err != nil {
			return err
		}

		key := schema + "." + tableName
		t, ok := cat.Tables[key]
		if !ok {
			t = Table{Schema: schema, Name: tableName, PrimaryKey: map[string]struct{}{}}
		}
		t.Columns = append(t.Columns, Column{Name: columnName, TypeOID: typeOID, NotNull: notNull, HasDefault: hasDefault})
		if isPK {
			t.PrimaryKey[columnName] = struct{}{}
		}
		cat.Tables[key] = t
	}
	return rows.Err()
}
