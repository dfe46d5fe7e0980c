// Package probe prepares a rewritten SQL statement against a live
// PostgreSQL connection using the native wire protocol and reports the
// server's parameter and row-description metadata. Types and parameter
// count are authoritative from the server; nullability is not (PostgreSQL
// reports every prepared-statement column as nullable) and is tightened
// separately by pkg/infer.
package probe

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Column is one entry of a prepared statement's row description.
type Column struct {
	Name    string
	TypeOID uint32
}

// Description is the server's answer to PREPARE + DESCRIBE: ordered
// parameter type oids and ordered result columns.
type Description struct {
	ParamOIDs []uint32
	Columns   []Column
}

// Run prepares sql under a uniquely named, scoped prepared statement,
// describes it, and deallocates the statement before returning once the
// prepare has succeeded. A failed prepare registers no statement
// server-side, so Run then returns the error without a DEALLOCATE.
func Run(ctx context.Context, conn *pgx.Conn, sql string) (Description, error) {
	name := "sqltyper_probe_" + uuid.NewString()

	stmt, err := conn.Prepare(ctx, name, sql)
	if err != nil {
		return Description{}, fmt.Errorf("probe: prepare failed: %w", err)
	}
	defer func() {
		// Best-effort: if Prepare itself failed the statement was never
		// registered server-side, so deallocation only runs on success —
		// this defer only fires after a successful Prepare above.
		_, _ = conn.Exec(context.WithoutCancel(ctx), "DEALLOCATE "+pgx.Identifier{name}.Sanitize())
	}()

	desc := Description{ParamOIDs: make([]uint32, len(stmt.ParamOIDs))}
	copy(desc.ParamOIDs, stmt.ParamOIDs)

	desc.Columns = make([]Column, len(stmt.Fields))
	for i, f := range stmt.Fields {
		desc.Columns[i] = Column{Name: string(f.Name), TypeOID: uint32(f.DataTypeOID)}
	}

	return desc, nil
}
