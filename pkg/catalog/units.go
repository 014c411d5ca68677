package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/lineage"
)

// Table access modes stored with each table reference.
const (
	AccessRead  = "READ"
	AccessWrite = "WRITE"
)

// Unit is a saved analysis result.
type Unit struct {
	UnitID      string
	RunID       string
	Name        string // lineage.UnitID of the qualified name; empty without a script
	Kind        core.ScriptKind
	Owner       string
	ContentHash string
	Script      string // YAML-encoded script
	SyntaxError *core.SqlSyntaxError
	AnalysedAt  time.Time
}

// SyntaxErrorRecord is one unit that failed to parse.
type SyntaxErrorRecord struct {
	UnitID string
	Error  core.SqlSyntaxError
}

// ContentHash returns the hash stored for a unit's source.
func ContentHash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// SaveResult stores the analysis of one unit, replacing any earlier result
// for unitID along with its call and table references.
func (s *Store) SaveResult(ctx context.Context, runID, unitID, source string, res core.AnalyseResult) error {
	if s.db == nil {
		return ErrNotOpen
	}

	var (
		name, owner, script sql.NullString
		kind                sql.NullString
		errLine, errCol     sql.NullInt64
		errMsg              sql.NullString
		refs                *lineage.References
	)

	if res.Script != nil {
		common := res.Script.Common()
		name = nullString(lineage.UnitID(common.QualifiedName()))
		kind = nullString(string(res.Script.Kind()))
		if common.Owner != nil {
			owner = nullString(common.Owner.Symbol)
		}
		data, err := yaml.Marshal(res.Script)
		if err != nil {
			return fmt.Errorf("failed to encode script %s: %w", unitID, err)
		}
		script = nullString(string(data))
		refs = lineage.Extract(res.Script)
	}
	if res.Error != nil {
		errLine = sql.NullInt64{Int64: int64(res.Error.Line), Valid: true}
		errCol = sql.NullInt64{Int64: int64(res.Error.Column), Valid: true}
		errMsg = sql.NullString{String: res.Error.Message, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO units (unit_id, run_id, name, kind, owner, content_hash, script,
			error_line, error_column, error_message, analysed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (unit_id) DO UPDATE SET
			run_id = excluded.run_id, name = excluded.name, kind = excluded.kind,
			owner = excluded.owner, content_hash = excluded.content_hash,
			script = excluded.script, error_line = excluded.error_line,
			error_column = excluded.error_column, error_message = excluded.error_message,
			analysed_at = excluded.analysed_at`,
		unitID, runID, name, kind, owner, ContentHash(source), script,
		errLine, errCol, errMsg, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save unit %s: %w", unitID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM unit_calls WHERE unit_id = ?`, unitID); err != nil {
		return fmt.Errorf("failed to clear calls: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM unit_tables WHERE unit_id = ?`, unitID); err != nil {
		return fmt.Errorf("failed to clear tables: %w", err)
	}

	if refs != nil {
		for _, callee := range refs.RoutinesCalled {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO unit_calls (unit_id, callee, qualified) VALUES (?, ?, ?)`,
				unitID, lineage.UnitID(callee), nullString(lineage.QualifyCall(owner.String, callee)),
			); err != nil {
				return fmt.Errorf("failed to save call: %w", err)
			}
		}
		if err := insertTables(ctx, tx, unitID, refs.TablesRead, AccessRead); err != nil {
			return err
		}
		if err := insertTables(ctx, tx, unitID, refs.TablesWritten, AccessWrite); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unit %s: %w", unitID, err)
	}
	s.logger.Debug("unit saved", "unit", unitID, "run", runID, "name", name.String)
	return nil
}

func insertTables(ctx context.Context, tx *sql.Tx, unitID string, tables []string, access string) error {
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO unit_tables (unit_id, table_name, access) VALUES (?, ?, ?)`,
			unitID, lineage.UnitID(t), access,
		); err != nil {
			return fmt.Errorf("failed to save table reference: %w", err)
		}
	}
	return nil
}

// GetUnit returns the most recently analysed unit with the given qualified
// name. The lookup is case-insensitive.
func (s *Store) GetUnit(ctx context.Context, name string) (*Unit, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	u := &Unit{}
	var kind, owner, script, errMsg sql.NullString
	var errLine, errCol sql.NullInt64
	var unitName sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT unit_id, run_id, name, kind, owner, content_hash, script,
			error_line, error_column, error_message, analysed_at
		FROM units WHERE name = ?
		ORDER BY analysed_at DESC LIMIT 1`,
		lineage.UnitID(name),
	).Scan(&u.UnitID, &u.RunID, &unitName, &kind, &owner, &u.ContentHash, &script,
		&errLine, &errCol, &errMsg, &u.AnalysedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("unit %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}

	u.Name = unitName.String
	u.Kind = core.ScriptKind(kind.String)
	u.Owner = owner.String
	u.Script = script.String
	if errMsg.Valid {
		u.SyntaxError = &core.SqlSyntaxError{
			Line:    int(errLine.Int64),
			Column:  int(errCol.Int64),
			Message: errMsg.String,
		}
	}
	return u, nil
}

// GetCallees returns the routines called by the unit with the given name.
// Unqualified calls resolve against the caller's owner the way
// lineage.BuildCallGraph resolves them.
func (s *Store) GetCallees(ctx context.Context, name string) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT DISTINCT c.callee FROM resolved_calls c
		JOIN units u ON u.unit_id = c.unit_id
		WHERE u.name = ? ORDER BY c.callee`, lineage.UnitID(name))
}

// GetCallers returns the names of units that call the given routine.
func (s *Store) GetCallers(ctx context.Context, name string) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT DISTINCT u.name FROM resolved_calls c
		JOIN units u ON u.unit_id = c.unit_id
		WHERE c.callee = ? AND u.name IS NOT NULL ORDER BY u.name`, lineage.UnitID(name))
}

// GetTableUsers returns the names of units that access table with the
// given access mode.
func (s *Store) GetTableUsers(ctx context.Context, table, access string) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT DISTINCT u.name FROM unit_tables t
		JOIN units u ON u.unit_id = t.unit_id
		WHERE t.table_name = ? AND t.access = ? AND u.name IS NOT NULL ORDER BY u.name`,
		lineage.UnitID(table), access)
}

// ListSyntaxErrors returns the units of a run that failed to parse,
// ordered by unit ID.
func (s *Store) ListSyntaxErrors(ctx context.Context, runID string) ([]SyntaxErrorRecord, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT unit_id, error_line, error_column, error_message FROM units
		WHERE run_id = ? AND error_message IS NOT NULL ORDER BY unit_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list syntax errors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SyntaxErrorRecord
	for rows.Next() {
		var r SyntaxErrorRecord
		var line, col int64
		if err := rows.Scan(&r.UnitID, &line, &col, &r.Error.Message); err != nil {
			return nil, fmt.Errorf("failed to scan syntax error: %w", err)
		}
		r.Error.Line, r.Error.Column = int(line), int(col)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetContentHash returns the stored source hash of a unit, or "" when the
// unit has not been saved.
func (s *Store) GetContentHash(ctx context.Context, unitID string) (string, error) {
	if s.db == nil {
		return "", ErrNotOpen
	}

	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT content_hash FROM units WHERE unit_id = ?`, unitID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get content hash: %w", err)
	}
	return hash, nil
}

// Unchanged reports whether source matches the hash stored for unitID.
func (s *Store) Unchanged(ctx context.Context, unitID, source string) (bool, error) {
	hash, err := s.GetContentHash(ctx, unitID)
	if err != nil {
		return false, err
	}
	return hash != "" && hash == ContentHash(source), nil
}

func (s *Store) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
