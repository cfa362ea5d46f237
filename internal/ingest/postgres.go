package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"appointment-visit-audit/internal/dataset"
)

//nolint:gochecknoglobals // compiled once
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// OpenPostgres connects through the pgx database/sql driver and pings.
func OpenPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func sanitizeIdentifier(kind, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("db %s is required", kind)
	}
	if !identifierPattern.MatchString(value) {
		return "", fmt.Errorf("invalid %s name: %s", kind, value)
	}
	return value, nil
}

// LoadPostgres reads schema.table as an uploaded table. Every column is
// read as nullable text, so timestamps should be stored the way the upload
// spells them. A missing table reads as no upload.
func LoadPostgres(ctx context.Context, db *sql.DB, schema, table string) (*dataset.Table, error) {
	schema, err := sanitizeIdentifier("schema", schema)
	if err != nil {
		return nil, err
	}
	table, err = sanitizeIdentifier("table", table)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, schema+"."+table).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s.%s`, schema, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := dataset.New(schema+"."+table, columns)
	for rows.Next() {
		row := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", schema, table, err)
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", schema, table, err)
	}
	return out, nil
}
