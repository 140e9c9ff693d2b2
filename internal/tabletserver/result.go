package tabletserver

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	queryv1 "github.com/tabletdb/tabletd/api/queryv1"
	apperrors "github.com/tabletdb/tabletd/internal/platform/errors"
)

// executor abstracts *sql.DB and *sql.Tx so a statement runs the same way
// inside and outside a transaction.
type executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// namedArgs converts bind variables to database/sql named arguments.
func namedArgs(bindVars map[string]any) []any {
	if len(bindVars) == 0 {
		return nil
	}
	args := make([]any, 0, len(bindVars))
	for name, value := range bindVars {
		args = append(args, sql.Named(name, value))
	}
	return args
}

// isSelect reports whether the statement produces rows.
func isSelect(sqlText string) bool {
	trimmed := strings.ToUpper(strings.TrimSpace(sqlText))
	return strings.HasPrefix(trimmed, "SELECT") || strings.HasPrefix(trimmed, "WITH")
}

// execStatement runs one bound query and collects the full result.
func execStatement(ctx context.Context, exec executor, query queryv1.BoundQuery) (*queryv1.QueryResult, error) {
	sqlText := strings.TrimSpace(query.Sql)
	if sqlText == "" {
		return nil, apperrors.New(apperrors.CodeQueryEmpty, "query is required")
	}

	if !isSelect(sqlText) {
		res, err := exec.ExecContext(ctx, sqlText, namedArgs(query.BindVariables)...)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeQueryFailed, "execute statement", err)
		}
		result := &queryv1.QueryResult{}
		if affected, err := res.RowsAffected(); err == nil {
			result.RowsAffected = uint64(affected)
		}
		if insertID, err := res.LastInsertId(); err == nil && insertID > 0 {
			result.InsertId = uint64(insertID)
		}
		return result, nil
	}

	rows, err := exec.QueryContext(ctx, sqlText, namedArgs(query.BindVariables)...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeQueryFailed, "execute query", err)
	}
	defer rows.Close()

	return resultFromRows(rows)
}

// resultFromRows drains rows into a single QueryResult.
func resultFromRows(rows *sql.Rows) (*queryv1.QueryResult, error) {
	fields, err := fieldsFromRows(rows)
	if err != nil {
		return nil, err
	}

	result := &queryv1.QueryResult{Fields: fields}
	for rows.Next() {
		row, err := scanRow(rows, len(fields))
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeQueryFailed, "iterate rows", err)
	}
	result.RowsAffected = uint64(len(result.Rows))
	return result, nil
}

// fieldsFromRows maps result columns to wire fields.
func fieldsFromRows(rows *sql.Rows) ([]queryv1.Field, error) {
	columns, err := rows.ColumnTypes()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeQueryFailed, "read column types", err)
	}
	fields := make([]queryv1.Field, len(columns))
	for i, col := range columns {
		fields[i] = queryv1.Field{
			Name: col.Name(),
			Type: col.DatabaseTypeName(),
		}
	}
	return fields, nil
}

// scanRow reads the current row into wire values. []byte columns are copied
// because the driver may reuse the backing array between scans.
func scanRow(rows *sql.Rows, width int) ([]any, error) {
	values := make([]any, width)
	pointers := make([]any, width)
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := rows.Scan(pointers...); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeQueryFailed, "scan row", err)
	}
	for i, value := range values {
		if raw, ok := value.([]byte); ok {
			values[i] = append([]byte(nil), raw...)
		}
	}
	return values, nil
}

// validateBatch rejects empty batches and empty statements up front so a
// failing statement cannot leave half a batch behind.
func validateBatch(queries []queryv1.BoundQuery) error {
	if len(queries) == 0 {
		return apperrors.New(apperrors.CodeQueryEmpty, "at least one query is required")
	}
	for i, query := range queries {
		if strings.TrimSpace(query.Sql) == "" {
			return apperrors.New(apperrors.CodeQueryEmpty, fmt.Sprintf("query %d is empty", i))
		}
	}
	return nil
}
