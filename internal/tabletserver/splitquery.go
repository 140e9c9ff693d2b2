package tabletserver

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	queryv1 "github.com/tabletdb/tabletd/api/queryv1"
	apperrors "github.com/tabletdb/tabletd/internal/platform/errors"
	"github.com/tabletdb/tabletd/internal/storage"
)

// splitColumnPattern keeps the split column to a plain identifier so it can
// be interpolated into the probe and boundary queries without quoting.
var splitColumnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// splitQuery cuts a SELECT into splitCount range scans over splitColumn.
// Boundaries come from a MIN/MAX/COUNT probe over the original query; the
// first split has no lower bound and the last no upper bound, so the union
// of all splits covers every row the original query would return.
func splitQuery(ctx context.Context, db storage.QueryDB, query queryv1.BoundQuery, splitColumn string, splitCount int64) ([]queryv1.QuerySplit, error) {
	sqlText := strings.TrimSpace(query.Sql)
	if sqlText == "" {
		return nil, apperrors.New(apperrors.CodeQueryEmpty, "query is required")
	}
	if !isSelect(sqlText) {
		return nil, apperrors.New(apperrors.CodeSplitNotSelect, "only SELECT queries can be split")
	}
	splitColumn = strings.TrimSpace(splitColumn)
	if splitColumn == "" {
		return nil, apperrors.New(apperrors.CodeSplitColumnRequired, "split column is required")
	}
	if !splitColumnPattern.MatchString(splitColumn) {
		return nil, apperrors.WithMetadata(apperrors.CodeSplitColumnInvalid, "split column must be a plain identifier", map[string]string{
			"split_column": splitColumn,
		})
	}
	if splitCount < 1 {
		return nil, apperrors.WithMetadata(apperrors.CodeSplitCountInvalid, "split count must be at least 1", map[string]string{
			"split_count": fmt.Sprintf("%d", splitCount),
		})
	}

	min, max, total, err := probeRange(ctx, db, sqlText, splitColumn, query.BindVariables)
	if err != nil {
		return nil, err
	}

	if total == 0 || splitCount == 1 || min == max {
		return []queryv1.QuerySplit{{Query: query, RowCount: total}}, nil
	}

	width := max - min + 1
	if splitCount > width {
		splitCount = width
	}
	step := width / splitCount
	if width%splitCount != 0 {
		step++
	}
	rowsPerSplit := total / splitCount

	splits := make([]queryv1.QuerySplit, 0, splitCount)
	for i := int64(0); i < splitCount; i++ {
		start := min + i*step
		end := start + step
		splits = append(splits, rangeSplit(query, splitColumn, start, end, i == 0, i == splitCount-1, rowsPerSplit))
	}
	return splits, nil
}

// probeRange runs the MIN/MAX/COUNT probe over the original query.
func probeRange(ctx context.Context, db storage.QueryDB, sqlText, splitColumn string, bindVars map[string]any) (min, max, total int64, err error) {
	probe := fmt.Sprintf(
		"SELECT MIN(_split_source.%s), MAX(_split_source.%s), COUNT(*) FROM (%s) AS _split_source",
		splitColumn, splitColumn, sqlText,
	)

	var minVal, maxVal sql.NullInt64
	row := db.QueryRowContext(ctx, probe, namedArgs(bindVars)...)
	if err := row.Scan(&minVal, &maxVal, &total); err != nil {
		return 0, 0, 0, apperrors.Wrap(apperrors.CodeSplitColumnInvalid, "probe split column range", err)
	}
	return minVal.Int64, maxVal.Int64, total, nil
}

// rangeSplit wraps the original query in a range filter over splitColumn.
// Boundary values travel as bind variables so the split queries stay
// parameterised.
func rangeSplit(query queryv1.BoundQuery, splitColumn string, start, end int64, first, last bool, rowCount int64) queryv1.QuerySplit {
	bindVars := make(map[string]any, len(query.BindVariables)+2)
	for name, value := range query.BindVariables {
		bindVars[name] = value
	}

	// Boundary bind names must start with a letter so sql.Named accepts
	// them when the split queries come back through Execute.
	var where string
	switch {
	case first && last:
		where = "1"
	case first:
		where = fmt.Sprintf("_split_source.%s < :split_end", splitColumn)
		bindVars["split_end"] = end
	case last:
		where = fmt.Sprintf("_split_source.%s >= :split_start", splitColumn)
		bindVars["split_start"] = start
	default:
		where = fmt.Sprintf("_split_source.%s >= :split_start AND _split_source.%s < :split_end", splitColumn, splitColumn)
		bindVars["split_start"] = start
		bindVars["split_end"] = end
	}

	return queryv1.QuerySplit{
		Query: queryv1.BoundQuery{
			Sql:           fmt.Sprintf("SELECT * FROM (%s) AS _split_source WHERE %s", query.Sql, where),
			BindVariables: bindVars,
		},
		RowCount: rowCount,
	}
}
