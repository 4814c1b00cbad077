// Package parser counts the statements in a script using the PostgreSQL
// grammar, so semicolons inside strings, comments and dollar-quoted
// bodies are not mistaken for statement ends.
package parser //nolint:revive // intentional: does not conflict with go/parser in internal package

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// CountStatements returns how many top-level statements sql contains.
// Blank and comment-only input count as zero.
func CountStatements(sql string) (int, error) {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return 0, nil
	}

	tree, err := pg_query.Parse(sql)
	if err != nil {
		return 0, fmt.Errorf("parsing SQL: %w", err)
	}

	return len(tree.GetStmts()), nil
}
