package stringutils

import (
	"fmt"
	"strings"
)

// ValuesClause builds the placeholder list for a multi-row insert, numbering
// parameters row by row: ($1, $2), ($3, $4), ...
func ValuesClause(rowCount, columnCount int) string {
	rows := make([]string, rowCount)
	placeholders := make([]string, columnCount)
	for r := range rowCount {
		for c := range columnCount {
			placeholders[c] = fmt.Sprintf("$%d", r*columnCount+c+1)
		}
		rows[r] = "(" + strings.Join(placeholders, ", ") + ")"
	}
	return strings.Join(rows, ", ")
}
