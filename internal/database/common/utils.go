package common

import (
	"regexp"
	"strings"
)

var (
	commentRegex = regexp.MustCompile(`(?m)^\s*--.*$`)
	stringRegex  = regexp.MustCompile(`'(?:[^']|'')*'|"(?:[^"]|"")*"|` + "`(?:[^`]|``)*`")
)

// ParseSQLStatements splits a script on semicolons that are not inside string
// or identifier literals, dropping line comments and empty statements.
func ParseSQLStatements(sql string) []string {
	sql = commentRegex.ReplaceAllString(sql, "")

	stringPositions := make(map[int]bool)
	for _, match := range stringRegex.FindAllStringIndex(sql, -1) {
		for i := match[0]; i < match[1]; i++ {
			stringPositions[i] = true
		}
	}

	estimated := strings.Count(sql, ";") + 1
	statements := make([]string, 0, estimated)

	var current strings.Builder
	flush := func() {
		stmt := strings.TrimSpace(current.String())
		if stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i, char := range sql {
		if char == ';' && !stringPositions[i] {
			flush()
			continue
		}
		current.WriteRune(char)
	}
	flush()

	return statements
}
