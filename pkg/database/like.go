package database

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns an ILIKE pattern matching s as a literal substring.
// Postgres uses backslash as the default LIKE escape character.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
