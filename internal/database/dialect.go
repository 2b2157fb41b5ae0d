// Playerstats - Game Server Player Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playerstats

package database

import (
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between backends. Statements are written
// with '?' placeholders and rebound for backends that use positional '$n'.
type Dialect struct {
	Name string

	// MaxParams is the largest number of bind parameters in one statement.
	MaxParams int

	positional bool
}

var (
	SQLite   = Dialect{Name: "sqlite", MaxParams: 32766}
	DuckDB   = Dialect{Name: "duckdb", MaxParams: 65535}
	Postgres = Dialect{Name: "postgres", MaxParams: 65535, positional: true}
)

// Rebind converts '?' placeholders to '$1..$n' when the dialect needs it.
// Question marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if !d.positional || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Placeholders returns "?, ?, ?" with n entries.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// InClause returns "column IN (?, ?, ...)" for n values, or a false predicate when n is 0.
//
//	where := database.InClause("s.server_uuid", len(servers))
func InClause(column string, n int) string {
	if n == 0 {
		return "1 = 0"
	}
	return column + " IN (" + Placeholders(n) + ")"
}
