// Package migrations embeds the schema scripts for the tweets table and
// applies them in lexical order.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var scripts embed.FS

// ExecFunc runs a single SQL statement.
type ExecFunc func(ctx context.Context, stmt string) error

// Script is one migration file split into statements.
type Script struct {
	Name       string
	Statements []string
}

// Load returns every embedded script, sorted by file name.
func Load() ([]Script, error) {
	names, err := fs.Glob(scripts, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	out := make([]Script, 0, len(names))
	for _, name := range names {
		raw, err := scripts.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, Script{Name: name, Statements: splitStatements(string(raw))})
	}
	return out, nil
}

// Apply runs every statement of every script. The scripts are idempotent
// (IF NOT EXISTS), so Apply is safe to call on each start-up.
func Apply(ctx context.Context, exec ExecFunc) error {
	all, err := Load()
	if err != nil {
		return err
	}
	for _, s := range all {
		for i, stmt := range s.Statements {
			if err := exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %s statement %d: %w", s.Name, i+1, err)
			}
		}
	}
	return nil
}

// splitStatements splits a script on semicolons that end a line. The
// scripts hold no function bodies, so no dollar-quoting is handled.
func splitStatements(script string) []string {
	var (
		stmts []string
		cur   strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmts = append(stmts, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
