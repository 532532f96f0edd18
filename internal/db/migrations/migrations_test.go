package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	script := `-- header comment
CREATE TABLE a (
    id INT
);

CREATE INDEX a_idx
    ON a (id);
SELECT 1`

	got := splitStatements(script)
	if len(got) != 3 {
		t.Fatalf("splitStatements() returned %d statements, want 3: %q", len(got), got)
	}
	if !strings.HasPrefix(got[0], "CREATE TABLE a (") || !strings.HasSuffix(got[0], ");") {
		t.Errorf("first statement = %q", got[0])
	}
	if strings.Contains(got[0], "header comment") {
		t.Error("comment lines should be dropped")
	}
	if got[2] != "SELECT 1" {
		t.Errorf("trailing statement = %q, want %q", got[2], "SELECT 1")
	}
}

func TestLoad(t *testing.T) {
	scripts, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if len(scripts) == 0 {
		t.Fatal("Load() returned no scripts")
	}
	if scripts[0].Name != "0001_create_tweets.sql" {
		t.Errorf("first script = %q, want 0001_create_tweets.sql", scripts[0].Name)
	}
	if !strings.Contains(scripts[0].Statements[0], "CREATE TABLE IF NOT EXISTS tweets") {
		t.Errorf("first statement = %q", scripts[0].Statements[0])
	}
}

func TestApply(t *testing.T) {
	t.Run("runs every statement in order", func(t *testing.T) {
		var seen []string
		err := Apply(context.Background(), func(ctx context.Context, stmt string) error {
			seen = append(seen, stmt)
			return nil
		})
		if err != nil {
			t.Fatalf("Apply() unexpected error: %v", err)
		}
		if len(seen) != 3 {
			t.Fatalf("Apply() executed %d statements, want 3", len(seen))
		}
		if !strings.Contains(seen[1], "tweets_visible_idx") {
			t.Errorf("second statement = %q, want visible index", seen[1])
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		boom := errors.New("boom")
		calls := 0
		err := Apply(context.Background(), func(ctx context.Context, stmt string) error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Apply() error = %v, want wrapped boom", err)
		}
		if calls != 1 {
			t.Errorf("exec called %d times, want 1", calls)
		}
	})
}
