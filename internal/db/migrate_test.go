package db

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	if len(entries) == 0 {
		t.Fatalf("no migrations embedded")
	}

	b, err := fs.ReadFile(migrations, "migrations/"+entries[0].Name())
	if err != nil {
		t.Fatalf("read %s: %v", entries[0].Name(), err)
	}

	sql := string(b)
	for _, want := range []string{"-- +goose Up", "-- +goose Down", "users_email_uniq"} {
		if !strings.Contains(sql, want) {
			t.Fatalf("migration %s missing %q", entries[0].Name(), want)
		}
	}
}
