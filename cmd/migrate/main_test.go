package main

import (
	"reflect"
	"testing"
)

func TestWithMigrationsTable(t *testing.T) {
	t.Parallel()

	dsn := "postgres://roster:pw@localhost:5432/roster?sslmode=disable"

	if got := withMigrationsTable(dsn, ""); got != dsn {
		t.Fatalf("empty table must keep the DSN, got %s", got)
	}

	got := withMigrationsTable(dsn, "schema_seeds")
	want := "postgres://roster:pw@localhost:5432/roster?sslmode=disable&x-migrations-table=schema_seeds"
	if got != want {
		t.Fatalf("unexpected DSN.\nwant %s\ngot  %s", want, got)
	}
}

func TestActionNames(t *testing.T) {
	t.Parallel()

	want := []string{"down", "drop", "up", "version"}
	if got := actionNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v got %v", want, got)
	}
}
