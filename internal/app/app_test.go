package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lodestar/internal/config"
)

const libSource = `
pub mod shapes {
    pub struct Circle { pub radius: f64 }

    pub fn area(c: &Circle) -> f64 { c.radius * c.radius }
}
`

const mainSource = `
fn main() {
    let n = 1;
}
`

func writeCrate(t *testing.T, dir, name, rootFile, source string) string {
	t.Helper()
	src := filepath.Join(dir, name, "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(src, rootFile)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(cfg, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestRebuildDiscoversConventionalLayout(t *testing.T) {
	dir := t.TempDir()
	writeCrate(t, dir, "geometry", "lib.rs", libSource)
	writeCrate(t, dir, "tool", "main.rs", mainSource)

	cfg := config.Default()
	cfg.WatchPaths = []string{dir}
	cfg.IndexPath = filepath.Join(dir, "index.db")

	a := testApp(t, cfg)
	if err := a.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	offset := strings.Index(libSource, "Circle")
	res, err := a.DefinitionsAt(context.Background(), "geometry", uint(offset))
	if err != nil {
		t.Fatalf("DefinitionsAt: %v", err)
	}
	if len(res.Definitions) != 1 || res.Definitions[0].Kind != "adt" {
		t.Fatalf("unexpected definitions %+v", res.Definitions)
	}

	records, err := a.Symbols(context.Background(), "Circle")
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d index records, want 1", len(records))
	}
	if records[0].Crate != "geometry" || records[0].ModulePath != "geometry::shapes" {
		t.Errorf("unexpected record %+v", records[0])
	}
}

func TestRebuildHonorsExplicitCrateRoots(t *testing.T) {
	dir := t.TempDir()
	root := writeCrate(t, dir, "inner", "lib.rs", libSource)

	cfg := config.Default()
	cfg.WatchPaths = []string{dir}
	cfg.IndexPath = ""
	cfg.CrateRoots = []config.CrateRoot{{Name: "renamed", Root: root}}

	a := testApp(t, cfg)
	if err := a.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	offset := strings.Index(libSource, "Circle")
	if _, err := a.DefinitionsAt(context.Background(), "renamed", uint(offset)); err != nil {
		t.Fatalf("explicit crate name not honored: %v", err)
	}
	if _, err := a.DefinitionsAt(context.Background(), "inner", 0); err == nil {
		t.Fatal("discovery ran despite explicit crate roots")
	}
}

func TestRebuildBeforeQueriesFails(t *testing.T) {
	cfg := config.Default()
	cfg.WatchPaths = []string{t.TempDir()}
	cfg.IndexPath = ""

	a := testApp(t, cfg)
	if _, err := a.DefinitionsAt(context.Background(), "any", 0); err == nil {
		t.Fatal("query before Rebuild succeeded")
	}
	if err := a.Rebuild(context.Background()); err == nil {
		t.Fatal("Rebuild over empty workspace succeeded, want no-crates error")
	}
}

func TestCrateRootFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCrate(t, dir, "demo", "lib.rs", libSource)

	got, err := crateRootFile(filepath.Join(dir, "demo"))
	if err != nil {
		t.Fatalf("crateRootFile(dir): %v", err)
	}
	if got != path {
		t.Errorf("crateRootFile = %q, want %q", got, path)
	}

	got, err = crateRootFile(path)
	if err != nil {
		t.Fatalf("crateRootFile(file): %v", err)
	}
	if got != path {
		t.Errorf("crateRootFile = %q, want %q", got, path)
	}

	if _, err := crateRootFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("crateRootFile on missing path succeeded")
	}
}

func TestCrateNameFor(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{filepath.Join("ws", "geometry", "src", "lib.rs"), "geometry"},
		{filepath.Join("ws", "tool", "main.rs"), "tool"},
		{"lib.rs", "lib"},
	}
	for _, tc := range cases {
		if got := crateNameFor(tc.path); got != tc.want {
			t.Errorf("crateNameFor(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
