package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGeneratedPerson_Deterministic(t *testing.T) {
	a := generatedPerson(3)
	b := generatedPerson(3)
	if a != b {
		t.Errorf("generatedPerson(3) not deterministic: %v vs %v", a, b)
	}
	if generatedPerson(4).id == a.id {
		t.Error("distinct indexes must produce distinct ids")
	}
}

func TestSeedCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, "seed", "extra")
	if err == nil {
		t.Fatal("expected an error for positional arguments")
	}
}

// writeTestConfig places a minimal local.yaml under dir/config.
func writeTestConfig(t *testing.T, dir, dsn string) {
	t.Helper()
	cfgDir := filepath.Join(dir, "config")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	content := fmt.Sprintf(`http:
  port: 8080

database:
  driver: sqlite
  dsn: %s

tables:
  - name: people
    key: id
    columns: [name, city]
`, dsn)
	if err := os.WriteFile(filepath.Join(cfgDir, "local.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestSeedThenSearch_SQLite(t *testing.T) {
	tmp := t.TempDir()
	writeTestConfig(t, tmp, filepath.Join(tmp, "fuzz.db"))
	chdir(t, tmp)
	t.Setenv("FUZZDEX_ENV", "local")

	out, err := execute(t, "seed", "--rows", "10", "--workers", "2")
	if err != nil {
		t.Fatalf("seed failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Seeded 17 rows") {
		t.Errorf("seed output = %q, want 7 samples plus 10 generated rows", out)
	}

	// "silvana" reaches Silvana Ramos exactly and João da Silva through
	// the silva extent; the generated rows stay below both thresholds.
	out, err = execute(t, "search", "--table", "people", "silvana")
	if err != nil {
		t.Fatalf("search failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "2 hit(s)") {
		t.Errorf("search output = %q, want exactly two hits", out)
	}
	if !strings.Contains(out, "p4") || !strings.Contains(out, "Silvana Ramos") {
		t.Errorf("search output = %q, want the p4 row listed", out)
	}

	out, err = execute(t, "search", "--table", "people", "--explain", "silvana")
	if err != nil {
		t.Fatalf("explain failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Dialect: sqlite") {
		t.Errorf("explain output = %q, want the dialect named", out)
	}
	if !strings.Contains(out, "casefold(") {
		t.Errorf("explain output = %q, want the rendered predicate", out)
	}
}

func TestSeedCmd_DropRecreates(t *testing.T) {
	tmp := t.TempDir()
	writeTestConfig(t, tmp, filepath.Join(tmp, "fuzz.db"))
	chdir(t, tmp)
	t.Setenv("FUZZDEX_ENV", "local")

	if out, err := execute(t, "seed", "--rows", "3", "--workers", "1"); err != nil {
		t.Fatalf("first seed failed: %v\n%s", err, out)
	}

	// Without --drop the second run collides with existing primary keys.
	if _, err := execute(t, "seed", "--rows", "3", "--workers", "1"); err == nil {
		t.Fatal("expected duplicate key failures when re-seeding without --drop")
	}

	out, err := execute(t, "seed", "--rows", "3", "--workers", "1", "--drop")
	if err != nil {
		t.Fatalf("re-seed with --drop failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Seeded 10 rows") {
		t.Errorf("re-seed output = %q, want a fresh table with 10 rows", out)
	}
}
