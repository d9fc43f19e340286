package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stocktrail/stocktrail-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestItemsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inventory_items.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_items",
		"UNIQUE (name, category_id)",
		"CHECK (quantity >= 0)",
		"FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL",
		"FOREIGN KEY (created_by_id) REFERENCES users(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS inventory_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestChangesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inventory_changes.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_changes",
		"FOREIGN KEY (item_id) REFERENCES inventory_items(id) ON DELETE CASCADE",
		"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL",
		"idx_changes_timestamp",
		"DROP TABLE IF EXISTS inventory_changes",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
