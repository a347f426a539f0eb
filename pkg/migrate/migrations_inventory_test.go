package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carlothq/carlot-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}

func TestCarsMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_cars_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS cars",
		"vehicle_type",
		"features",
		"available",
		"CREATE INDEX IF NOT EXISTS idx_cars_brand",
		"CREATE INDEX IF NOT EXISTS idx_cars_created_at",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestUsersMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_users_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"password_hash",
		"role",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPurchasesMigrationContainsSchema(t *testing.T) {
	content := readMigration(t, "*_create_purchases_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS purchases",
		"purchase_price NUMERIC(12,2)",
		"CREATE INDEX IF NOT EXISTS idx_purchases_user_id",
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
		t.Fatalf("no migration matching %q found", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
