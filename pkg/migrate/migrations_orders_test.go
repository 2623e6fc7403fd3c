package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/veldtrade/procurement-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}
}

func TestPurchaseOrdersMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_purchase_orders.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no purchase_orders migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS purchase_orders",
		"CONSTRAINT uq_purchase_orders_po_number UNIQUE (po_number)",
		"CONSTRAINT chk_purchase_orders_counterparty CHECK",
		"FOREIGN KEY (linked_order_id) REFERENCES purchase_orders(id)",
		"DROP TABLE IF EXISTS purchase_orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProductPricesMigrationEnforcesYearUniqueness(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_product_prices.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no product_prices migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}

	if !strings.Contains(string(data), "CONSTRAINT uq_product_prices_product_year UNIQUE (product_id, year)") {
		t.Errorf("missing product/year uniqueness constraint")
	}
}
