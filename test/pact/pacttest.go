//go:build pact
// +build pact

package pacttest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "order-api"
	ConsumerName = "order-portal"

	StateInventorySeeded = "inventory seeded with the default catalog"
	StateOrderExists     = "order pact-order-1 exists"
	StateOrderMissing    = "no order pact-missing"
)

const (
	ExistingOrderID = "pact-order-1"
	MissingOrderID  = "pact-missing"
	ExampleCustomer = "Pact Customer"
	ExampleItemName = "laptop"
	exampleOrderAt  = "2024-06-12T10:00:00Z"
)

// PactDir is where consumer tests write and the provider test reads contracts.
// PACT_DIR overrides the default <repo>/pacts.
func PactDir(t testing.TB) string {
	t.Helper()
	if dir := os.Getenv("PACT_DIR"); dir != "" {
		return ensureDir(t, dir)
	}
	return ensureDir(t, filepath.Join(projectRoot(t), "pacts"))
}

func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), fmt.Sprintf("%s-%s.json", ConsumerName, ProviderName))
}

// LogDir holds pact-go mock server logs.
func LogDir(t testing.TB) string {
	t.Helper()
	return ensureDir(t, filepath.Join(projectRoot(t), "bin", "pact-logs"))
}

func ensureDir(t testing.TB, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}

// ExampleOrderItems is the basket used by the intake interaction.
func ExampleOrderItems() []string {
	return []string{ExampleItemName, "mouse", "mouse"}
}

// ExampleOrderPayload mirrors the order seeded for StateOrderExists.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"OrderId":      ExistingOrderID,
		"CustomerName": ExampleCustomer,
		"Items":        ExampleOrderItems(),
		"Status":       "Processing",
		"OrderDate":    exampleOrderAt,
		"LastUpdated":  exampleOrderAt,
	}
}

func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("pacttest: runtime.Caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
