package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadInventoryToml(t *testing.T) {

	path := writeTemp(t, "targets.toml", `
[defaults]
community = "public"
port = 161

[defaults.labels]
site = "dc1"

[[targets]]
name = "mx80"
host = "192.0.2.1"
community = "secret"

[[targets]]
host = "192.0.2.2"

[[targets]]
name = "nohost"
`)

	targets, err := loadInventory(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}

	if targets[0].Name != "mx80" || targets[0].Community != "secret" || targets[0].Port != 161 {
		t.Errorf("unexpected first target: %+v", targets[0])
	}
	if targets[0].Labels["site"] != "dc1" {
		t.Errorf("default labels not applied: %+v", targets[0].Labels)
	}
	if targets[1].Name != "192.0.2.2" || targets[1].Community != "public" {
		t.Errorf("unexpected second target: %+v", targets[1])
	}
}

func TestLoadInventoryYaml(t *testing.T) {

	path := writeTemp(t, "targets.yaml", `
defaults:
  community: public
  version: "2c"
targets:
  - name: edge1
    host: 192.0.2.1
    port: 1161
  - host: 192.0.2.2
    version: "1"
`)

	targets, err := loadInventory(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	if targets[0].Port != 1161 || targets[0].Version != "2c" {
		t.Errorf("unexpected first target: %+v", targets[0])
	}
	if targets[1].Version != "1" || targets[1].Community != "public" {
		t.Errorf("unexpected second target: %+v", targets[1])
	}
}

func TestLoadInventoryUnsupported(t *testing.T) {

	path := writeTemp(t, "targets.txt", "whatever")
	if _, err := loadInventory(path); err == nil {
		t.Error("expected an error for unsupported format")
	}
	if _, err := loadInventory(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for missing file")
	}
}
