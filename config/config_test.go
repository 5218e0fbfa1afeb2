package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lookbusy1344/gcnasm/arch"
)

func TestDefaultDeviceTableResolve(t *testing.T) {
	table := DefaultDeviceTable()

	cases := []struct {
		device string
		want   arch.Arch
	}{
		{"gfx600", arch.GCN10},
		{"gfx701", arch.GCN11},
		{"gfx803", arch.GCN12},
		{"gfx906", arch.GCN14},
		{"gfx90a", arch.GCN141},
		{"gfx1010", arch.GCN15},
		{"GFX1010", arch.GCN15}, // case-insensitive
	}
	for _, c := range cases {
		got, ok := table.Resolve(c.device)
		if !ok {
			t.Errorf("Resolve(%q): not found", c.device)
			continue
		}
		if got != c.want {
			t.Errorf("Resolve(%q) = %v, want %v", c.device, got, c.want)
		}
	}
}

func TestResolveUnknownDevice(t *testing.T) {
	table := DefaultDeviceTable()
	if _, ok := table.Resolve("gfx_nonexistent"); ok {
		t.Error("expected Resolve to report unknown device as not found")
	}
}

func TestMergeOverridesDefaults(t *testing.T) {
	table := DefaultDeviceTable()
	table.Merge(&DeviceTable{Devices: map[string]string{
		"gfx906":      "GCN1.5", // override a built-in entry
		"gfx_custom1": "GCN1.2",
	}})

	got, ok := table.Resolve("gfx906")
	if !ok || got != arch.GCN15 {
		t.Errorf("expected overridden gfx906 to resolve to GCN1.5, got %v ok=%v", got, ok)
	}
	got, ok = table.Resolve("gfx_custom1")
	if !ok || got != arch.GCN12 {
		t.Errorf("expected new entry gfx_custom1 to resolve to GCN1.2, got %v ok=%v", got, ok)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "devices.toml")

	table := &DeviceTable{Devices: map[string]string{"gfx_test": "GCN1.4"}}
	if err := table.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save device table: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("device table file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load device table: %v", err)
	}
	got, ok := loaded.Resolve("gfx_test")
	if !ok || got != arch.GCN14 {
		t.Errorf("expected merged gfx_test to resolve to GCN1.4, got %v ok=%v", got, ok)
	}
	// a default entry should still resolve after merging an overlay file
	if _, ok := loaded.Resolve("gfx600"); !ok {
		t.Error("expected default entries to survive loading an overlay file")
	}
}

func TestLoadNonExistentReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	table, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on a missing file: %v", err)
	}
	if _, ok := table.Resolve("gfx600"); !ok {
		t.Error("expected default device table when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[devices
gfx600 = "GCN1.0"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "devices.toml")

	table := DefaultDeviceTable()
	if err := table.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save device table: %v", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("device table file was not created")
	}
}
