// Package config loads the device-name-to-architecture table a driver
// uses to answer spec.md §6's "host selects a GPU device by name"
// question, the same way the teacher's Config layers a user TOML file
// over a DefaultConfig().
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lookbusy1344/gcnasm/arch"
)

// DeviceTable maps LLVM-style device names ("gfx900") to the GCN
// revision that encodes/decodes them.
type DeviceTable struct {
	Devices map[string]string `toml:"devices"` // device name -> arch string, e.g. "GCN14"
}

// archByName mirrors arch.Arch's String() values so TOML files can name
// a revision the same way diagnostics print it.
var archByName = map[string]arch.Arch{
	"GCN1.0": arch.GCN10, "GCN10": arch.GCN10,
	"GCN1.1": arch.GCN11, "GCN11": arch.GCN11,
	"GCN1.2": arch.GCN12, "GCN12": arch.GCN12,
	"GCN1.4": arch.GCN14, "GCN14": arch.GCN14,
	"GCN1.4.1": arch.GCN141, "GCN141": arch.GCN141,
	"GCN1.5": arch.GCN15, "GCN15": arch.GCN15,
}

// DefaultDeviceTable returns the built-in device names this codec
// recognizes out of the box, covering several parts per revision. Callers that need the full AMDGPU device list load an
// overriding TOML file with LoadFrom and merge it in.
func DefaultDeviceTable() *DeviceTable {
	return &DeviceTable{
		Devices: map[string]string{
			"gfx600": "GCN1.0", "gfx601": "GCN1.0", "gfx602": "GCN1.0",
			"gfx700": "GCN1.1", "gfx701": "GCN1.1", "gfx702": "GCN1.1", "gfx703": "GCN1.1", "gfx704": "GCN1.1", "gfx705": "GCN1.1",
			"gfx801": "GCN1.2", "gfx802": "GCN1.2", "gfx803": "GCN1.2", "gfx805": "GCN1.2", "gfx810": "GCN1.2",
			"gfx900": "GCN1.4", "gfx902": "GCN1.4", "gfx904": "GCN1.4", "gfx906": "GCN1.4", "gfx908": "GCN1.4", "gfx909": "GCN1.4", "gfx90c": "GCN1.4",
			"gfx909a": "GCN1.4.1", "gfx90a": "GCN1.4.1",
			"gfx1010": "GCN1.5", "gfx1011": "GCN1.5", "gfx1012": "GCN1.5",
		},
	}
}

// Resolve looks up a device name (case-insensitive) and returns the
// arch.Arch it encodes to, reporting false if the name is unknown.
func (t *DeviceTable) Resolve(deviceName string) (arch.Arch, bool) {
	name, ok := t.Devices[strings.ToLower(deviceName)]
	if !ok {
		return 0, false
	}
	a, ok := archByName[name]
	return a, ok
}

// Merge overlays other's entries onto t, other winning on conflicts —
// the same "user file layers over defaults" shape as the teacher's
// Config/DefaultConfig pairing.
func (t *DeviceTable) Merge(other *DeviceTable) {
	if other == nil {
		return
	}
	if t.Devices == nil {
		t.Devices = make(map[string]string, len(other.Devices))
	}
	for k, v := range other.Devices {
		t.Devices[strings.ToLower(k)] = v
	}
}

// GetConfigPath returns the platform-specific device table file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "gcnasm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "devices.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "gcnasm")

	default:
		return "devices.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "devices.toml"
	}

	return filepath.Join(configDir, "devices.toml")
}

// Load loads the device table from the default config file, merged
// over DefaultDeviceTable.
func Load() (*DeviceTable, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads and merges a device table TOML file from path over
// DefaultDeviceTable. A missing file is not an error: the defaults
// alone are returned, the same contract the teacher's LoadFrom gives a
// missing config.toml.
func LoadFrom(path string) (*DeviceTable, error) {
	table := DefaultDeviceTable()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return table, nil
	}

	var overlay DeviceTable
	if _, err := toml.DecodeFile(path, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse device table: %w", err)
	}
	table.Merge(&overlay)

	return table, nil
}

// SaveTo writes the device table to path as TOML, creating parent
// directories as needed.
func (t *DeviceTable) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- caller-controlled config file path
	if err != nil {
		return fmt.Errorf("failed to create device table file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(t); err != nil {
		return fmt.Errorf("failed to encode device table: %w", err)
	}

	return nil
}
