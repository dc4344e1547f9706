// Package config holds the application configuration and the persisted
// camera settings record. A missing or corrupt file falls back to defaults;
// individual unknown or out-of-range values are skipped rather than failing
// the whole load.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"camshot/internal/camera"
	"camshot/internal/log"
)

// Reference layout space; widget rectangles are declared against this and
// scaled to the actual display resolution.
const (
	ReferenceWidth  = 320
	ReferenceHeight = 240
)

// SettingsScreenCount is the number of settings screens the persisted
// settings_screen index selects between
const SettingsScreenCount = 5

// Settings is the small bundle of camera selections persisted between runs.
// Each field is an index into the corresponding fixed lookup table.
type Settings struct {
	Effect int `yaml:"fx"`
	ISO    int `yaml:"iso"`
	Size   int `yaml:"size"`
	Store  int `yaml:"store"`
	EV     int `yaml:"ev"`
	// SettingsScreen remembers the last-used settings screen so the gear
	// button returns there. Stored as an offset into the settings screens
	// (0 = storage).
	SettingsScreen int `yaml:"settings_screen"`
}

// Config is the full application configuration
type Config struct {
	Settings Settings `yaml:"settings"`
	Storage  struct {
		// Dirs are the selectable storage destinations, in radio-button
		// order (folder, boot partition, upload staging)
		Dirs []string `yaml:"dirs"`
	} `yaml:"storage"`
	Display struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
		// Rotation is the counterclockwise rotation of the camera sensor
		// from vertical, in degrees
		Rotation int `yaml:"rotation"`
	} `yaml:"display"`
	Camera struct {
		Device int `yaml:"device"`
	} `yaml:"camera"`
	Icons struct {
		Dir string `yaml:"dir"`
	} `yaml:"icons"`
}

// settingsFile is the tolerant on-disk shape: pointers so each key can be
// absent independently.
type settingsFile struct {
	Settings struct {
		Effect         *int `yaml:"fx"`
		ISO            *int `yaml:"iso"`
		Size           *int `yaml:"size"`
		Store          *int `yaml:"store"`
		EV             *int `yaml:"ev"`
		SettingsScreen *int `yaml:"settings_screen"`
	} `yaml:"settings"`
	Storage struct {
		Dirs []string `yaml:"dirs"`
	} `yaml:"storage"`
	Display struct {
		Width    *int `yaml:"width"`
		Height   *int `yaml:"height"`
		Rotation *int `yaml:"rotation"`
	} `yaml:"display"`
	Camera struct {
		Device *int `yaml:"device"`
	} `yaml:"camera"`
	Icons struct {
		Dir string `yaml:"dir"`
	} `yaml:"icons"`
}

// New returns the compiled-in default configuration
func New() *Config {
	cfg := &Config{}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg.Storage.Dirs = []string{
		filepath.Join(home, "Photos"),
		"/boot/DCIM/CANON999",
		filepath.Join(home, "Photos"),
	}

	cfg.Display.Width = ReferenceWidth
	cfg.Display.Height = ReferenceHeight
	cfg.Display.Rotation = 270

	cfg.Camera.Device = 0
	cfg.Icons.Dir = "icons"

	// Setting indices default to the first table entry, except EV which
	// starts at the middle of its table (compensation 0); the default
	// settings screen is storage
	cfg.Settings.EV = len(camera.EVTable) / 2

	return cfg
}

// DefaultPath returns the standard config file location
// (~/.config/camshot/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "camshot", "config.yaml")
}

// Load reads the config from the default location
func Load() (*Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile loads configuration from a specific file path. A missing file
// returns defaults; a corrupt file returns defaults and logs the problem.
func LoadFile(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var file settingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		log.Warnf("ignoring corrupt config %s: %v", path, err)
		return cfg, nil
	}

	merge(cfg, &file)
	return cfg, nil
}

// merge applies loaded values onto the defaults, skipping anything absent
// or out of range.
func merge(cfg *Config, file *settingsFile) {
	if len(file.Storage.Dirs) > 0 {
		cfg.Storage.Dirs = file.Storage.Dirs
	}
	if file.Display.Width != nil && *file.Display.Width > 0 {
		cfg.Display.Width = *file.Display.Width
	}
	if file.Display.Height != nil && *file.Display.Height > 0 {
		cfg.Display.Height = *file.Display.Height
	}
	if file.Display.Rotation != nil {
		cfg.Display.Rotation = *file.Display.Rotation
	}
	if file.Camera.Device != nil && *file.Camera.Device >= 0 {
		cfg.Camera.Device = *file.Camera.Device
	}
	if file.Icons.Dir != "" {
		cfg.Icons.Dir = file.Icons.Dir
	}

	applyIndex(&cfg.Settings.Effect, file.Settings.Effect, len(camera.Effects), "fx")
	applyIndex(&cfg.Settings.ISO, file.Settings.ISO, len(camera.ISOTable), "iso")
	applyIndex(&cfg.Settings.Size, file.Settings.Size, len(camera.SizeProfiles), "size")
	applyIndex(&cfg.Settings.Store, file.Settings.Store, len(cfg.Storage.Dirs), "store")
	applyIndex(&cfg.Settings.EV, file.Settings.EV, len(camera.EVTable), "ev")
	applyIndex(&cfg.Settings.SettingsScreen, file.Settings.SettingsScreen, SettingsScreenCount, "settings_screen")
}

func applyIndex(dst *int, src *int, tableLen int, name string) {
	if src == nil {
		return
	}
	if *src < 0 || *src >= tableLen {
		log.Warnf("ignoring out-of-range setting %s=%d", name, *src)
		return
	}
	*dst = *src
}

// Save writes the config to the given path, creating parent directories as
// needed. Best-effort single-file overwrite.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	log.Debugf("config saved to %s", path)
	return nil
}
