// Package config loads the games list used by the watch and tray modes.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

const (
	DefaultPollInterval   = 2 * time.Second
	DefaultToggleCooldown = 3 * time.Second

	maxConfigFileBytes int64 = 1 << 20 // 1MB
	minPollInterval          = 100 * time.Millisecond

	legacyFileName = "config.json"
	appDirName     = "hdr_controller"
	fileName       = "config.yaml"
)

// userConfigDirFn is a test seam.
var userConfigDirFn = os.UserConfigDir

// Game is a program that should run with HDR on. A process matches when its
// image name equals Exe and its full path contains Folder, both compared
// case-insensitively.
type Game struct {
	Name   string `mapstructure:"name"`
	Exe    string `mapstructure:"exe"`
	Folder string `mapstructure:"folder"`
}

// Config is the watcher configuration.
type Config struct {
	Games          []Game        `mapstructure:"games"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	ToggleCooldown time.Duration `mapstructure:"toggle_cooldown"`
	// CheckState makes the watcher consult the display HDR state before
	// forcing on/off instead of toggling blindly.
	CheckState bool `mapstructure:"check_state"`
}

func Default() *Config {
	return &Config{
		PollInterval:   DefaultPollInterval,
		ToggleCooldown: DefaultToggleCooldown,
	}
}

// DefaultPath prefers config.json in the working directory and falls back to
// the per-user config directory.
func DefaultPath() (string, error) {
	if st, err := os.Stat(legacyFileName); err == nil && !st.IsDir() {
		return filepath.Abs(legacyFileName)
	}
	dir, err := userConfigDirFn()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(dir, appDirName, fileName), nil
}

// Load reads and validates the config at path.
func Load(path string) (*Config, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "stat config")
	}
	if st.Size() > maxConfigFileBytes {
		return nil, errors.Errorf("config %s is %d bytes, limit is %d", path, st.Size(), maxConfigFileBytes)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML or JSON config text on top of the defaults.
func Parse(raw []byte) (*Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	cfg := Default()
	if len(doc) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
			ErrorUnused: true,
			Result:      cfg,
		})
		if err != nil {
			return nil, errors.Wrap(err, "build decoder")
		}
		if err := dec.Decode(doc); err != nil {
			return nil, errors.Wrap(err, "decode")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config and fills in game names.
func (c *Config) Validate() error {
	if c.PollInterval < minPollInterval {
		return errors.Errorf("poll_interval %s is below %s", c.PollInterval, minPollInterval)
	}
	if c.ToggleCooldown < 0 {
		return errors.Errorf("toggle_cooldown %s is negative", c.ToggleCooldown)
	}
	for i := range c.Games {
		g := &c.Games[i]
		g.Exe = strings.TrimSpace(g.Exe)
		if g.Exe == "" {
			return errors.Errorf("games[%d]: exe is required", i)
		}
		if strings.TrimSpace(g.Name) == "" {
			g.Name = g.Exe
		}
	}
	return nil
}
