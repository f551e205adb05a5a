package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"compgrip/internal/eventbus"
)

// DefaultFileName is looked up in the working directory when no path is given
const DefaultFileName = "compgrip.toml"

var (
	// ErrNoTarget is returned when neither the requested platform nor the windows block is configured
	ErrNoTarget = errors.New("no install target configured for this platform")

	// ErrUnknownChannel is returned when a channel name has no url
	ErrUnknownChannel = errors.New("unknown channel")
)

// Config represents the application configuration
type Config struct {
	Name    string     `toml:"name"`
	LogFile string     `toml:"log_file"`
	Windows *OSConfig  `toml:"windows,omitempty"`
	Linux   *OSConfig  `toml:"linux,omitempty"`
	MacOS   *OSConfig  `toml:"macos,omitempty"`
	UI      UISettings `toml:"ui"`
}

// OSConfig is the install target for one platform
type OSConfig struct {
	DefaultPath        string            `toml:"default_path"`
	RelativeExecutable string            `toml:"relative_executable"`
	DefaultChannel     string            `toml:"default_channel"`
	Channels           map[string]string `toml:"channels"` // channel name -> catalogue url
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowSizes bool `toml:"show_sizes"`
	ExpandAll bool `toml:"expand_all"`
}

// Target returns the block for goos. Platforms without their own block use the windows one.
func (c *Config) Target(goos string) (*OSConfig, error) {
	var target *OSConfig
	switch goos {
	case "windows":
		target = c.Windows
	case "linux":
		target = c.Linux
	case "darwin", "macos":
		target = c.MacOS
	}
	if target == nil {
		target = c.Windows
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoTarget, goos)
	}
	return target, nil
}

// ChannelURL resolves a channel to its catalogue url. An empty channel means the default one.
func (c *Config) ChannelURL(goos, channel string) (string, error) {
	target, err := c.Target(goos)
	if err != nil {
		return "", err
	}
	if channel == "" {
		channel = target.DefaultChannel
	}
	url, ok := target.Channels[channel]
	if !ok || url == "" {
		return "", fmt.Errorf("%w %q (available: %v)", ErrUnknownChannel, channel, target.ChannelNames())
	}
	return url, nil
}

// ChannelNames lists the configured channels, sorted
func (o *OSConfig) ChannelNames() []string {
	names := make([]string, 0, len(o.Channels))
	for name := range o.Channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service backed by path, or compgrip.toml when path is empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultFileName
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service that publishes ConfigLoadedEvent
func NewConfigServiceWithBus(bus eventbus.EventBus, path string) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// Load reads the service's file. A missing file yields the defaults, which are written out
// so they can be edited.
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
		if err := cs.SaveToPath(cfg, cs.filePath); err != nil {
			log.Printf("Config: could not write defaults to %s: %v", cs.filePath, err)
		}
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		channel := ""
		if target, err := cfg.Target(runtime.GOOS); err == nil {
			channel = target.DefaultChannel
		}
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:    cs.filePath,
			Name:    cfg.Name,
			Channel: channel,
		})
	}

	return cfg, nil
}

// Save writes the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Unset fields keep their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	// platform blocks come from the file only
	cfg.Windows = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	log.Printf("Config: loaded %s (name=%q)", path, cfg.Name)
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Name:    "Flashpoint Launcher",
		LogFile: "compgrip.log",
		Windows: &OSConfig{
			DefaultPath:        "C:/Flashpoint",
			RelativeExecutable: "./Launcher/Flashpoint.exe",
			DefaultChannel:     "Stable",
			Channels: map[string]string{
				"Stable": "https://nexus-dev.unstable.life/repository/components-test/components.xml",
			},
		},
		UI: UISettings{
			ShowSizes: true,
		},
	}
}
