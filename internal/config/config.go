package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pixil98/go-errors"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Autopilot  AutopilotConfig  `toml:"autopilot"`
	HUD        HUDConfig        `toml:"hud"`
	Logging    LoggingConfig    `toml:"logging"`
	Relay      RelayConfig      `toml:"relay"`
}

type SimulationConfig struct {
	FrameRate    int           `toml:"frame_rate"`    // ticks per second
	Seed         int64         `toml:"seed"`          // 0 = from the clock
	Tuning       string        `toml:"tuning"`        // YAML tuning overrides; missing file = defaults
	ScriptsDir   string        `toml:"scripts_dir"`   // Lua difficulty scripts
	Policy       string        `toml:"policy"`        // "fixed", "scaling" or "lua"
	Sessions     int           `toml:"sessions"`      // stop after this many sessions; 0 = until signalled
	RestartDelay time.Duration `toml:"restart_delay"` // pause on the crash screen before restarting
	EventBacklog int           `toml:"event_backlog"`
}

type AutopilotConfig struct {
	Enabled   bool          `toml:"enabled"`
	LookAhead float64       `toml:"look_ahead"` // how far ahead traffic is considered
	Reaction  time.Duration `toml:"reaction"`   // minimum time between lane changes
}

type HUDConfig struct {
	Language string        `toml:"language"` // "en" or "zh-TW"
	Interval time.Duration `toml:"interval"` // 0 disables periodic HUD lines
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type RelayConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`      // ignored when embedded
	Subject  string `toml:"subject"`  // subject prefix; the event name is appended
	Embedded bool   `toml:"embedded"` // run a NATS server in-process
	Host     string `toml:"host"`     // embedded server bind host
	Port     int    `toml:"port"`     // embedded server port; -1 = random
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			FrameRate:    60,
			Tuning:       "config/tuning.yaml",
			ScriptsDir:   "scripts",
			Policy:       "scaling",
			RestartDelay: 3 * time.Second,
			EventBacklog: 1024,
		},
		Autopilot: AutopilotConfig{
			Enabled:   true,
			LookAhead: 20,
			Reaction:  150 * time.Millisecond,
		},
		HUD: HUDConfig{
			Language: "en",
			Interval: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Relay: RelayConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: "wrongway.events",
			Host:    "127.0.0.1",
			Port:    4222,
		},
	}
}

// FrameInterval is the wall time between ticks.
func (c *SimulationConfig) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameRate)
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Simulation.Validate())
	el.Add(c.Autopilot.Validate())
	el.Add(c.Logging.Validate())
	el.Add(c.Relay.Validate())

	if c.HUD.Interval < 0 {
		el.Add(fmt.Errorf("hud.interval must not be negative"))
	}

	return el.Err()
}

func (c *SimulationConfig) Validate() error {
	el := errors.NewErrorList()

	if c.FrameRate < 1 || c.FrameRate > 1000 {
		el.Add(fmt.Errorf("simulation.frame_rate %d out of range [1, 1000]", c.FrameRate))
	}
	switch c.Policy {
	case "fixed", "scaling", "lua":
	default:
		el.Add(fmt.Errorf("simulation.policy %q must be fixed, scaling or lua", c.Policy))
	}
	if c.Sessions < 0 {
		el.Add(fmt.Errorf("simulation.sessions must not be negative"))
	}
	if c.RestartDelay < 0 {
		el.Add(fmt.Errorf("simulation.restart_delay must not be negative"))
	}
	if c.EventBacklog < 0 {
		el.Add(fmt.Errorf("simulation.event_backlog must not be negative"))
	}

	return el.Err()
}

func (c *AutopilotConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Enabled && c.LookAhead <= 0 {
		el.Add(fmt.Errorf("autopilot.look_ahead must be positive"))
	}
	if c.Reaction < 0 {
		el.Add(fmt.Errorf("autopilot.reaction must not be negative"))
	}

	return el.Err()
}

func (c *LoggingConfig) Validate() error {
	el := errors.NewErrorList()

	switch c.Format {
	case "json", "console":
	default:
		el.Add(fmt.Errorf("logging.format %q must be json or console", c.Format))
	}

	return el.Err()
}

func (c *RelayConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	el := errors.NewErrorList()

	if c.Subject == "" {
		el.Add(fmt.Errorf("relay.subject is required"))
	}
	if !c.Embedded && c.URL == "" {
		el.Add(fmt.Errorf("relay.url is required unless relay.embedded is set"))
	}
	if c.Embedded && (c.Port < -1 || c.Port > 65535) {
		el.Add(fmt.Errorf("relay.port %d out of range", c.Port))
	}

	return el.Err()
}
