package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wrongway/engine/internal/autopilot"
	"github.com/wrongway/engine/internal/config"
	"github.com/wrongway/engine/internal/data"
	"github.com/wrongway/engine/internal/hud"
	"github.com/wrongway/engine/internal/relay"
	"github.com/wrongway/engine/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            WRONG WAY  engine              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Host ───────────────────────────────────────────────────────────

func run() error {
	// 1. Environment overrides from .env, when present
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	// 2. Load config
	cfgPath := "config/wrongway.toml"
	if p := os.Getenv("WRONGWAY_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 3. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 4. Tuning and difficulty curve
	printSection("simulation")
	tuning, err := data.LoadTuning(cfg.Simulation.Tuning)
	if err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	printOK(fmt.Sprintf("tuning %s", cfg.Simulation.Tuning))

	policy, closePolicy, err := buildPolicy(cfg.Simulation, tuning, log)
	if err != nil {
		return fmt.Errorf("spawn policy: %w", err)
	}
	defer closePolicy()
	printOK(fmt.Sprintf("spawn policy %s", cfg.Simulation.Policy))

	engine := sim.New(sim.Options{
		Tuning:  tuning,
		Policy:  policy,
		Seed:    cfg.Simulation.Seed,
		Backlog: cfg.Simulation.EventBacklog,
		Log:     log.Named("sim"),
	})
	attachAudioLog(engine, log.Named("audio"))

	// 5. Optional event relay
	var pub *relay.Publisher
	if cfg.Relay.Enabled {
		printSection("relay")
		url := cfg.Relay.URL
		if cfg.Relay.Embedded {
			srv, err := relay.NewServer(relay.WithHost(cfg.Relay.Host), relay.WithPort(cfg.Relay.Port))
			if err != nil {
				return fmt.Errorf("relay server: %w", err)
			}
			if err := srv.Start(); err != nil {
				return fmt.Errorf("relay server: %w", err)
			}
			defer srv.Shutdown()
			url = srv.ClientURL()
			printOK(fmt.Sprintf("embedded nats %s", url))
		}
		pub, err = relay.Dial(url, cfg.Relay.Subject, log.Named("relay"))
		if err != nil {
			return err
		}
		defer pub.Close()
		printOK(fmt.Sprintf("publishing on %s.>", cfg.Relay.Subject))
	}
	fmt.Println()

	// 6. Frame loop
	var pilot *autopilot.Pilot
	if cfg.Autopilot.Enabled {
		pilot = autopilot.New(cfg.Autopilot.LookAhead, cfg.Autopilot.Reaction, log.Named("autopilot"))
	}
	h := &host{
		engine:   engine,
		pilot:    pilot,
		pub:      pub,
		cfg:      cfg.Simulation,
		hudEvery: cfg.HUD.Interval,
		lang:     hud.Match(cfg.HUD.Language),
		log:      log,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	printSection("ready")
	printReady(fmt.Sprintf("frame loop (%d Hz)", cfg.Simulation.FrameRate))
	fmt.Println()

	return h.loop(shutdownCh)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
