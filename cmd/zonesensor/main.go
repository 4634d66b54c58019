//go:build !tinygo

// Zonesensor runs a zone climate node on a Linux host.
//
// It reads an SHT3x over I2C, draws the node screen into a framebuffer
// (optionally snapshotted to PNG), reads the two front-panel buttons from
// GPIO and publishes a reading to the MQTT broker every interval while
// running. Configuration is a built-in device profile overlaid with a YAML
// file discovered automatically (see [config.DefaultSearchPaths]).
//
// Usage:
//
//	zonesensor [flags]               Run the node
//	zonesensor [flags] print-config  Print the effective configuration
//
// Flags:
//
//	-config <file>     YAML config file
//	-device <name>     built-in profile (zone1, zone2, dev)
//	-log-level <lvl>   trace, debug, info, warn, error
//	-log-json          JSON logs
//	-sim               simulated board; type "a" or "b" lines to press buttons
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"zonesensor-go/services/app"
	"zonesensor-go/services/config"
	"zonesensor-go/services/hal/platform"
	"zonesensor-go/x/strx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		stop()
		os.Exit(1)
	}
}

type options struct {
	configPath string
	device     string
	logLevel   string
	logJSON    bool
	sim        bool
	command    string
}

// parseArgs is hand-rolled so run has no package-level flag state.
func parseArgs(args []string) (options, error) {
	var o options
	value := func(i *int, name string) (string, error) {
		a := args[*i]
		if v, ok := strings.CutPrefix(a, name+"="); ok {
			return v, nil
		}
		if *i+1 >= len(args) {
			return "", fmt.Errorf("flag %s needs a value", name)
		}
		*i++
		return args[*i], nil
	}
	for i := 0; i < len(args); i++ {
		a := args[i]
		var err error
		switch {
		case a == "-config" || strings.HasPrefix(a, "-config="):
			o.configPath, err = value(&i, "-config")
		case a == "-device" || strings.HasPrefix(a, "-device="):
			o.device, err = value(&i, "-device")
		case a == "-log-level" || strings.HasPrefix(a, "-log-level="):
			o.logLevel, err = value(&i, "-log-level")
		case a == "-log-json":
			o.logJSON = true
		case a == "-sim":
			o.sim = true
		case a == "-h" || a == "-help" || a == "--help":
			o.command = "help"
		case !strings.HasPrefix(a, "-") && o.command == "":
			o.command = a
		default:
			return options{}, fmt.Errorf("unknown argument: %s", a)
		}
		if err != nil {
			return options{}, err
		}
	}
	return o, nil
}

// loadConfig resolves the profile, the config file and the flag overrides.
func loadConfig(o options) (config.Config, string, error) {
	path, err := config.FindConfig(o.configPath)
	if err != nil {
		return config.Config{}, "", err
	}
	cfg, err := config.Load(o.device, path)
	if err != nil {
		return config.Config{}, "", err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logJSON {
		cfg.LogJSON = true
	}
	if o.sim {
		cfg.Board.I2CBus = platform.SimBus
	}
	return cfg, path, nil
}

func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	o, err := parseArgs(args)
	if err != nil {
		return err
	}
	switch o.command {
	case "", "run", "print-config":
	case "help":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %q", o.command)
	}

	cfg, path, err := loadConfig(o)
	if err != nil {
		return err
	}
	if o.command == "print-config" {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg.Redacted()); err != nil {
			return err
		}
		return enc.Close()
	}

	log, err := config.NewLogger(stdout, cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return err
	}
	log.Info("starting zonesensor", "device", cfg.Device, "zone", cfg.Zone, "config", strx.Coalesce(path, "(built-in)"),
		"broker", cfg.MQTT.Host, "topic", cfg.MQTT.Topic)

	board, err := platform.Open(cfg.Board, log.With("svc", "platform"))
	if err != nil {
		return err
	}
	defer func() {
		if err := board.Close(); err != nil {
			log.Warn("board close", "error", err)
		}
	}()

	if err := app.Build(cfg, board, log).Run(ctx); err != nil {
		return err
	}
	log.Info("zonesensor stopped")
	return nil
}

func printUsage(w io.Writer) error {
	_, err := io.WriteString(w, `usage: zonesensor [flags] [run|print-config]

flags:
  -config <file>     YAML config file (default: first of `+strings.Join(config.DefaultSearchPaths(), ", ")+`)
  -device <name>     built-in profile: zone1, zone2, dev
  -log-level <lvl>   trace, debug, info, warn, error
  -log-json          JSON logs
  -sim               simulated board; type "a" or "b" lines to press buttons
`)
	return err
}
