// Package config assembles the daemon configuration from defaults, an
// optional YAML file and command-line flags, in increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	// InputDevice is the evdev path to read from; empty selects the first
	// enumerated device.
	InputDevice string `mapstructure:"input_device"`

	SerialPort string `mapstructure:"serial_port"`
	BaudRate   int    `mapstructure:"baud_rate"`

	SendRateHz      int           `mapstructure:"send_rate_hz"`
	BatteryInterval time.Duration `mapstructure:"battery_interval"`

	ListenAddr string `mapstructure:"listen_addr"`
	Debug      bool   `mapstructure:"debug"`
}

// Load parses flags (excluding the program name) and merges them with the
// config file named by --config, if any.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("roverctl", pflag.ContinueOnError)

	configFile := flags.String("config", "", "Path to YAML config file")
	flags.String("input-device", "", "Input device path (default: first /dev/input/event*)")
	flags.String("serial-port", "/dev/ttyUSB0", "Serial port of the rover driver board")
	flags.Int("baud-rate", 1000000, "Serial baud rate")
	flags.Int("send-rate-hz", 33, "Maximum speed command rate")
	flags.Duration("battery-interval", 10*time.Second, "Battery poll interval")
	flags.String("listen-addr", ":8080", "Telemetry HTTP listen address")
	flags.Bool("debug", false, "Enable debug logging")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("input_device", "")
	v.SetDefault("serial_port", "/dev/ttyUSB0")
	v.SetDefault("baud_rate", 1000000)
	v.SetDefault("send_rate_hz", 33)
	v.SetDefault("battery_interval", 10*time.Second)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("debug", false)

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Flags set on the command line override file values.
	bind := map[string]string{
		"input_device":     "input-device",
		"serial_port":      "serial-port",
		"baud_rate":        "baud-rate",
		"send_rate_hz":     "send-rate-hz",
		"battery_interval": "battery-interval",
		"listen_addr":      "listen-addr",
		"debug":            "debug",
	}
	for key, name := range bind {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			v.Set(key, flag.Value.String())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}
