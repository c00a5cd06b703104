package twin

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config defines the calibration of the actuators and the loop timing.
type Config struct {
	AngleMin    int `toml:"angle_min"`
	AngleCenter int `toml:"angle_center"`
	AngleMax    int `toml:"angle_max"`

	BrightnessMin int `toml:"brightness_min"`
	BrightnessMax int `toml:"brightness_max"`

	LoopIntervalMs      int `toml:"loop_interval_ms"`
	HeartbeatIntervalMs int `toml:"heartbeat_interval_ms"`
	BringUpPauseMs      int `toml:"bringup_pause_ms"`
	// InputTimeoutMs releases an active gesture when no valid input
	// arrives for that long. 0 disables it.
	InputTimeoutMs int `toml:"input_timeout_ms"`

	// SkipBringUp disables the servo range test and startup animation.
	SkipBringUp bool `toml:"skip_bringup"`
}

// MaxServoAngle is the travel limit of a hobby servo.
const MaxServoAngle = 180

var defaultConfig = Config{
	AngleMin:            60,
	AngleCenter:         90,
	AngleMax:            120,
	BrightnessMin:       50,
	BrightnessMax:       100,
	LoopIntervalMs:      1,
	HeartbeatIntervalMs: 5000,
	BringUpPauseMs:      500,
}

var calibrationFile string

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&calibrationFile, "calibration", calibrationFile, "TOML file overriding calibration defaults.")
	flag.IntVar(&defaultConfig.AngleMin, "angle-min", defaultConfig.AngleMin, "Servo angle for full left.")
	flag.IntVar(&defaultConfig.AngleCenter, "angle-center", defaultConfig.AngleCenter, "Servo angle when idle.")
	flag.IntVar(&defaultConfig.AngleMax, "angle-max", defaultConfig.AngleMax, "Servo angle for full right.")
	flag.IntVar(&defaultConfig.BrightnessMin, "brightness-min", defaultConfig.BrightnessMin, "LED brightness at center input.")
	flag.IntVar(&defaultConfig.BrightnessMax, "brightness-max", defaultConfig.BrightnessMax, "LED brightness at full input.")
	flag.IntVar(&defaultConfig.LoopIntervalMs, "loop-interval", defaultConfig.LoopIntervalMs, "Pause between loop iterations in milliseconds.")
	flag.IntVar(&defaultConfig.InputTimeoutMs, "input-timeout", defaultConfig.InputTimeoutMs, "Release the gesture after this many milliseconds without input, 0 to hold.")
	flag.BoolVar(&defaultConfig.SkipBringUp, "skip-bringup", defaultConfig.SkipBringUp, "Skip servo range test and startup animation.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// CalibrationFile returns the calibration file given on the command line.
func CalibrationFile() string {
	return calibrationFile
}

// NewConfig creates a config with defaults, applying the calibration
// file given on the command line, if any.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	if calibrationFile != "" {
		if err := conf.LoadFile(calibrationFile); err != nil {
			return nil, err
		}
	}
	return &conf, conf.Validate()
}

// LoadFile overrides fields present in a TOML file.
func (c *Config) LoadFile(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("calibration %s: %w", fn, err)
	}
	return nil
}

// Validate checks the calibration is consistent.
func (c *Config) Validate() error {
	if c.AngleMin < 0 || c.AngleMax > MaxServoAngle {
		return fmt.Errorf("servo angles must be within [0, %d]", MaxServoAngle)
	}
	if c.AngleMin > c.AngleCenter || c.AngleCenter > c.AngleMax {
		return fmt.Errorf("servo angles must satisfy min %d <= center %d <= max %d", c.AngleMin, c.AngleCenter, c.AngleMax)
	}
	if c.BrightnessMin < 0 || c.BrightnessMin > c.BrightnessMax || c.BrightnessMax > 255 {
		return fmt.Errorf("brightness must satisfy 0 <= min %d <= max %d <= 255", c.BrightnessMin, c.BrightnessMax)
	}
	if c.LoopIntervalMs < 0 || c.HeartbeatIntervalMs < 0 || c.BringUpPauseMs < 0 || c.InputTimeoutMs < 0 {
		return fmt.Errorf("intervals must not be negative")
	}
	return nil
}

// LoopInterval is the pause at the end of every loop iteration.
func (c *Config) LoopInterval() time.Duration {
	return time.Duration(c.LoopIntervalMs) * time.Millisecond
}

// BringUpPause is the settle time after each bring-up servo move.
func (c *Config) BringUpPause() time.Duration {
	return time.Duration(c.BringUpPauseMs) * time.Millisecond
}
