// Package env assembles the transports and actuators of a bridge from
// URLs given on the command line or in the environment.
package env

import (
	"flag"
	"os"
	"strings"
)

// Config defines where input comes from and where state goes.
type Config struct {
	// InputURL selects the byte source:
	// serial:///dev/ttyACM0?baud=115200, mqtt://host:1883/prefix/, ws://:8080/input
	// or js://0?axis=0&button=0.
	InputURL string
	// OutputURLs lists actuator targets: sim or mqtt://host:1883/prefix/.
	OutputURLs []string
	// MetricsAddr enables the Prometheus endpoint when not empty.
	MetricsAddr string
}

var defaultConfig = Config{
	InputURL:   "serial:///dev/ttyACM0",
	OutputURLs: []string{"sim"},
}

func init() {
	if val := os.Getenv("TWIN_INPUT"); val != "" {
		defaultConfig.InputURL = val
	}
	if val := os.Getenv("TWIN_OUTPUT"); val != "" {
		defaultConfig.OutputURLs = splitList(val)
	}
	if val := os.Getenv("TWIN_METRICS_ADDR"); val != "" {
		defaultConfig.MetricsAddr = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.InputURL, "input", defaultConfig.InputURL, "Input URL (serial://, mqtt://, ws://, js://).")
	flag.Var((*urlList)(&defaultConfig.OutputURLs), "output", "Comma separated output targets (sim, mqtt://).")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics", defaultConfig.MetricsAddr, "Address to serve Prometheus metrics.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	conf.OutputURLs = append([]string(nil), defaultConfig.OutputURLs...)
	return &conf
}

type urlList []string

func (l *urlList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *urlList) Set(val string) error {
	*l = splitList(val)
	return nil
}

func splitList(val string) (items []string) {
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return
}
