package env

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/golang/glog"

	fx "github.com/robotalks/twin.go/pkg/framework"
	"github.com/robotalks/twin.go/pkg/hal"
	"github.com/robotalks/twin.go/pkg/hal/joystick"
	"github.com/robotalks/twin.go/pkg/hal/mqtt"
	"github.com/robotalks/twin.go/pkg/hal/serialport"
	"github.com/robotalks/twin.go/pkg/hal/sim"
	"github.com/robotalks/twin.go/pkg/hal/websocket"
	"github.com/robotalks/twin.go/pkg/metrics"
	"github.com/robotalks/twin.go/pkg/twin"
)

// Env is the assembled set of collaborators for a bridge.
type Env struct {
	Source   hal.ByteSource
	Servo    hal.ServoSink
	LED      hal.LEDSink
	Observer twin.Observer
	Metrics  *metrics.Observer

	// Runnables feed the source and keep connections alive.
	Runnables []fx.Runnable

	queues map[string]*mqtt.Queue
}

// SerialOpener opens serial devices. It's replaced in tests.
var SerialOpener = serialport.Open

// NewEnv builds the collaborators described by the config.
func (c *Config) NewEnv() (*Env, error) {
	e := &Env{queues: make(map[string]*mqtt.Queue)}
	if err := e.setupInput(c.InputURL); err != nil {
		return nil, err
	}
	var servos hal.ServoSinks
	var leds hal.LEDSinks
	for _, out := range c.OutputURLs {
		servo, led, err := e.setupOutput(out)
		if err != nil {
			return nil, err
		}
		servos, leds = append(servos, servo), append(leds, led)
	}
	switch len(servos) {
	case 0:
	case 1:
		e.Servo, e.LED = servos[0], leds[0]
	default:
		e.Servo, e.LED = servos, leds
	}

	e.Observer = twin.LogObserver{}
	if c.MetricsAddr != "" {
		e.Metrics = metrics.NewObserver()
		e.Observer = twin.Observers{twin.LogObserver{}, e.Metrics}
		e.Runnables = append(e.Runnables, &metrics.Server{Addr: c.MetricsAddr, Observer: e.Metrics})
	}
	return e, nil
}

// AddToLoop implements fx.LoopAdder.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(e.Runnables...)
}

// Bind points a bridge at the collaborators.
func (e *Env) Bind(b *twin.Bridge) *twin.Bridge {
	b.Source, b.Servo, b.LED, b.Observer = e.Source, e.Servo, e.LED, e.Observer
	return b
}

func (e *Env) setupInput(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "serial":
		path, opts, err := serialport.FromURL(u)
		if err != nil {
			return err
		}
		port, err := SerialOpener(path, opts)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		glog.Infof("input: serial %s %d %d%s%d", path, opts.BaudRate, opts.DataBits, opts.Parity, opts.StopBits)
		src := serialport.NewSource(port)
		e.Source = src.Ring
		e.Runnables = append(e.Runnables, src)
	case "mqtt", "tcp", "ssl":
		q, err := e.queue(rawURL)
		if err != nil {
			return err
		}
		glog.Infof("input: mqtt %s%s", q.TopicPrefix, mqtt.TopicInput)
		e.Source = mqtt.NewSource(q).Ring
	case "ws":
		src := websocket.NewSource(u.Host, u.Path)
		e.Source = src.Ring
		e.Runnables = append(e.Runnables, src)
	case "js":
		src, err := joystick.NewSource(u)
		if err != nil {
			return err
		}
		e.Source = src.Ring
		e.Runnables = append(e.Runnables, src)
	default:
		return fmt.Errorf("unsupported input %q", rawURL)
	}
	return nil
}

func (e *Env) setupOutput(rawURL string) (hal.ServoSink, hal.LEDSink, error) {
	if rawURL == "sim" {
		return &sim.Servo{}, &sim.LED{}, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, nil, err
	}
	switch u.Scheme {
	case "mqtt", "tcp", "ssl":
		q, err := e.queue(rawURL)
		if err != nil {
			return nil, nil, err
		}
		glog.Infof("output: mqtt %s{%s,%s}", q.TopicPrefix, mqtt.TopicServo, mqtt.TopicLED)
		sink := mqtt.NewSink(q)
		q.OnConnect(sink.Resync)
		return sink, sink, nil
	}
	return nil, nil, fmt.Errorf("unsupported output %q", rawURL)
}

// queue shares one connection per broker URL.
func (e *Env) queue(rawURL string) (*mqtt.Queue, error) {
	if q := e.queues[rawURL]; q != nil {
		return q, nil
	}
	role := "bridge"
	if n := len(e.queues); n > 0 {
		role += strconv.Itoa(n)
	}
	q, err := mqtt.NewQueueFromURL(rawURL, role)
	if err != nil {
		return nil, err
	}
	e.queues[rawURL] = q
	e.Runnables = append(e.Runnables, q)
	return q, nil
}
