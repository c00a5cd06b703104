// Package metrics exports bridge diagnostics to Prometheus.
package metrics

import (
	"context"
	"net"
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fx "github.com/robotalks/twin.go/pkg/framework"
	"github.com/robotalks/twin.go/pkg/l0/line"
	"github.com/robotalks/twin.go/pkg/l0/msgs"
	"github.com/robotalks/twin.go/pkg/twin"
)

const namespace = "twin"

// Observer counts bridge events. It implements twin.Observer.
type Observer struct {
	Registry *prometheus.Registry

	lines          prometheus.Counter
	linesRejected  *prometheus.CounterVec
	inputsRejected *prometheus.CounterVec
	servoMoves     prometheus.Counter
	heartbeats     prometheus.Counter
	faults         *prometheus.CounterVec
	servoAngle     prometheus.Gauge
	inputX         prometheus.Gauge
	inputActive    prometheus.Gauge
	pending        prometheus.Gauge
}

// NewObserver creates an Observer with its own registry.
func NewObserver() *Observer {
	o := &Observer{
		Registry: prometheus.NewRegistry(),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Message lines received",
		}),
		linesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_rejected_total",
			Help:      "Lines or bytes dropped by the framer",
		}, []string{"reason"}),
		inputsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inputs_rejected_total",
			Help:      "Message lines which failed to parse",
		}, []string{"reason"}),
		servoMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "servo_moves_total",
			Help:      "Servo commands issued",
		}),
		heartbeats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "heartbeats_total",
			Help:      "Heartbeats emitted by the loop",
		}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hardware_faults_total",
			Help:      "Collaborators which failed to bind",
		}, []string{"component"}),
		servoAngle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "servo_angle",
			Help:      "Last commanded servo angle in degrees",
		}),
		inputX: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "input_x",
			Help:      "Last accepted horizontal position",
		}),
		inputActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "input_active",
			Help:      "1 while a hand is tracked",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rx_pending_bytes",
			Help:      "Received bytes not yet drained at the last heartbeat",
		}),
	}
	o.Registry.MustRegister(o.lines, o.linesRejected, o.inputsRejected,
		o.servoMoves, o.heartbeats, o.faults, o.servoAngle, o.inputX, o.inputActive, o.pending)
	return o
}

// LineReceived implements twin.Observer.
func (o *Observer) LineReceived([]byte) {
	o.lines.Inc()
}

// LineDropped implements twin.Observer.
func (o *Observer) LineDropped(r line.Result) {
	o.linesRejected.WithLabelValues(r.Event.String()).Inc()
}

// InputRejected implements twin.Observer.
func (o *Observer) InputRejected(content []byte, err error) {
	o.inputsRejected.WithLabelValues(msgs.Reason(err)).Inc()
}

// InputAccepted implements twin.Observer.
func (o *Observer) InputAccepted(state twin.State) {
	o.inputX.Set(state.Input.X)
	if state.Input.Active {
		o.inputActive.Set(1)
	} else {
		o.inputActive.Set(0)
	}
}

// ServoMoved implements twin.Observer.
func (o *Observer) ServoMoved(from, to int, state twin.State) {
	o.servoMoves.Inc()
	o.servoAngle.Set(float64(to))
}

// Heartbeat implements twin.Observer.
func (o *Observer) Heartbeat(now uint32, rx twin.Backlog, state twin.State) {
	o.heartbeats.Inc()
	o.pending.Set(float64(rx.Available))
}

// HardwareFault implements twin.Observer.
func (o *Observer) HardwareFault(component string, err error) {
	o.faults.WithLabelValues(component).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.Registry, promhttp.HandlerOpts{})
}

// Server exposes an Observer on /metrics.
type Server struct {
	Addr     string
	Observer *Observer
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "metrics"
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.Observer.Handler())
	server := &http.Server{Handler: mux}
	glog.Infof("metrics on %s/metrics", ln.Addr())
	return fx.RunWithContextCloser(ctx, server, func() error {
		return server.Serve(ln)
	})
}
