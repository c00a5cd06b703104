package mqtt

import (
	"bytes"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/twin.go/pkg/hal"
	"github.com/robotalks/twin.go/pkg/l0/msgs"
)

// Publisher publishes a payload to a relative topic.
type Publisher interface {
	Pub(topic string, payload []byte) paho.Token
}

// Source feeds every message on the input topic into a ring as one line.
type Source struct {
	Ring *hal.Ring
}

// NewSource creates a Source subscribed on q.
func NewSource(q *Queue) *Source {
	s := &Source{Ring: hal.NewRing(hal.DefaultRingSize)}
	q.Sub(TopicInput, s.HandleMessage)
	return s
}

// HandleMessage queues the payload as one line. A message which doesn't
// fit in the ring is dropped entirely.
func (s *Source) HandleMessage(topic string, payload []byte) {
	if !s.Ring.WriteLine(payload) {
		glog.V(3).Infof("mqtt: input dropped, ring full")
	}
}

// DefaultPublishTimeout bounds the wait for the client to accept a publish.
const DefaultPublishTimeout = 100 * time.Millisecond

// Sink mirrors the actuators to a remote twin as protobuf messages.
// Only changes are published. A value counts as published once the
// client confirms it, so anything lost while disconnected is sent again
// on the next Present.
type Sink struct {
	Publisher Publisher
	Timeout   time.Duration

	angle      int
	angleSet   bool
	angleSent  bool
	brightness uint8
	staged     hal.Frame
	sent       *msgs.LEDFrame
	stale      atomic.Bool
}

// NewSink creates a Sink.
func NewSink(pub Publisher) *Sink {
	return &Sink{Publisher: pub, Timeout: DefaultPublishTimeout}
}

// Resync makes the sink publish its current state again. It may be
// called from any goroutine, typically when the broker connection is
// established.
func (s *Sink) Resync() {
	s.stale.Store(true)
}

// SetAngle implements hal.ServoSink.
func (s *Sink) SetAngle(degrees int) {
	s.resync()
	if s.angleSent && s.angle == degrees {
		return
	}
	s.angle, s.angleSet = degrees, true
	s.publishAngle()
}

// SetBrightness implements hal.LEDSink.
func (s *Sink) SetBrightness(level uint8) {
	s.brightness = level
}

// SetFrame implements hal.LEDSink.
func (s *Sink) SetFrame(f *hal.Frame) {
	s.staged = *f
}

// Present implements hal.LEDSink. It also retries an unconfirmed angle.
func (s *Sink) Present() {
	s.resync()
	if s.angleSet && !s.angleSent {
		s.publishAngle()
	}
	m := &msgs.LEDFrame{Brightness: uint32(s.brightness), Pixels: s.staged.Bytes()}
	if s.sent != nil && s.sent.Brightness == m.Brightness && bytes.Equal(s.sent.Pixels, m.Pixels) {
		return
	}
	if s.publish(TopicLED, m) {
		s.sent = m
	}
}

func (s *Sink) resync() {
	if s.stale.CompareAndSwap(true, false) {
		s.angleSent, s.sent = false, nil
	}
}

func (s *Sink) publishAngle() {
	s.angleSent = s.publish(TopicServo, &msgs.ServoCommand{Angle: int32(s.angle)})
}

func (s *Sink) publish(topic string, m proto.Message) bool {
	payload, err := msgs.Encode(m)
	if err != nil {
		glog.Errorf("mqtt: encode %s: %v", topic, err)
		return false
	}
	token := s.Publisher.Pub(topic, payload)
	if !token.WaitTimeout(s.Timeout) {
		glog.V(3).Infof("mqtt: publish %s: timeout", topic)
		return false
	}
	if err := token.Error(); err != nil {
		glog.V(3).Infof("mqtt: publish %s: %v", topic, err)
		return false
	}
	return true
}
