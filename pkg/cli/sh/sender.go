package sh

import (
	"fmt"
	"io"
	"net/url"
	"time"

	"golang.org/x/net/websocket"

	"github.com/robotalks/twin.go/pkg/hal/mqtt"
	"github.com/robotalks/twin.go/pkg/hal/serialport"
)

// ConnectTimeout bounds connecting to a broker.
const ConnectTimeout = 5 * time.Second

// Sender delivers L0 lines to a bridge.
type Sender interface {
	io.Closer
	Send(line string) error
}

// Dial connects a Sender to the target URL, using the same URL forms
// the bridge accepts as input.
func Dial(target string) (Sender, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "serial":
		path, opts, err := serialport.FromURL(u)
		if err != nil {
			return nil, err
		}
		port, err := serialport.Open(path, opts)
		if err != nil {
			return nil, err
		}
		return &lineWriter{WriteCloser: port}, nil
	case "mqtt", "tcp", "ssl":
		q, err := mqtt.NewQueueFromURL(target, "cli")
		if err != nil {
			return nil, err
		}
		token := q.Client.Connect()
		if !token.WaitTimeout(ConnectTimeout) {
			return nil, fmt.Errorf("connect %s: timeout", u.Host)
		}
		if err := token.Error(); err != nil {
			return nil, err
		}
		return &queueSender{q: q}, nil
	case "ws", "wss":
		origin := "http://" + u.Host
		conn, err := websocket.Dial(target, "", origin)
		if err != nil {
			return nil, err
		}
		return &wsSender{conn: conn}, nil
	}
	return nil, fmt.Errorf("unsupported target %q", target)
}

type lineWriter struct {
	io.WriteCloser
}

func (w *lineWriter) Send(line string) error {
	_, err := io.WriteString(w, line+"\n")
	return err
}

type queueSender struct {
	q *mqtt.Queue
}

func (s *queueSender) Send(line string) error {
	token := s.q.Pub(mqtt.TopicInput, []byte(line))
	token.Wait()
	return token.Error()
}

func (s *queueSender) Close() error {
	return s.q.Close()
}

type wsSender struct {
	conn *websocket.Conn
}

func (s *wsSender) Send(line string) error {
	return websocket.Message.Send(s.conn, line)
}

func (s *wsSender) Close() error {
	return s.conn.Close()
}
