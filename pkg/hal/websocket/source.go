// Package websocket accepts L0 input from browser gesture frontends.
package websocket

import (
	"context"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/twin.go/pkg/framework"
	"github.com/robotalks/twin.go/pkg/hal"
)

// DefaultPath is where the input endpoint is served.
const DefaultPath = "/input"

// Source queues every websocket message as one input line.
type Source struct {
	Addr string
	Path string
	Ring *hal.Ring
}

// NewSource creates a Source listening on addr.
func NewSource(addr, path string) *Source {
	if path == "" {
		path = DefaultPath
	}
	return &Source{Addr: addr, Path: path, Ring: hal.NewRing(hal.DefaultRingSize)}
}

// Name implements framework.Named.
func (s *Source) Name() string {
	return "websocket"
}

// Handler serves the websocket endpoint.
func (s *Source) Handler() http.Handler {
	return websocket.Handler(s.serve)
}

// Run implements framework.Runnable.
func (s *Source) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle(s.Path, s.Handler())
	server := &http.Server{Handler: mux}
	glog.Infof("websocket input on %s%s", ln.Addr(), s.Path)
	return fx.RunWithContextCloser(ctx, server, func() error {
		return server.Serve(ln)
	})
}

func (s *Source) serve(conn *websocket.Conn) {
	defer conn.Close()
	glog.V(1).Infof("websocket client %s connected", conn.Request().RemoteAddr)
	for {
		var msg []byte
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			glog.V(1).Infof("websocket client %s: %v", conn.Request().RemoteAddr, err)
			return
		}
		if !s.Ring.WriteLine(msg) {
			glog.V(3).Infof("websocket: input dropped, ring full")
		}
	}
}
