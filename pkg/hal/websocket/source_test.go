package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestSourceQueuesMessages(t *testing.T) {
	src := NewSource("", "")
	require.Equal(t, DefaultPath, src.Path)
	server := httptest.NewServer(src.Handler())
	defer server.Close()

	conn, err := websocket.Dial("ws"+strings.TrimPrefix(server.URL, "http"), "", server.URL)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, websocket.Message.Send(conn, `{"x":-0.2,"active":1}`))
	require.NoError(t, websocket.Message.Send(conn, []byte(`{"x":0,"active":0}`)))

	expected := "{\"x\":-0.2,\"active\":1}\n{\"x\":0,\"active\":0}\n"
	require.Eventually(t, func() bool {
		return src.Ring.Available() == len(expected)
	}, time.Second, 5*time.Millisecond)
	var got []byte
	for src.Ring.Available() > 0 {
		got = append(got, src.Ring.Read())
	}
	require.Equal(t, expected, string(got))
}
