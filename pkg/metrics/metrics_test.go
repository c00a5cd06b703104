package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/twin.go/pkg/hal"
	"github.com/robotalks/twin.go/pkg/l0/line"
	"github.com/robotalks/twin.go/pkg/l0/msgs"
	"github.com/robotalks/twin.go/pkg/twin"
)

func TestObserverCountsBridgeEvents(t *testing.T) {
	o := NewObserver()
	conf := *twin.Default()
	src := hal.NewRing(0)
	b := twin.NewBridge(&conf, src, nil, nil)
	b.Observer = twin.Observers{twin.LogObserver{}, o}

	src.WriteString("{\"x\":1,\"active\":1}\nhello\n{\"x\":9,\"active\":1}\n{\"x\":\"\",\"active\":1}\n\x01{\"y\":0}\n")
	b.Step()

	require.Equal(t, 4.0, testutil.ToFloat64(o.lines))
	require.Equal(t, 1.0, testutil.ToFloat64(o.linesRejected.WithLabelValues(line.EventRejected.String())))
	require.Equal(t, 1.0, testutil.ToFloat64(o.linesRejected.WithLabelValues(line.EventControlSkipped.String())))
	require.Equal(t, 1.0, testutil.ToFloat64(o.inputsRejected.WithLabelValues("bad_range")))
	require.Equal(t, 1.0, testutil.ToFloat64(o.inputsRejected.WithLabelValues("not_a_number")))
	require.Equal(t, 1.0, testutil.ToFloat64(o.inputsRejected.WithLabelValues("missing_field")))
	require.Equal(t, 1.0, testutil.ToFloat64(o.servoMoves))
	require.Equal(t, 120.0, testutil.ToFloat64(o.servoAngle))
	require.Equal(t, 1.0, testutil.ToFloat64(o.inputActive))
	require.Equal(t, 1.0, testutil.ToFloat64(o.inputX))

	o.HardwareFault("servo", errors.New("detached"))
	require.Equal(t, 1.0, testutil.ToFloat64(o.faults.WithLabelValues("servo")))
	o.Heartbeat(5001, twin.Backlog{Available: 7, Next: '{'}, b.State)
	require.Equal(t, 1.0, testutil.ToFloat64(o.heartbeats))
	require.Equal(t, 7.0, testutil.ToFloat64(o.pending))
}

func TestObserverHandler(t *testing.T) {
	o := NewObserver()
	o.InputRejected(nil, &msgs.FieldError{Field: msgs.FieldX, Err: msgs.ErrOutOfRange})

	server := httptest.NewServer(o.Handler())
	defer server.Close()
	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `twin_inputs_rejected_total{reason="bad_range"} 1`))
}
