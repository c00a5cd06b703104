package line

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/twin.go/pkg/hal"
)

type framerTestSequence struct {
	in    []byte
	final Result
}

type framerTestSequenceBuilder struct {
	seq []framerTestSequence
}

func framerTestSequences() *framerTestSequenceBuilder {
	return &framerTestSequenceBuilder{}
}

func (b *framerTestSequenceBuilder) on(in string) *framerTestSequenceBuilder {
	b.seq = append(b.seq, framerTestSequence{in: []byte(in)})
	return b
}

func (b *framerTestSequenceBuilder) final(r Result) *framerTestSequenceBuilder {
	b.seq[len(b.seq)-1].final = r
	return b
}

func (b *framerTestSequenceBuilder) line(content string) *framerTestSequenceBuilder {
	return b.final(Result{Event: EventLine, Line: []byte(content)})
}

func (b *framerTestSequenceBuilder) rejected(content string) *framerTestSequenceBuilder {
	return b.final(Result{Event: EventRejected, Line: []byte(content)})
}

func (b *framerTestSequenceBuilder) build() []framerTestSequence {
	return b.seq
}

func TestFramerParse(t *testing.T) {
	testCases := []struct {
		name string
		seq  []framerTestSequence
	}{
		{
			name: "single line",
			seq: framerTestSequences().
				on(`{"x":-0.42,"active":1}` + "\n").line(`{"x":-0.42,"active":1}`).
				build(),
		},
		{
			name: "cr terminated",
			seq: framerTestSequences().
				on(`{"x":0,"active":0}` + "\r").line(`{"x":0,"active":0}`).
				build(),
		},
		{
			name: "split across reads",
			seq: framerTestSequences().
				on(`{"x":0.`).
				on(`5,"active":1}`).
				on("\n").line(`{"x":0.5,"active":1}`).
				build(),
		},
		{
			name: "trims whitespace",
			seq: framerTestSequences().
				on(`   {"x":1,"active":1}  ` + "\n").line(`{"x":1,"active":1}`).
				build(),
		},
		{
			name: "empty lines ignored",
			seq: framerTestSequences().
				on("\n\n   \r").
				build(),
		},
		{
			name: "not json",
			seq: framerTestSequences().
				on("not json at all\n").rejected("not json at all").
				on(`{"x":1,"active":1}` + "\n").line(`{"x":1,"active":1}`).
				build(),
		},
		{
			name: "control bytes filtered",
			seq: framerTestSequences().
				on("{\"x\":\x001,\"act\x7five\":1}\xff\n").line(`{"x":1,"active":1}`).
				build(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var framer Framer
			for n, s := range tc.seq {
				var last Result
				for _, b := range s.in {
					if r := framer.Parse(b); r.Event == EventLine || r.Event == EventRejected {
						last = Result{Event: r.Event, Line: append([]byte(nil), r.Line...)}
					}
				}
				require.Equalf(t, s.final, last, "seq[%d] final mismatch", n)
			}
		})
	}
}

func TestFramerControlReportedOncePerLine(t *testing.T) {
	var framer Framer
	r := framer.Parse(0x01)
	require.Equal(t, EventControlSkipped, r.Event)
	require.Equal(t, byte(0x01), r.Byte)
	require.Equal(t, EventNone, framer.Parse(0x02).Event)
	require.Equal(t, EventNone, framer.Parse('a').Event)
	require.Equal(t, EventNone, framer.Parse(0x80).Event)
	require.Equal(t, EventRejected, framer.Parse('\n').Event)
	require.Equal(t, EventControlSkipped, framer.Parse(0x1b).Event)
}

func TestFramerOverflow(t *testing.T) {
	var framer Framer
	long := strings.Repeat("{", 200)
	var events []Event
	for i := 0; i < len(long); i++ {
		if r := framer.Parse(long[i]); r.Event != EventNone {
			events = append(events, r.Event)
			require.Equal(t, Capacity, len(r.Line))
		}
		if i >= Capacity {
			require.Equal(t, 0, framer.Len())
		}
	}
	require.Equal(t, []Event{EventOverflow}, events)
	require.Equal(t, EventNone, framer.Parse('\n').Event)

	// resynchronized on the terminator.
	for _, b := range []byte(`{"x":0,"active":1}`) {
		framer.Parse(b)
	}
	r := framer.Parse('\n')
	require.Equal(t, EventLine, r.Event)
	require.Equal(t, `{"x":0,"active":1}`, string(r.Line))
}

func TestFramerCapacityBoundary(t *testing.T) {
	var framer Framer
	for i := 0; i < Capacity; i++ {
		require.Equal(t, EventNone, framer.Parse('{').Event)
	}
	require.Equal(t, Capacity, framer.Len())
	r := framer.Parse('\n')
	require.Equal(t, EventLine, r.Event)
	require.Len(t, r.Line, Capacity)
}

func TestFramerDrain(t *testing.T) {
	src := hal.NewRing(512)
	src.WriteString("{\"x\":1,\"active\":1}\r\n" + "junk\r\n" + "\r\n" + `{"x":-1,"active":0}` + "\n" + `{"x":0`)

	var results []Result
	var framer Framer
	n := framer.Drain(src, HandleResultFunc(func(r Result) {
		results = append(results, Result{Event: r.Event, Line: append([]byte(nil), r.Line...)})
	}))
	require.Equal(t, 0, src.Available())
	require.Equal(t, 54, n)
	require.Equal(t, []Result{
		{Event: EventLine, Line: []byte(`{"x":1,"active":1}`)},
		{Event: EventRejected, Line: []byte("junk")},
		{Event: EventLine, Line: []byte(`{"x":-1,"active":0}`)},
	}, results)
	require.Equal(t, 6, framer.Len())

	src.WriteString(",\"active\":0}\r")
	results = nil
	framer.Drain(src, HandleResultFunc(func(r Result) {
		results = append(results, Result{Event: r.Event, Line: append([]byte(nil), r.Line...)})
	}))
	require.Equal(t, []Result{{Event: EventLine, Line: []byte(`{"x":0,"active":0}`)}}, results)
}

func TestFramerDrainNilHandler(t *testing.T) {
	src := hal.NewRing(16)
	src.WriteString("abc\n")
	var framer Framer
	require.Equal(t, 4, framer.Drain(src, nil))
}

func TestEventString(t *testing.T) {
	require.Equal(t, "not_json", EventRejected.String())
	require.Equal(t, "overflow", EventOverflow.String())
	require.Equal(t, "unknown", Event(42).String())
}
