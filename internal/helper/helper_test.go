package helper

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inputmon/internal/metrics"
)

// TestMain lets the test binary stand in for the helper executable.
func TestMain(m *testing.M) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") == "1" {
		os.Exit(fakeHelper(os.Args[1:], os.Getenv("HELPER_SCRIPT")))
	}
	os.Exit(m.Run())
}

func fakeHelper(args []string, script string) int {
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "want x y, got %q\n", args)
		return 2
	}
	x, y := args[0], args[1]
	fmt.Fprintf(os.Stderr, "[helper] starting at %s,%s\n", x, y)

	switch script {
	case "drop":
		fmt.Printf(`{"event_type":"hovered","path":"/tmp/a.txt","x":%s,"y":%s}`+"\n", x, y)
		fmt.Println("not json at all")
		fmt.Println(`{"event_type":"exploded","path":null,"x":1,"y":2}`)
		fmt.Println(`{"event_type":"dropped","path":"/tmp/a.txt","x":5,"y":6}`)
		return 0
	case "wait":
		fmt.Println(`{"event_type":"hovered","path":"/tmp/b.txt","x":1,"y":1}`)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == "shutdown" {
				fmt.Println(`{"event_type":"cancelled","path":null,"x":1,"y":1}`)
				return 0
			}
		}
		return 1
	}
	return 3
}

func helperEnv(script string) []string {
	return []string{"GO_WANT_HELPER_PROCESS=1", "HELPER_SCRIPT=" + script}
}

type sink struct {
	mu   sync.Mutex
	msgs []Message
}

func (s *sink) emit(m Message) {
	s.mu.Lock()
	s.msgs = append(s.msgs, m)
	s.mu.Unlock()
}

func (s *sink) all() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.msgs...)
}

func TestParseLine(t *testing.T) {
	msg, err := ParseLine([]byte(`{"event_type":"dropped","path":"/tmp/f.txt","x":10,"y":20}`))
	require.NoError(t, err)
	assert.Equal(t, Dropped, msg.EventType)
	assert.Equal(t, "/tmp/f.txt", msg.FilePath())
	assert.Equal(t, 10.0, msg.X)
	assert.Equal(t, 20.0, msg.Y)

	msg, err = ParseLine([]byte(`{"event_type":"cancelled","path":null,"x":0,"y":0}` + "\r\n"))
	require.NoError(t, err)
	assert.Nil(t, msg.Path)
	assert.Equal(t, "", msg.FilePath())
}

func TestParseLineRejects(t *testing.T) {
	lines := []string{
		"",
		"garbage",
		`{"event_type":"dropped"`,
		`{"event_type":"dropped","path":"/a"}`,
		`{"event_type":"landed","path":"/a","x":1,"y":1}`,
		`{"event_type":"hovered","path":7,"x":1,"y":1}`,
		`{"event_type":"hovered","path":"/a","x":"1","y":1}`,
		`["hovered"]`,
	}
	for _, line := range lines {
		_, err := ParseLine([]byte(line))
		assert.ErrorIs(t, err, ErrMalformedLine, "line %q", line)
	}
}

func TestTranslate(t *testing.T) {
	tests := map[string]string{
		Hovered:   HoveredFile,
		Dropped:   DroppedFile,
		Cancelled: HoveredFileCancelled,
	}
	for in, want := range tests {
		got, ok := Translate(in)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := Translate("hovered_file")
	assert.False(t, ok)
}

func TestReadMessagesSkipsMalformed(t *testing.T) {
	m := metrics.NewInputMetrics(metrics.NewRegistry("test"))
	input := strings.Join([]string{
		`{"event_type":"hovered","path":"/x","x":1,"y":2}`,
		`oops`,
		`{"event_type":"dropped","path":"/x","x":3,"y":4}`,
	}, "\n")

	var s sink
	require.NoError(t, ReadMessages(strings.NewReader(input), s.emit, nil, m))

	got := s.all()
	require.Len(t, got, 2)
	assert.Equal(t, Hovered, got[0].EventType)
	assert.Equal(t, Dropped, got[1].EventType)
	assert.Equal(t, uint64(1), m.HelperMalformedTotal.Value())
}

func TestReadMessagesSkipsOverlongLine(t *testing.T) {
	m := metrics.NewInputMetrics(metrics.NewRegistry("test"))
	long := `{"event_type":"hovered","path":"/` + strings.Repeat("a", 2*maxLineSize) + `","x":1,"y":2}`
	input := long + "\n" + `{"event_type":"dropped","path":"/tmp/a.txt","x":1.0,"y":2.0}` + "\r\n"

	var s sink
	require.NoError(t, ReadMessages(strings.NewReader(input), s.emit, nil, m))

	got := s.all()
	require.Len(t, got, 1)
	assert.Equal(t, Dropped, got[0].EventType)
	assert.Equal(t, "/tmp/a.txt", got[0].FilePath())
	assert.Equal(t, uint64(1), m.HelperMalformedTotal.Value())
}

func TestReadMessagesOverlongFinalLine(t *testing.T) {
	m := metrics.NewInputMetrics(metrics.NewRegistry("test"))
	input := `{"event_type":"dropped","path":"/b","x":0,"y":0}` + "\n" + strings.Repeat("x", maxLineSize+1)

	var s sink
	require.NoError(t, ReadMessages(strings.NewReader(input), s.emit, nil, m))
	require.Len(t, s.all(), 1)
	assert.Equal(t, uint64(1), m.HelperMalformedTotal.Value())
}

func TestSpawnHelperExitsAfterDrop(t *testing.T) {
	m := metrics.NewInputMetrics(metrics.NewRegistry("test"))
	var s sink

	p, err := Spawn(os.Args[0], 12.5, 40, s.emit, Options{Env: helperEnv("drop"), Metrics: m})
	require.NoError(t, err)
	<-p.Exited()
	require.NoError(t, p.Shutdown())

	got := s.all()
	require.Len(t, got, 2)
	assert.Equal(t, Hovered, got[0].EventType)
	assert.Equal(t, 12.5, got[0].X)
	assert.Equal(t, 40.0, got[0].Y)
	assert.Equal(t, Dropped, got[1].EventType)
	assert.Equal(t, uint64(2), m.HelperMalformedTotal.Value())
}

func TestShutdownStopsHelper(t *testing.T) {
	var s sink
	p, err := Spawn(os.Args[0], 1, 1, s.emit, Options{Env: helperEnv("wait")})
	require.NoError(t, err)

	require.NoError(t, p.Shutdown())
	require.NoError(t, p.Shutdown())

	got := s.all()
	require.Len(t, got, 2)
	assert.Equal(t, Cancelled, got[1].EventType)
}

func TestSpawnError(t *testing.T) {
	_, err := Spawn("/nonexistent/inputmon-helper", 0, 0, func(Message) {}, Options{})
	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Equal(t, "/nonexistent/inputmon-helper", spawnErr.Path)
	assert.Contains(t, err.Error(), "spawn helper")
}
