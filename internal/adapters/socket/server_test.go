package socket

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/pysym/internal/adapters/pyscan"
	"github.com/corey/pysym/internal/extract"
	"github.com/corey/pysym/internal/ports"
	"github.com/corey/pysym/internal/protocol"
)

type memStats struct {
	outcomes []ports.RequestOutcome
}

func (m *memStats) Record(out ports.RequestOutcome) error {
	m.outcomes = append(m.outcomes, out)
	return nil
}

func (m *memStats) Snapshot() (ports.UsageStats, error) {
	stats := ports.UsageStats{
		Errors:  map[string]uint64{},
		Parsers: map[string]uint64{},
	}
	for _, out := range m.outcomes {
		stats.Requests++
		if out.OK {
			stats.OK++
		} else if out.ErrorKind != "" {
			stats.Errors[out.ErrorKind]++
		}
		if out.Parser != "" {
			stats.Parsers[out.Parser]++
		}
	}
	return stats, nil
}

func (m *memStats) Close() error { return nil }

func startTestServer(t *testing.T, stats ports.StatsStore) (*Server, *Client) {
	t.Helper()

	handler := protocol.NewHandler(extract.New(ports.BackendTreeSitter, nil, pyscan.New()))
	sockPath := filepath.Join(t.TempDir(), "test.sock")

	srv := NewServer(handler, stats, []string{ports.BackendPyscan}, sockPath)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	return srv, NewClient(sockPath)
}

func TestServer_Parse(t *testing.T) {
	_, client := startTestServer(t, nil)

	resp, err := client.Parse(protocol.Request{
		Action:  protocol.ActionParseTopLevel,
		Content: "def f():\n    pass\n",
		Parser:  "auto",
	})
	require.NoError(t, err)
	require.True(t, resp.OK, "error: %s %s", resp.Error, resp.Detail)
	assert.Equal(t, "pyscan", resp.Parser)
	require.Len(t, resp.Symbols, 1)
	assert.Equal(t, "f", resp.Symbols[0].Name)
	assert.Equal(t, "def f():\n    pass", resp.Symbols[0].Body)
}

func TestServer_ParseErrorStaysInResult(t *testing.T) {
	_, client := startTestServer(t, nil)

	resp, err := client.Parse(protocol.Request{
		Action:  protocol.ActionParseTopLevel,
		Content: "def broken(:\n",
		Parser:  "pyscan",
	})
	require.NoError(t, err, "pipeline failures are not transport errors")
	assert.False(t, resp.OK)
	assert.Equal(t, "syntax_error", resp.Error)
}

func TestServer_Health(t *testing.T) {
	_, client := startTestServer(t, nil)

	health, err := client.Health()
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, []string{ports.BackendPyscan}, health.Backends)
	assert.NotEmpty(t, health.Uptime)
}

func TestServer_Stats(t *testing.T) {
	stats := &memStats{}
	_, client := startTestServer(t, stats)

	_, err := client.Parse(protocol.Request{
		Action:  protocol.ActionParseTopLevel,
		Content: "x = 1\n",
		Parser:  "auto",
	})
	require.NoError(t, err)
	_, err = client.Parse(protocol.Request{
		Action:  protocol.ActionParseTopLevel,
		Content: "def broken(:\n",
		Parser:  "pyscan",
	})
	require.NoError(t, err)

	snapshot, err := client.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snapshot.Requests)
	assert.Equal(t, uint64(1), snapshot.OK)
	assert.Equal(t, uint64(1), snapshot.Errors["syntax_error"])
	assert.Equal(t, uint64(2), snapshot.Parsers["pyscan"])
}

func TestServer_StatsUnavailable(t *testing.T) {
	_, client := startTestServer(t, nil)

	_, err := client.Stats()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stats not available")
}

func TestServer_UnknownMethod(t *testing.T) {
	_, client := startTestServer(t, nil)

	_, err := client.call(Request{ID: "1", Method: "bogus"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown method"), err.Error())
}

func TestServer_Shutdown(t *testing.T) {
	srv, client := startTestServer(t, nil)

	require.True(t, client.Ping())
	require.NoError(t, client.Shutdown())

	select {
	case <-srv.ShutdownCh():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown channel never closed")
	}

	srv.Stop()
	assert.False(t, client.Ping())
}

func TestServer_RejectsSecondInstance(t *testing.T) {
	srv, _ := startTestServer(t, nil)

	dup := NewServer(nil, nil, nil, srv.Addr())
	err := dup.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestSocketPath_Deterministic(t *testing.T) {
	a := SocketPath("/some/state/dir")
	b := SocketPath("/some/state/dir")
	c := SocketPath("/other/dir")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "/tmp/pysym-"))
	assert.True(t, strings.HasSuffix(a, ".sock"))
}
