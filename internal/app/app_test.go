package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/pysym/internal/adapters/socket"
	"github.com/corey/pysym/internal/config"
	"github.com/corey/pysym/internal/ports"
	"github.com/corey/pysym/internal/protocol"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("PYSYM_HOME", t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	a, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Stop() })
	return a
}

func TestApp_BackendsWithoutPrimary(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, []string{ports.BackendPyscan}, a.Backends())
}

func TestApp_EndToEnd(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Start())

	client := socket.NewClient(a.SocketPath())
	require.True(t, client.Ping())

	resp, err := client.Parse(protocol.Request{
		Action:  protocol.ActionParseTopLevel,
		Content: "class C:\n    pass\n",
		Parser:  "auto",
	})
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Len(t, resp.Symbols, 1)
	assert.Equal(t, "class", resp.Symbols[0].Kind)
	assert.Equal(t, "C", resp.Symbols[0].Name)

	stats, err := client.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.Requests)
	assert.Equal(t, uint64(1), stats.OK)

	require.NoError(t, a.Stop())
	assert.False(t, client.Ping())
}

func TestApp_SocketPathOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PYSYM_HOME", dir)
	t.Setenv("PYSYM_SOCKET", dir+"/custom.sock")

	cfg, err := config.Load("")
	require.NoError(t, err)

	a, err := New(cfg, nil)
	require.NoError(t, err)
	defer a.Stop()

	assert.Equal(t, dir+"/custom.sock", a.SocketPath())
}
