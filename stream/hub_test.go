package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/graph"
	"github.com/lixenwraith/synapse/lightning"
	"github.com/lixenwraith/synapse/scene"
	"github.com/lixenwraith/synapse/status"
)

func testSnapshot() scene.Snapshot {
	return scene.Snapshot{
		Time:   1.5,
		Width:  800,
		Height: 600,
		Particles: []scene.ParticleView{
			{Pos: r2.Vec{X: 10, Y: 20}, Pulse: 0.5},
			{Pos: r2.Vec{X: 30, Y: 40}},
		},
		Edges: []graph.Edge{{I: 0, J: 1, Activity: 0.25}},
		Lightning: []lightning.Segment{
			{Nodes: []int{0, 1}, Color: core.RGB{R: 255, G: 128, B: 0}, Alpha: 0.5, Energy: 0.7},
		},
		Mode: lightning.Burst,
	}
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestNewFrame(t *testing.T) {
	f := NewFrame("s", 3, testSnapshot())
	assert.Equal(t, TypeFrame, f.Type)
	assert.Equal(t, uint64(3), f.Seq)
	assert.Equal(t, "burst", f.Mode)
	assert.Equal(t, [][3]float64{{10, 20, 0.5}, {30, 40, 0}}, f.Particles)
	assert.Equal(t, [][3]float64{{0, 1, 0.25}}, f.Edges)
	require.Len(t, f.Lightning, 1)
	assert.Equal(t, "#ff8000", f.Lightning[0].Color)
	assert.Equal(t, []int{0, 1}, f.Lightning[0].Nodes)
}

func TestHubSession(t *testing.T) {
	hub := NewHub("", nil, zaptest.NewLogger(t))
	defer hub.Close()
	_, err := uuid.Parse(hub.Session())
	assert.NoError(t, err)

	named := NewHub("abc", nil, zaptest.NewLogger(t))
	defer named.Close()
	assert.Equal(t, "abc", named.Session())
}

func TestHubDeliversHelloAndFrames(t *testing.T) {
	reg := status.NewRegistry()
	hub := NewHub("", reg, zaptest.NewLogger(t))
	defer hub.Close()

	hub.Publish(testSnapshot())
	conn := dial(t, hub)

	var hello Hello
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, TypeHello, hello.Type)
	assert.Equal(t, hub.Session(), hello.Session)
	assert.Equal(t, 800.0, hello.Width)
	assert.Equal(t, 2, hello.Particles)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), reg.Counters.Get(status.KeyClients).Load())

	hub.Publish(testSnapshot())
	// The first publish may still be in flight when the client registers
	var frame Frame
	for frame.Seq < 2 {
		require.NoError(t, conn.ReadJSON(&frame))
	}
	assert.Equal(t, TypeFrame, frame.Type)
	assert.Equal(t, hub.Session(), frame.Session)
	assert.Equal(t, uint64(2), frame.Seq)
	assert.Len(t, frame.Particles, 2)
}

func TestHubForwardsClientInput(t *testing.T) {
	hub := NewHub("", nil, zaptest.NewLogger(t))
	defer hub.Close()

	got := make(chan scene.Input, 2)
	hub.OnInput = func(in scene.Input) { got <- in }

	conn := dial(t, hub)
	var hello Hello
	require.NoError(t, conn.ReadJSON(&hello))

	require.NoError(t, conn.WriteJSON(Message{Type: TypeClick, X: 5, Y: 6}))
	require.NoError(t, conn.WriteJSON(Message{Type: "unknown"}))
	require.NoError(t, conn.WriteJSON(Message{Type: TypeMove, X: 7, Y: 8}))

	select {
	case in := <-got:
		assert.Equal(t, scene.InputClick, in.Kind)
		assert.Equal(t, r2.Vec{X: 5, Y: 6}, in.Pos)
	case <-time.After(2 * time.Second):
		t.Fatal("click not forwarded")
	}
	select {
	case in := <-got:
		assert.Equal(t, scene.InputMove, in.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("move not forwarded")
	}
}

func TestHubClientLeaves(t *testing.T) {
	hub := NewHub("", nil, zaptest.NewLogger(t))
	defer hub.Close()

	conn := dial(t, hub)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHubCloseDisconnects(t *testing.T) {
	hub := NewHub("", nil, zaptest.NewLogger(t))
	conn := dial(t, hub)

	var hello Hello
	require.NoError(t, conn.ReadJSON(&hello))
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Close())
	require.NoError(t, hub.Close())

	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.Clients())
}

func TestPublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub("", nil, zaptest.NewLogger(t))
	defer hub.Close()

	done := make(chan struct{})
	go func() {
		for range 100 {
			hub.Publish(testSnapshot())
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked")
	}

	raw, err := json.Marshal(NewFrame(hub.Session(), 1, testSnapshot()))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"frame"`)
}
