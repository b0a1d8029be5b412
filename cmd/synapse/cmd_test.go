package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lixenwraith/synapse/scene"
	"github.com/lixenwraith/synapse/status"
	"github.com/lixenwraith/synapse/stream"
)

func benchConfig() scene.Config {
	cfg := scene.DefaultConfig()
	cfg.Particles = 30
	cfg.Seed = 7
	return cfg
}

func TestRunBenchSamplesEverySecond(t *testing.T) {
	res, err := runBench(benchConfig(), 3, 800, 600, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 3*benchRate+1, res.Ticks)
	assert.Len(t, res.Edges, 4)
	assert.Len(t, res.Energy, 4)
	assert.Equal(t, int64(res.Ticks), res.Registry.Counters.Get(status.KeyTicks).Load())
}

func TestRunBenchRejectsBadInput(t *testing.T) {
	_, err := runBench(benchConfig(), 0.5, 800, 600, nil)
	assert.Error(t, err)
	_, err = runBench(benchConfig(), 2, 0, 600, nil)
	assert.Error(t, err)
}

func TestRenderReport(t *testing.T) {
	res, err := runBench(benchConfig(), 2, 800, 600, nil)
	require.NoError(t, err)

	out := renderReport(res)
	assert.Contains(t, out, "synapse bench")
	assert.Contains(t, out, "edges created")
	assert.Contains(t, out, "kinetic energy")
}

func TestBenchCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"bench", "--seconds", "1", "--particles", "12", "--seed", "3", "--log-level", "error"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "synapse bench")
}

func TestUnknownGlyphsFailsConfig(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"bench", "--seconds", "1"})
	t.Setenv("SYNAPSE_RENDER_GLYPHS", "braille")

	assert.Error(t, root.Execute())
}

func TestMetricsEndpoint(t *testing.T) {
	reg := status.NewRegistry()
	reg.Counters.Get(status.KeyTicks).Store(5)
	hub := stream.NewHub("", reg, nil)
	defer hub.Close()

	srv := httptest.NewServer(newMux("/ws", hub, reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var values map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&values))
	assert.EqualValues(t, 5, values[status.KeyTicks])
}
