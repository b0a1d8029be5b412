package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/synapse/observability"
	"github.com/lixenwraith/synapse/scene"
	"github.com/lixenwraith/synapse/status"
)

const benchRate = 60

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// benchResult is what a headless run measured, sampled once per simulated second
type benchResult struct {
	Seconds  float64
	Ticks    int
	Wall     time.Duration
	Edges    []float64
	Energy   []float64
	Registry *status.Registry
}

func newBenchCmd(a *app) *cobra.Command {
	var seconds, width, height float64
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the scene headless at a fixed step and report",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := a.cfg.Scene()
			if err != nil {
				return err
			}
			log := observability.InitializeLogger(a.cfg.Logger, os.Stderr)
			defer observability.Sync()

			res, err := runBench(sc, seconds, width, height, log)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderReport(res))
			return nil
		},
	}
	cmd.Flags().Float64Var(&seconds, "seconds", 30, "simulated seconds")
	cmd.Flags().Float64Var(&width, "width", 1280, "scene width")
	cmd.Flags().Float64Var(&height, "height", 720, "scene height")
	return cmd
}

func runBench(sc scene.Config, seconds, width, height float64, log *zap.Logger) (benchResult, error) {
	if seconds < 1 {
		return benchResult{}, errors.New("bench needs at least one simulated second")
	}
	if width <= 0 || height <= 0 {
		return benchResult{}, errors.New("bench needs a positive scene size")
	}

	res := benchResult{Seconds: seconds, Registry: status.NewRegistry()}
	s := scene.New(sc, width, height, res.Registry, log)
	energy := res.Registry.Gauges.Get(status.KeyEnergy)

	clock := scene.NewManualClock(time.Unix(0, 0))
	step := time.Second / benchRate
	ticks := int(seconds * benchRate)

	start := time.Now()
	for i := 0; i <= ticks; i++ {
		snap, ok := s.Tick(clock.Now())
		if ok && i%benchRate == 0 {
			res.Edges = append(res.Edges, float64(len(snap.Edges)))
			res.Energy = append(res.Energy, energy.Get())
		}
		clock.Advance(step)
		res.Ticks++
	}
	res.Wall = time.Since(start)
	return res, nil
}

func renderReport(r benchResult) string {
	counter := func(key string) int64 { return r.Registry.Counters.Get(key).Load() }
	perTick := time.Duration(0)
	if r.Ticks > 0 {
		perTick = r.Wall / time.Duration(r.Ticks)
	}

	rows := []struct{ label, value string }{
		{"simulated", fmt.Sprintf("%.0fs / %d ticks", r.Seconds, r.Ticks)},
		{"wall", fmt.Sprintf("%s (%s per tick)", r.Wall.Round(time.Millisecond), perTick)},
		{"edges created", fmt.Sprint(counter(status.KeyEdgesCreated))},
		{"edges removed", fmt.Sprint(counter(status.KeyEdgesRemoved))},
		{"waves", fmt.Sprint(counter(status.KeyWavesTotal))},
		{"strikes", fmt.Sprint(counter(status.KeyStrikes))},
		{"resets", fmt.Sprint(counter(status.KeyResets))},
	}
	var stats strings.Builder
	for i, row := range rows {
		if i > 0 {
			stats.WriteByte('\n')
		}
		stats.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", row.label)))
		stats.WriteString(valueStyle.Render(row.value))
	}

	edges := asciigraph.Plot(r.Edges, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("edges"))
	energy := asciigraph.Plot(r.Energy, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("kinetic energy"))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("synapse bench"),
		panelStyle.Render(stats.String()),
		lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(edges), panelStyle.Render(energy)),
	)
}
