package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/audio"
	"github.com/lixenwraith/synapse/observability"
	"github.com/lixenwraith/synapse/render"
	"github.com/lixenwraith/synapse/scene"
	"github.com/lixenwraith/synapse/status"
	"github.com/lixenwraith/synapse/vmath"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate the network in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTerminal(cmd.Context())
		},
	}
	cmd.Flags().Bool("overlay", false, "show the metrics line")
	cmd.Flags().String("glyphs", "", "quadrant or ascii")
	cmd.Flags().Bool("audio", false, "play thunder on strikes")
	_ = a.v.BindPFlag("render.overlay", cmd.Flags().Lookup("overlay"))
	_ = a.v.BindPFlag("render.glyphs", cmd.Flags().Lookup("glyphs"))
	_ = a.v.BindPFlag("audio.enabled", cmd.Flags().Lookup("audio"))
	return cmd
}

// terminal is the state of one interactive session
type terminal struct {
	screen  tcell.Screen
	surface *render.TerminalSurface
	scene   *scene.Scene
	reg     *status.Registry
	style   render.Style
	overlay bool
	buttons tcell.ButtonMask
}

func (a *app) runTerminal(ctx context.Context) error {
	// tcell owns stdout, logs go to the file sink only
	log := observability.InitializeLogger(a.cfg.Logger, nil)
	defer observability.Sync()

	sc, err := a.cfg.Scene()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mSYNAPSE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()

	rc := a.cfg.Render
	t := &terminal{
		screen:  screen,
		surface: render.NewTerminalSurface(screen, rc.CellWidth, rc.CellHeight, rc.TrueColor),
		reg:     status.NewRegistry(),
		style:   render.DefaultStyle(),
		overlay: rc.Overlay,
	}
	t.surface.SetGlyphs(a.cfg.Glyphs())
	t.surface.SetBackground(t.style.Background)

	w, h := t.surface.Size()
	t.scene = scene.New(sc, w, h, t.reg, log)

	player := audio.NewPlayer(a.cfg.AudioPlayer(), vmath.NewFastRand(uint64(time.Now().UnixNano())), log)
	if err := player.Initialize(); err == nil && player.Enabled() {
		t.scene.OnStrike(player.Strike)
	}
	defer player.Close()

	log.Info("terminal session started",
		zap.String("session", a.session),
		zap.Float64("width", w), zap.Float64("height", h),
		zap.Int("particles", sc.Particles))

	events := make(chan tcell.Event, 256)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				screen.Fini()
				fmt.Fprintf(os.Stderr, "\n\x1b[31mEVENT POLLER CRASHED: %v\x1b[0m\n", r)
				fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
				os.Exit(1)
			}
		}()
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(a.cfg.Sim.FrameInterval())
	defer ticker.Stop()
	clock := scene.SystemClock{}

	for {
		select {
		case <-ctx.Done():
			log.Info("terminal session interrupted", zap.String("session", a.session))
			return nil
		case ev := <-events:
			if !t.handle(ev) {
				log.Info("terminal session ended", zap.String("session", a.session))
				return nil
			}
		case <-ticker.C:
			t.frame(clock.Now())
		}
	}
}

func (t *terminal) frame(now time.Time) {
	snap, ok := t.scene.Tick(now)
	if !ok {
		return
	}
	render.Draw(t.surface, snap, t.style)
	if t.overlay {
		_, rows := t.surface.Grid()
		render.DrawStatus(t.surface, t.reg, rows-1, t.style)
	}
	t.surface.Flush()
}

// handle applies one terminal event, false means quit
func (t *terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				t.scene.Reset()
			case 'o':
				t.overlay = !t.overlay
			}
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		pos := t.cellCenter(col, row)
		buttons := ev.Buttons()
		if buttons&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0 {
			t.scene.Post(scene.Input{Kind: scene.InputClick, Pos: pos})
		}
		t.buttons = buttons
		t.scene.Post(scene.Input{Kind: scene.InputMove, Pos: pos})

	case *tcell.EventResize:
		t.screen.Sync()
		if t.surface.Sync() {
			w, h := t.surface.Size()
			t.scene.Post(scene.Input{Kind: scene.InputResize, Width: w, Height: h})
		}
	}
	return true
}

func (t *terminal) cellCenter(col, row int) r2.Vec {
	cw, ch := t.surface.CellSize()
	return r2.Vec{X: (float64(col) + 0.5) * cw, Y: (float64(row) + 0.5) * ch}
}
