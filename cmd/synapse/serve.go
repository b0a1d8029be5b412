package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/synapse/observability"
	"github.com/lixenwraith/synapse/scene"
	"github.com/lixenwraith/synapse/status"
	"github.com/lixenwraith/synapse/stream"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var width, height float64
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream snapshots to browser clients over WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), width, height)
		},
	}
	cmd.Flags().Float64Var(&width, "width", 1280, "scene width")
	cmd.Flags().Float64Var(&height, "height", 720, "scene height")
	cmd.Flags().String("addr", "", "listen address")
	_ = a.v.BindPFlag("stream.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) serve(ctx context.Context, width, height float64) error {
	log := observability.InitializeLogger(a.cfg.Logger, os.Stderr)
	defer observability.Sync()

	sc, err := a.cfg.Scene()
	if err != nil {
		return err
	}

	reg := status.NewRegistry()
	hub := stream.NewHub(a.session, reg, log)
	defer hub.Close()

	s := scene.New(sc, width, height, reg, log)
	hub.OnInput = func(in scene.Input) { s.Post(in) }

	srv := &http.Server{
		Addr:              a.cfg.Stream.Addr,
		Handler:           newMux(a.cfg.Stream.Path, hub, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		s.Run(ctx, scene.SystemClock{}, a.cfg.Sim.FrameInterval(), hub.Publish)
	}()

	log.Info("stream server started",
		zap.String("session", a.session),
		zap.String("addr", a.cfg.Stream.Addr),
		zap.String("path", a.cfg.Stream.Path))

	var serveErr error
	select {
	case <-ctx.Done():
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("listen: %w", err)
		}
	}

	s.Stop()
	<-loopDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("stream server shutdown", zap.Error(err))
	}
	log.Info("stream server stopped", zap.Int64("dropped", hub.Dropped()))
	return serveErr
}

func newMux(path string, hub *stream.Hub, reg *status.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(path, hub)
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reg.Values())
	})
	return mux
}
