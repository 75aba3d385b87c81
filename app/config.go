package app

import (
	"log/slog"

	"github.com/kinetic-ui/kinetic/reactive"
	"github.com/kinetic-ui/kinetic/renderer"
	"github.com/kinetic-ui/kinetic/scheduler"
)

// Config configures an App, the host-agnostic counterpart to vango's
// Config struct (vango/config.go): session/static/API/security fields
// don't apply here (no transport in scope), but the Logger/DevMode
// fields are kept, and Logger keeps its slog.Default() fallback.
type Config struct {
	// Logger is the structured logger used by the App and handed to every
	// widget Instance it mounts. Defaults to slog.Default().
	Logger *slog.Logger

	// DevMode mirrors vango.Config.DevMode. It is carried on the Config
	// only; nothing in this module reads it.
	DevMode bool

	// Runtime is the reactive.Runtime the app's widget tree runs
	// against. Defaults to a fresh reactive.New().
	Runtime *reactive.Runtime

	// Scheduler, if set, routes every widget rebuild through its main
	// phase instead of running rebuilds synchronously
	// and inline on the triggering signal write.
	Scheduler *scheduler.Scheduler

	// RendererTracer attaches OTel spans to every applied Patch.
	RendererTracer renderer.Tracer
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Runtime == nil {
		c.Runtime = reactive.New()
	}
	return c
}
