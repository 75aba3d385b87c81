package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kinetic-ui/kinetic/reactive"
	"github.com/kinetic-ui/kinetic/renderer"
	"github.com/kinetic-ui/kinetic/vnode"
	"github.com/kinetic-ui/kinetic/widget"
)

// App is Kinetic's root container: one reactive.Runtime, one root
// reactive.Scope owning the whole widget tree, and the renderer/
// scheduler wiring between a widget rebuild and the patches applied to
// a host. Grounded on vango/app.go's App struct and New(cfg Config)
// constructor, with the HTTP server/router/static-file fields dropped
// (out of scope) and the plugin/directive registries added in their
// place (spec §4.11).
type App struct {
	mu sync.Mutex

	config Config
	logger *slog.Logger

	rt        *reactive.Runtime
	rootScope *reactive.Scope
	scheduler widget.Scheduler
	renderer  *renderer.Renderer

	driver  renderer.HostDriver
	root    *widget.Instance
	current *vnode.VNode
	mctx    *renderer.MountContext

	directives map[string]vnode.Directive
}

// New creates an App from cfg, defaulting an unset Logger/Runtime.
func New(cfg Config) *App {
	cfg = cfg.withDefaults()
	a := &App{
		config:     cfg,
		logger:     cfg.Logger,
		rt:         cfg.Runtime,
		rootScope:  reactive.NewScope(nil),
		directives: make(map[string]vnode.Directive),
	}
	if cfg.Scheduler != nil {
		a.scheduler = cfg.Scheduler
	}
	rendererOpts := []renderer.Option{}
	if cfg.RendererTracer != nil {
		rendererOpts = append(rendererOpts, renderer.WithTracer(cfg.RendererTracer))
	}
	a.renderer = renderer.New(rendererOpts...)
	return a
}

// Runtime returns the reactive.Runtime the app's widget tree runs
// against.
func (a *App) Runtime() *reactive.Runtime { return a.rt }

// RootScope returns the app's root scope, the ultimate ancestor of
// every widget Instance's own scope — used for app-wide Provide calls
// and as the attachment point for plugin-installed error handlers.
func (a *App) RootScope() *reactive.Scope { return a.rootScope }

// Config returns the app's configuration.
func (a *App) Config() Config { return a.config }

// HandleError installs fn as the root scope's error handler: any
// descendant scope (every widget Instance's scope, transitively) that
// reports an error and finds no closer handler routes it here.
func (a *App) HandleError(fn func(error)) {
	a.rootScope.HandleError(fn)
}

// Provide attaches a context value visible to every widget in the
// tree, the app-wide counterpart to BuildContext.Provide.
func (a *App) Provide(key, value any) {
	a.rootScope.SetValue(key, value)
}

// Inject retrieves a context value attached with Provide (or by a
// plugin on the root scope); ok is false if none was provided.
func (a *App) Inject(key any) (value any, ok bool) {
	return a.rootScope.GetValue(key)
}

// Mount builds root for the first time under driver, creating the
// app's widget tree and attaching its host nodes via
// renderer.MountWidgetTree.
// Every subsequent rebuild (triggered by a signal the build read)
// diffs against the previous output and applies the resulting patches
// to driver automatically.
func (a *App) Mount(ctx context.Context, root widget.Widget, driver renderer.HostDriver) (*vnode.VNode, error) {
	a.mu.Lock()
	if a.root != nil {
		a.mu.Unlock()
		return nil, ErrAlreadyMounted
	}
	a.driver = driver
	a.mu.Unlock()

	opts := []widget.InstanceOption{
		widget.WithLogger(a.logger),
		widget.OnRebuild(func(next *vnode.VNode) { a.rebuild(ctx, next) }),
	}
	if a.scheduler != nil {
		opts = append(opts, widget.WithScheduler(a.scheduler))
	}

	inst := widget.NewInstance(a.rt, root, a.rootScope, opts...)
	mctx := &renderer.MountContext{
		RT:        a.rt,
		Scheduler: a.scheduler,
		Logger:    a.logger,
		Renderer:  a.renderer,
	}

	// MountBuild/MountWidgetTree/FinishMount, not inst.Mount(), so any
	// widget nested in root's output finishes its own mount (including
	// its onMounted) before this root instance's FinishMount fires its
	// own onMounted — the mount-order contract MountWidgetTree drives.
	first := inst.MountBuild()

	a.mu.Lock()
	a.root = inst
	a.current = first
	a.mctx = mctx
	a.mu.Unlock()

	// inst itself is the parent widget instance for anything nested
	// inside first's subtree, so those nested instances' scopes are
	// owned by (and disposed along with) the root instance's scope.
	renderer.MountWidgetTree(driver, mctx, inst, nil, first, 0)
	inst.FinishMount()
	return first, nil
}

func (a *App) rebuild(ctx context.Context, next *vnode.VNode) {
	a.mu.Lock()
	prev := a.current
	driver := a.driver
	mctx := a.mctx
	root := a.root
	a.mu.Unlock()
	if driver == nil {
		return
	}

	patches := renderer.Diff(prev, next)
	a.renderer.ApplyWidgetTree(ctx, driver, mctx, root, patches)

	a.mu.Lock()
	a.current = next
	a.mu.Unlock()
}

// Unmount disposes the app's root widget instance and its whole scope
// tree, removing its host nodes from driver.
func (a *App) Unmount() error {
	a.mu.Lock()
	inst := a.root
	a.mu.Unlock()
	if inst == nil {
		return ErrNotMounted
	}
	inst.Unmount()
	a.mu.Lock()
	a.root = nil
	a.current = nil
	a.mu.Unlock()
	return nil
}

// Current returns the app's most recently rendered tree.
func (a *App) Current() *vnode.VNode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}
