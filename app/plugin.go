package app

import "github.com/kinetic-ui/kinetic/vnode"

// Plugin extends an App when passed to Use — registering directives,
// providing root-scope context values, or wiring additional
// instrumentation. Grounded on the install-callback shape vango's
// middleware constructors use (e.g. pkg/middleware/otel.go's
// config-then-construct pattern), generalized into an explicit
// interface since Kinetic has no HTTP middleware chain to hang plugins
// off of.
type Plugin interface {
	Install(a *App)
}

// PluginFunc adapts a plain function into a Plugin.
type PluginFunc func(a *App)

func (f PluginFunc) Install(a *App) { f(a) }

// Use registers plugins, running Install on each immediately in order.
// Use can be called both before and after Mount; plugins that need the
// root scope to exist should read a.RootScope() from inside Install.
func (a *App) Use(plugins ...Plugin) error {
	for _, p := range plugins {
		if p == nil {
			return ErrNilPlugin
		}
		p.Install(a)
	}
	return nil
}

// Directive registers a named directive, available to any widget's
// BuildContext via vnode.DirectiveBinding once looked up through
// LookupDirective.
func (a *App) Directive(name string, d vnode.Directive) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.directives[name]; exists {
		return ErrDirectiveExists
	}
	a.directives[name] = d
	return nil
}

// LookupDirective retrieves a directive registered via Directive.
func (a *App) LookupDirective(name string) (vnode.Directive, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	d, ok := a.directives[name]
	return d, ok
}
