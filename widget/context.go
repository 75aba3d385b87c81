package widget

// Provide attaches a context value visible to this widget and all of
// its descendants, grounded on vango/pkg/vango/context.go's
// Owner.SetValue (here the owner is the widget's reactive.Scope).
func (c *BuildContext) Provide(key, value any) {
	c.scope.SetValue(key, value)
}

// Inject retrieves a context value from the nearest ancestor (including
// this widget) that provided key, walking up the scope chain exactly
// as vango/pkg/vango/context.go's Owner.GetValue walks the owner
// chain. ok is false if no ancestor has provided key.
func (c *BuildContext) Inject(key any) (value any, ok bool) {
	return c.scope.GetValue(key)
}

// Context is a typed provide/inject key pair, the generic counterpart
// to the untyped Provide/Inject above — grounded on
// vango/pkg/vango/context_api.go's Context[T]/CreateContext/Use.
type Context[T any] struct {
	key          any
	defaultValue T
}

type contextKey[T any] struct{ ctx *Context[T] }

// NewContext creates a typed Context carrying defaultValue, returned by
// Use when no ancestor has called Provide on it.
func NewContext[T any](defaultValue T) *Context[T] {
	ctx := &Context[T]{defaultValue: defaultValue}
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Provide attaches value to ctx, visible to this widget and its
// descendants.
func (ctx *Context[T]) Provide(c *BuildContext, value T) {
	c.Provide(ctx.key, value)
}

// Use retrieves ctx's value from the nearest ancestor that called
// Provide, or ctx's default value if none did.
func (ctx *Context[T]) Use(c *BuildContext) T {
	if v, ok := c.Inject(ctx.key); ok {
		return v.(T)
	}
	return ctx.defaultValue
}
