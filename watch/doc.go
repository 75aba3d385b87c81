// Package watch implements explicit source watching on top of the
// reactive package's Effect: unlike a bare effect, a Watch callback
// receives the old and new value of whatever it watches and, by
// default, does not run until the source actually changes — grounded on
// vango/pkg/vango/effect.go's Effect/OnUpdate "skip first run unless
// immediate" pattern, generalized to explicit sources instead of
// ambient dependency capture.
package watch
