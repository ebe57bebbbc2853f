/*
Package observability turns proxy lifecycle events into Prometheus metrics
and structured log records.

Both producers return proxy.Hooks and can be combined with Hooks.Merge:

	metrics := observability.NewMetrics("archiscript")
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	eng, err := archiscript.Open(ctx, "model.yaml", archiscript.WithHooks(hooks))
*/
package observability
