/*
Package observability turns evaluator lifecycle events into Prometheus metrics.

Metrics owns its own registry so several engines (or tests) never collide on
the global one. Bind it with Hooks and expose it with Handler:

	m := observability.NewMetrics()
	eng, _ := regfsm.New(regfsm.WithLifecycleHooks(m.Hooks()))
	http.Handle("/metrics", m.Handler())
*/
package observability
