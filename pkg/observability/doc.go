/*
Package observability turns machine events into Prometheus metrics and structured log lines.

Both are delivered as fsm.Hooks, so they compose with each other and with any caller hooks:

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	m := fsm.New[State, Conversation](Initialize,
		fsm.WithHooks(metrics.Hooks()),
		fsm.WithHooks(observability.LoggingHooks(logger)),
	)
*/
package observability
