// Package middleware provides ready-made [session.StreamMiddleware] values:
// structured logging of each generation and a per-generation timeout.
//
//	svc := session.New(provider, session.WithMiddleware(
//	    middleware.NewLoggingMiddleware(logger, middleware.LogLevelStandard),
//	    middleware.NewTimeoutMiddleware(2*time.Minute),
//	))
package middleware
