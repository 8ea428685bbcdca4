// Package middleware provides the net/http middleware the server is wrapped
// in: OpenTelemetry tracing, Prometheus metrics and a slog access log.
//
// All three are func(http.Handler) http.Handler and compose with chi:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Tracing())
//	r.Use(metrics.Handler)
//	r.Use(middleware.AccessLog(logger))
//
// Labels use the chi route pattern rather than the raw path, so the
// catch-all page route reports as "/*" and cardinality stays bounded.
package middleware
