// Package ssr is the template server: an HTTP handler that answers every
// page request with the HTML template, the render function's output
// substituted for its placeholder.
//
// In development the template and the source module are read live through a
// DevTool; in production both come from the build output and the render
// bundle is kept in memory once loaded.
//
//	srv, err := ssr.New(ssr.Options{Runtime: rt, Dev: tool})
//	if err != nil {
//	    return err
//	}
//	return srv.ListenAndServe(ctx)
//
// Failures while producing a page are answered with 500 and the error text
// as a plain-text body. The process keeps serving.
package ssr
