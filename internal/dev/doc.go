// Package dev provides the development-mode collaborators of the template
// server.
//
// Tool implements ssr.DevTool: it injects the live-reload client into the
// template and loads the render module straight from the profile source,
// caching it until the source changes. Server ties a polling Watcher to the
// Tool and to a WebSocket ReloadServer so that saving a file invalidates the
// cached module and reloads connected browsers.
//
//	devServer := dev.NewServer(dev.Options{Config: cfg})
//	go devServer.Start(ctx)
//	srv, _ := ssr.New(ssr.Options{
//	    Runtime: rt,
//	    Dev:     devServer.Tool(),
//	    Reload:  devServer.ReloadHandler(),
//	})
package dev
