// Package errors provides structured, coded errors for introsite.
//
// Every failure the server, builder or CLI can report has a registered
// code (e.g. "E201") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation anchor
//
// # Error Categories
//
//   - config: invalid introsite.json or environment
//   - render: per-request SSR failures (missing template, missing bundle,
//     render function errors); answered with HTTP 500
//   - startup: listener failures; fatal to the process
//   - cli: build and publish failures
//
// # Usage
//
//	err := errors.New("E201").
//	    WithDetail("dist/client/index.html does not exist").
//	    WithSuggestion("Run 'introsite build' first")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E201: Template not found
//	//
//	//   dist/client/index.html does not exist
//	//
//	//   Hint: Run 'introsite build' first
package errors
