// Package render converts vdom trees into HTML fragments.
//
// Output is deterministic: attributes are written in sorted order, text and
// attribute values are escaped, and void elements are written without a
// closing tag. Elements that carry event handlers receive a sequential
// hydration ID (data-hid="h1", "h2", ...) and one data-on-<event> marker per
// handler; the handlers themselves are collected and never serialised.
//
//	html, err := render.RenderToString(node)
//
// A Renderer numbers hydration IDs from h1 for every top-level render, so the
// same tree always produces the same bytes.
package render
