// Package client embeds the browser bootstrap script.
package client

import _ "embed"

// EntryName is the bootstrap's file name.
const EntryName = "entry-client.js"

// EntryJS is the bootstrap the builder ships when a project has no client
// source of its own.
//
//go:embed entry-client.js
var EntryJS []byte
