// Package build produces the production output the server runs from.
//
// # Usage
//
//	builder := build.New(cfg, build.Options{})
//	result, err := builder.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Built in %s\n", result.Duration)
//
// # Output Structure
//
//	dist/
//	├── client/
//	│   ├── index.html                 # template, script src rewritten
//	│   ├── entry-client.3f2a9c1d.js   # client bootstrap
//	│   └── assets/                    # public/ files with hashes
//	├── server/
//	│   └── entry-server.json          # render bundle
//	└── manifest.json                  # asset manifest
//
// # Manifest
//
// The manifest maps source names to their hashed outputs, relative to
// dist/client:
//
//	{
//	  "entry-client.js": "entry-client.3f2a9c1d.js",
//	  "app.css": "assets/app.8be01f42.css"
//	}
package build
