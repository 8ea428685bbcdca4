// Package config provides configuration for introsite projects.
//
// Project configuration is stored in an optional introsite.json at the
// project root. Deployment settings (mode, port, logging) come from the
// environment and are combined with the project configuration once, at
// startup, into an immutable Runtime value that is passed explicitly to the
// server.
//
// # Configuration File Structure
//
//	{
//	  "name": "introsite",
//	  "paths": {
//	    "template": "index.html",
//	    "source": "src/profile.yaml",
//	    "client": "client",
//	    "public": "public"
//	  },
//	  "build": {
//	    "output": "dist",
//	    "exportShape": "named"
//	  },
//	  "bundle": {
//	    "candidates": ["dist/server/entry-server.json"]
//	  },
//	  "server": {
//	    "host": ""
//	  },
//	  "dev": {
//	    "hotReload": true,
//	    "watch": ["src", "client", "public", "index.html"]
//	  }
//	}
//
// # Environment
//
//   - NODE_ENV: only the literal "production" selects production mode
//   - PORT: listening port, default 3000
//   - LOG_LEVEL: debug, info, warn or error (default info)
//   - LOG_FORMAT: text or json (default text)
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rt, err := config.FromEnv(cfg, os.Getenv)
package config
