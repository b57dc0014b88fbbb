// Package config provides configuration parsing for pagekit.
//
// The configuration is stored in pagekit.json at the project root. A
// missing file yields the defaults.
//
// # Configuration File Structure
//
//	{
//	  "addr": ":3000",
//	  "version": "1.0.0",
//	  "mountId": "app",
//	  "routes": "routes.hcl",
//	  "pages": {
//	    "dir": "frontend",
//	    "s3": { "bucket": "", "prefix": "", "region": "", "endpoint": "" }
//	  },
//	  "assets": {
//	    "manifest": "static/dist/.vite/manifest.json",
//	    "prefix": "/static/dist/",
//	    "entry": "src/app.js",
//	    "devServer": ""
//	  },
//	  "static": { "dir": "static", "prefix": "/static/" },
//	  "log": { "level": "info", "format": "text" },
//	  "metrics": { "enabled": true, "path": "/metrics" }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
