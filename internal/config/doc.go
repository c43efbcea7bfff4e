// Package config provides configuration parsing for the mvvm tool.
//
// The configuration is stored in mvvm.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "mvvm"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "mvvm"
//	  },
//	  "paths": {
//	    "scenarios": "scenarios"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.NewLogger(os.Stderr)
package config
