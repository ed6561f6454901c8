// Package config provides configuration management for the order analytics
// pipeline. It loads settings from multiple sources, validates them, and names
// the dataset files the loader expects.
//
// # Configuration Sources
//
// Configuration is resolved in the following order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (olist.yaml or configs/olist.yaml, or --config)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern OLIST_<SECTION>_<FIELD>:
//
//	OLIST_DATA_DIR=data/raw
//	OLIST_LOGGING_LEVEL=debug
//	OLIST_REPORT_TOP_CATEGORIES=10
//	OLIST_TELEMETRY_TRACING=true
//
// # Dataset Files
//
// The seven input files are read by fixed name from the data directory; see
// DatasetFiles for the list and load order.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := config.NewPaths(cfg.Data.Dir)
package config
