// Package config provides configuration loading for the gstat pipeline.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file (gstat.yaml or configs/gstat.yaml, or an explicit path)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables use the GSTAT_ prefix followed by section and field:
//
//	GSTAT_LOGGING_LEVEL=debug
//	GSTAT_PATHS_DOWNLOAD_DIR=/srv/gstat/downloads
//	GSTAT_FETCH_START_YEAR=2021
//	GSTAT_DATABASE_PATH=/srv/gstat/gstat.db
//	GSTAT_TELEMETRY_METRICS_ADDR=:9090
//
// # Validation
//
// The merged configuration is checked with go-playground/validator struct
// tags. The fetch URL template must contain both {quarter} and {year}.
//
// # Paths
//
// Relative paths are resolved against paths.base_dir (or the working
// directory) by Config.ResolvePaths, which returns absolute locations for
// the download, archive, data and log directories and both SQLite files.
package config
