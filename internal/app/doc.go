// Package app wires the pipeline together and owns its lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration from the environment and an optional YAML file
//  2. Initialize logging and OpenTelemetry
//  3. Resolve and create the working directories
//  4. Optionally start the status listener (/metrics, /healthz, /status)
//
// # Steps
//
// A run is an operations.Manager execution of these steps:
//
//	fetch      download new releases (skipped with --skip-fetch)
//	discover   list the workbooks in the download directory; none ends the run
//	transform  reshape the bound sheets of every workbook
//	load       merge the record sets into the destination tables and audit
//	archive    move the processed workbooks away, only after a clean load
package app
