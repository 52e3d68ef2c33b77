// Package operations runs the ETL as an ordered list of steps.
//
// A Manager executes steps one at a time. Each step reads and writes the
// shared OperationState, so later steps consume what earlier ones produced
// (downloaded files, transformed record sets). The first failing step fails
// the operation and the remaining steps are marked skipped. A step may end
// the operation early and successfully by returning ErrStopOperation, which
// is how a run with no new workbooks finishes.
//
// The state of the operation in progress is available through Current and
// is served by the status endpoint while a run executes.
package operations
