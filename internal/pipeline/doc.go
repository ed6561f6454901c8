// Package pipeline runs the load and build steps as one explicit invocation.
//
// Runner.Run takes the data directory as a parameter and returns a Result
// tagged ready or no-data, so callers never infer failure from a nil table.
// Each run is stamped with a run id that the logger emits as trace_id.
package pipeline
