// Package shared holds helpers used across packages that belong to no single
// layer.
//
// The testutil subpackage provides the in-memory slog handler used to assert
// on log output and the standard CSV dataset fixture:
//
//	func TestSomething(t *testing.T) {
//	    dir := testutil.WriteStandardDataset(t)
//	    logger, handler := testutil.NewTestLogger(t)
//	    // run code against dir, then inspect handler.GetRecords()
//	}
package shared
