// Package shared holds helpers used across packages that belong to no single
// layer.
//
// The testutil subpackage provides:
//
//   - a capturing slog handler with assertions on recorded messages
//   - workbook builders that write release-shaped .xlsx files
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    path := testutil.WriteWorkbook(t, dir, "ITR Q32023A.xlsx", sheets)
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelWarn, "Sheet skipped")
//	}
package shared
