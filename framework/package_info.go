// Package framework contains the test-run infrastructure that the player contract suite is
// built on.
//
// There is a general notion of a test context which is similar to Go's *testing.T, allowing
// pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Tests can be selected with regex filters, and each test captures
// its own debug output, which a TestLogger can choose to show only for failed tests.
//
// The domain-specific code that knows what is being tested is responsible for providing a
// domain-specific test API on top of the test context.
package framework
