// Package playertests contains the player contract tests themselves and their supporting API.
//
// Test harness infrastructure that is not specific to players, such as test contexts, filters
// and result reporting, is in the lower-level framework package. The HTTP operations the tests
// drive are in playerapi.
package playertests
