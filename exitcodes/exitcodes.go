// Package exitcodes defines the exit codes used by op-testreport.
package exitcodes

// * Success (0): the report was generated
// * TestFailure (1): the report was generated and --fail-on-failures found failed tests
// * RuntimeErr (2): the results or the report template could not be loaded
const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
