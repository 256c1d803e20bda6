package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/player-qa/player-contract-tests/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	serviceURL string
	env        string
	configDir  string
	filters    framework.RegexFilters
	debug      bool
	debugAll   bool
	twin       bool
	twinPort   int
	logLevel   string
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&c.serviceURL, "url", "", "player service base URL (overrides base.url from the configuration)")
	fs.StringVar(&c.env, "env", "", "environment name that selects <env>-config.properties (default $TEST_ENVIRONMENT, then dev)")
	fs.StringVar(&c.configDir, "config-dir", ".", "directory containing the properties files")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.twin, "twin", false, "start the built-in fake player service and test against it")
	fs.IntVar(&c.twinPort, "port", defaultTwinPort, "port for the fake player service, with -twin")
	fs.StringVar(&c.logLevel, "log-level", "info", "level of the structured logs captured for each test")

	if err := fs.Parse(args[1:]); err != nil {
		// the flag package has already reported the problem
		return false
	}
	if c.twin && c.serviceURL != "" {
		fmt.Fprintln(os.Stderr, "-url and -twin can't be used together")
		fs.Usage()
		return false
	}
	return true
}

// rerunArgs returns the command line for running only the given failed tests, with the same
// service settings as this run.
func (c *commandParams) rerunArgs(program string, failures []framework.TestResult) commandBuilder {
	var b commandBuilder
	b.add(program)
	switch {
	case c.twin:
		b.add("-twin")
	case c.serviceURL != "":
		b.add("-url", c.serviceURL)
	}
	if c.env != "" {
		b.add("-env", c.env)
	}
	if c.configDir != "." {
		b.add("-config-dir", c.configDir)
	}
	for _, f := range failures {
		b.add("-run", rerunPattern(f.TestID))
	}
	b.add("-debug")
	return b
}

// rerunPattern matches a test, the tests above it, and its subtests. Filters are applied at
// every level of the test tree, so a pattern for "a/b" must also match "a".
func rerunPattern(id framework.TestID) string {
	var sb strings.Builder
	sb.WriteString("^")
	for i, name := range id.Path {
		if i > 0 {
			sb.WriteString("(/")
		}
		sb.WriteString(regexp.QuoteMeta(name))
	}
	sb.WriteString("(/.*)?")
	for i := 1; i < len(id.Path); i++ {
		sb.WriteString(")?")
	}
	sb.WriteString("$")
	return sb.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
