package main

import (
	"bytes"
	"errors"
	"regexp"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/player-qa/player-contract-tests/framework"
	"github.com/player-qa/player-contract-tests/logging"
)

func TestRerunPattern(t *testing.T) {
	id := framework.TestID{Path: []string{"create", "invalid ages", "-1"}}
	rx := regexp.MustCompile(rerunPattern(id))

	for _, name := range []string{"create", "create/invalid ages", "create/invalid ages/-1", "create/invalid ages/-1/x"} {
		assert.True(t, rx.MatchString(name), name)
	}
	for _, name := range []string{"update", "create/valid user", "create/invalid ages/15", "creates"} {
		assert.False(t, rx.MatchString(name), name)
	}
}

func TestRerunArgs(t *testing.T) {
	params := commandParams{serviceURL: "http://localhost:8080", configDir: "."}
	failures := []framework.TestResult{{TestID: framework.TestID{Path: []string{"delete", "user editor"}}}}
	assert.Equal(t,
		`./player-contract-tests -url http://localhost:8080 -run '^delete(/user editor(/.*)?)?$' -debug`,
		params.rerunArgs("./player-contract-tests", failures).String())
}

func TestReadParams(t *testing.T) {
	var p commandParams
	require.True(t, p.Read([]string{"prog", "-twin", "-run", "^create", "-skip", "boundary", "-env", "qa"}))
	assert.True(t, p.twin)
	assert.Equal(t, "qa", p.env)
	assert.Equal(t, defaultTwinPort, p.twinPort)
	assert.True(t, p.filters.MustMatch.IsDefined())
	assert.True(t, p.filters.MustNotMatch.IsDefined())

	var conflicting commandParams
	assert.False(t, conflicting.Read([]string{"prog", "-twin", "-url", "http://x"}))
}

func TestConsoleTestLogger(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := &ConsoleTestLogger{Out: &buf, DebugOutputOnFailure: true}
	id := framework.TestID{Path: []string{"get", "by valid ID"}}

	var debug logging.CapturingLogger
	debug.Printf("request sent")

	l.TestStarted(id)
	l.TestError(id, errors.New("first\nsecond"))
	l.TestFinished(id, true, debug.Output())
	l.TestSkipped(id, "excluded")

	out := buf.String()
	assert.Contains(t, out, "[get/by valid ID]\n  first\n  second\n  FAILED: get/by valid ID\n")
	assert.Contains(t, out, "    DEBUG ")
	assert.Contains(t, out, "request sent")
	assert.Contains(t, out, "  SKIPPED: get/by valid ID (excluded)\n")
}
