package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(output CapturedOutput) []string {
	var ret []string
	for _, m := range output {
		ret = append(ret, m.Message)
	}
	return ret
}

func TestCapturingLoggerPrintf(t *testing.T) {
	var l CapturingLogger
	l.Printf("first %d", 1)
	l.Printf("second %s", "two")
	assert.Equal(t, []string{"first 1", "second two"}, messages(l.Output()))
}

func TestCapturingLoggerSplitsWrittenLines(t *testing.T) {
	var l CapturingLogger
	n, err := l.Write([]byte("a\nb\n\nc\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, []string{"a", "b", "c"}, messages(l.Output()))
}

func TestCapturingLoggerOutputIsACopy(t *testing.T) {
	var l CapturingLogger
	l.Printf("x")
	out := l.Output()
	l.Printf("y")
	assert.Len(t, out, 1)
	assert.Len(t, l.Output(), 2)
}

func TestDumpUsesPrefix(t *testing.T) {
	var l CapturingLogger
	l.Printf("hello")
	var buf bytes.Buffer
	l.Output().Dump(&buf, "    DEBUG ")
	assert.True(t, strings.HasPrefix(buf.String(), "    DEBUG ["))
	assert.True(t, strings.HasSuffix(buf.String(), "] hello\n"))
}

func TestStructuredLoggerWritesIntoCapture(t *testing.T) {
	var capture CapturingLogger
	log := New(&capture, logrus.InfoLevel)
	log.WithField("status", 404).Warn("request failed")
	log.Debug("not shown")

	lines := messages(capture.Output())
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "level=warning")
	assert.Contains(t, lines[0], "status=404")
	assert.Contains(t, lines[0], `msg="request failed"`)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, level)

	level, err = ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
