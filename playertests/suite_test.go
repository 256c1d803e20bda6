package playertests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/player-qa/player-contract-tests/client"
	"github.com/player-qa/player-contract-tests/framework"
	"github.com/player-qa/player-contract-tests/logging"
	"github.com/player-qa/player-contract-tests/playerapi"
	"github.com/player-qa/player-contract-tests/playertwin"
	"github.com/player-qa/player-contract-tests/validate"
)

func newAPI(t *testing.T, handler http.Handler) *playerapi.Service {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	schemas, err := validate.LoadSchemas()
	require.NoError(t, err)
	c := client.New(client.Options{
		BaseURL:           server.URL,
		RequestTimeout:    5 * time.Second,
		ConnectionTimeout: time.Second,
		Logger:            logging.Discard(),
	})
	return playerapi.New(c, schemas, logging.Discard())
}

func failureNames(results framework.Results) []string {
	var names []string
	for _, f := range results.Failures {
		names = append(names, f.TestID.String())
	}
	return names
}

func TestSuitePassesAgainstTwin(t *testing.T) {
	api := newAPI(t, playertwin.New(logging.Discard()))
	results := RunTestSuite(context.Background(), api, logrus.DebugLevel, nil, nil)

	if !results.OK() {
		for _, f := range results.Failures {
			for _, err := range f.Errors {
				t.Logf("%s: %s", f.TestID, err)
			}
		}
	}
	require.True(t, results.OK(), "failures: %v", failureNames(results))

	passed, _, skipped := results.Counts()
	assert.Greater(t, passed, 50)
	assert.Equal(t, 0, skipped)
}

func TestFilterSelectsTests(t *testing.T) {
	api := newAPI(t, playertwin.New(logging.Discard()))
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^get"))

	var ran []string
	logger := &startedLogger{started: func(id framework.TestID) { ran = append(ran, id.String()) }}
	results := RunTestSuite(context.Background(), api, logrus.InfoLevel, filters.AsFilter, logger)
	require.True(t, results.OK())

	_, _, skipped := results.Counts()
	assert.Equal(t, 3, skipped)
	assert.Contains(t, ran, "get/all players")
}

// An update endpoint that acknowledges every change without storing it must be caught by the
// re-read after the update.
func TestSuiteDetectsLostUpdates(t *testing.T) {
	twin := playertwin.New(logging.Discard())
	lossy := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
			get := httptest.NewRequest(http.MethodPost, "/player/get", strings.NewReader(`{"playerId":`+id+`}`))
			twin.ServeHTTP(w, get)
			return
		}
		twin.ServeHTTP(w, r)
	})
	api := newAPI(t, lossy)

	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^update(/age and screen name)?$"))
	results := RunTestSuite(context.Background(), api, logrus.InfoLevel, filters.AsFilter, nil)

	require.False(t, results.OK())
	assert.Equal(t, []string{"update/age and screen name"}, failureNames(results))
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "age")
}

type startedLogger struct {
	started func(framework.TestID)
}

func (l *startedLogger) TestStarted(id framework.TestID)                             { l.started(id) }
func (l *startedLogger) TestError(framework.TestID, error)                           {}
func (l *startedLogger) TestFinished(framework.TestID, bool, logging.CapturedOutput) {}
func (l *startedLogger) TestSkipped(framework.TestID, string)                        {}
