package playertests

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/player-qa/player-contract-tests/client"
	"github.com/player-qa/player-contract-tests/framework"
	"github.com/player-qa/player-contract-tests/logging"
	"github.com/player-qa/player-contract-tests/playerapi"
	"github.com/player-qa/player-contract-tests/servicedef"
	"github.com/player-qa/player-contract-tests/validate"

	"github.com/stretchr/testify/require"
)

// T represents a test or subtest in the player contract test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, with debug output that is captured per test and only shown
// when the test fails (or when debug output is requested for every test). That part is provided
// by the lower-level framework package.
//
// Every T has its own view of the player API whose structured logs and HTTP attachments go to the
// test's debug output, so a failing test shows exactly which requests it made.
//
// To make test assertions, use the assert and require packages, passing the *T as if it were a
// *testing.T. The helper methods below call require themselves, so that the tests can stay short.
type T struct {
	context *framework.Context
	api     *playerapi.Service
	base    *playerapi.Service
	level   logrus.Level
}

type debugRecorder struct {
	context *framework.Context
}

func (r debugRecorder) Attach(name, content string) {
	r.context.Debug("%s: %s", name, content)
}

func newTestScope(context *framework.Context, base *playerapi.Service, level logrus.Level) *T {
	api := base.
		WithLogger(logging.New(context.DebugLogger(), level)).
		WithRecorder(debugRecorder{context})
	return &T{context: context, api: api, base: base, level: level}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.base, t.level))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

func (t *T) Ctx() context.Context {
	return t.context.Ctx()
}

// API returns the player API for this test.
func (t *T) API() *playerapi.Service {
	return t.api
}

func (t *T) schemas() *validate.SchemaSet {
	return t.api.Schemas()
}

// CreateValidated creates a player as the default editor and requires that the full
// write-then-reread validation passes.
func (t *T) CreateValidated(req servicedef.PlayerCreateRequest) servicedef.PlayerCreateResponse {
	resp, err := t.api.CreateWithValidation(t.Ctx(), "", req)
	require.NoError(t, err)
	t.Debug("created player %d (%s)", resp.PlayerID(), req.Login.StringValue())
	return resp
}

// RequireStatus requires an exact status without looking at the body.
func (t *T) RequireStatus(ex client.Exchange, err error, status int) {
	require.NoError(t, err)
	require.NoError(t, validate.Status(ex, status))
}

// RequireErrorStatus requires an error status and an error-shaped body.
func (t *T) RequireErrorStatus(ex client.Exchange, err error, status int) {
	require.NoError(t, err)
	require.NoError(t, validate.ErrorStatus(t.schemas(), ex, status))
}

// RequireSchema requires status 200 and a body that matches the named schema.
func (t *T) RequireSchema(ex client.Exchange, err error, schema string) {
	require.NoError(t, err)
	require.NoError(t, validate.Status(ex, 200))
	require.NoError(t, t.schemas().Check(schema, ex.Body))
}

// RequirePlayerExists requires that the player can still be fetched.
func (t *T) RequirePlayerExists(id int64) {
	got, err := t.api.GetByIDAndParse(t.Ctx(), id)
	require.NoError(t, err)
	require.Equal(t, id, got.PlayerID(), "player %d should still exist", id)
}
