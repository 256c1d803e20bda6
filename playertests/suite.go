package playertests

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/player-qa/player-contract-tests/framework"
	"github.com/player-qa/player-contract-tests/playerapi"
)

// RunTestSuite runs every player contract test against api. Structured logs from each test are
// captured at logLevel into that test's debug output.
func RunTestSuite(
	ctx context.Context,
	api *playerapi.Service,
	logLevel logrus.Level,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(ctx, filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, api, logLevel)

		t.Run("create", DoCreateTests)
		t.Run("update", DoUpdateTests)
		t.Run("delete", DoDeleteTests)
		t.Run("get", DoGetTests)
	})
}
