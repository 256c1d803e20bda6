package playertests

import (
	"fmt"

	"github.com/player-qa/player-contract-tests/playerapi"
	"github.com/player-qa/player-contract-tests/playerdata"
	"github.com/player-qa/player-contract-tests/servicedef"
	"github.com/player-qa/player-contract-tests/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoCreateTests(t *T) {
	t.Run("valid user", func(t *T) {
		created := t.CreateValidated(playerdata.ValidUser().Build())
		assert.Greater(t, created.PlayerID(), int64(0))
	})

	t.Run("valid roles", func(t *T) {
		for _, role := range playerdata.ValidRoles() {
			t.Run(string(role), func(t *T) {
				created := t.CreateValidated(playerdata.ValidUser().Role(string(role)).Build())
				got, err := t.API().GetByIDAndParse(t.Ctx(), created.PlayerID())
				require.NoError(t, err)
				assert.Equal(t, string(role), got.Role.StringValue())
			})
		}
	})

	t.Run("supervisor can't create supervisor", func(t *T) {
		ex, err := t.API().CreateExpectingFailure(t.Ctx(), playerapi.DefaultEditor,
			playerdata.SupervisorRoleUser().Build(), 400)
		t.RequireErrorStatus(ex, err, 400)
	})

	t.Run("valid genders", func(t *T) {
		for _, gender := range playerdata.Genders() {
			t.Run(string(gender), func(t *T) {
				t.CreateValidated(playerdata.ValidUser().Gender(string(gender)).Build())
			})
		}
	})

	t.Run("boundary ages", func(t *T) {
		for _, age := range playerdata.BoundaryAges() {
			t.Run(fmt.Sprint(age), func(t *T) {
				t.CreateValidated(playerdata.ValidUser().Age(age).Build())
			})
		}
	})

	t.Run("invalid ages", func(t *T) {
		for _, age := range playerdata.InvalidAges() {
			t.Run(fmt.Sprint(age), func(t *T) {
				requireCreateRejected(t, playerdata.ValidUser().Age(age).Build(), 400)
			})
		}
	})

	t.Run("age below minimum", func(t *T) {
		requireCreateRejected(t, playerdata.InvalidAgeTooLow().Build(), 400)
	})

	t.Run("age above maximum", func(t *T) {
		requireCreateRejected(t, playerdata.InvalidAgeTooHigh().Build(), 400)
	})

	t.Run("invalid passwords", func(t *T) {
		for _, password := range playerdata.InvalidPasswords() {
			t.Run(fmt.Sprintf("%q", password), func(t *T) {
				requireCreateRejected(t, playerdata.ValidUser().Password(password).Build(), 400)
			})
		}
	})

	t.Run("invalid genders", func(t *T) {
		for _, gender := range playerdata.InvalidGenders() {
			t.Run(fmt.Sprintf("%q", gender), func(t *T) {
				requireCreateRejected(t, playerdata.ValidUser().Gender(gender).Build(), 400)
			})
		}
	})

	t.Run("invalid roles", func(t *T) {
		for _, role := range playerdata.InvalidRoles() {
			t.Run(fmt.Sprintf("%q", role), func(t *T) {
				requireCreateRejected(t, playerdata.ValidUser().Role(role).Build(), 400)
			})
		}
	})

	t.Run("missing login", func(t *T) {
		requireCreateRejected(t, playerdata.ValidUser().Without(playerdata.FieldLogin).Build(), 400)
	})

	t.Run("no parameters", func(t *T) {
		ex, err := t.API().CreateExpectingFailure(t.Ctx(), playerapi.DefaultEditor,
			servicedef.PlayerCreateRequest{}, 400)
		t.RequireErrorStatus(ex, err, 400)
	})

	t.Run("duplicate login", func(t *T) {
		first := t.CreateValidated(playerdata.ValidUser().Build())
		again := playerdata.ValidUser().Login(first.Login.StringValue()).Build()
		requireCreateRejected(t, again, 409)
	})

	t.Run("response schema", func(t *T) {
		ex, err := t.API().Create(t.Ctx(), "", playerdata.ValidUser().Build())
		t.RequireSchema(ex, err, validate.SchemaPlayerCreate)
	})

	t.Run("authorization", DoCreateAuthorizationTests)
}

// DoCreateAuthorizationTests checks which editors may create which roles.
func DoCreateAuthorizationTests(t *T) {
	t.Run("admin creates user", func(t *T) {
		admin := t.CreateValidated(playerdata.ValidAdmin().Build())
		resp, err := t.API().CreateAndParse(t.Ctx(), admin.Login.StringValue(), playerdata.ValidUser().Build())
		require.NoError(t, err)
		assert.Greater(t, resp.PlayerID(), int64(0))
	})

	t.Run("user can't create", func(t *T) {
		user := t.CreateValidated(playerdata.ValidUser().Build())
		ex, err := t.API().CreateExpectingFailure(t.Ctx(), user.Login.StringValue(),
			playerdata.ValidUser().Build(), 403)
		t.RequireErrorStatus(ex, err, 403)
	})

	t.Run("unknown editor", func(t *T) {
		ex, err := t.API().CreateExpectingFailure(t.Ctx(), playerdata.UniqueLogin(),
			playerdata.ValidUser().Build(), 403)
		t.RequireErrorStatus(ex, err, 403)
	})
}

func requireCreateRejected(t *T, req servicedef.PlayerCreateRequest, status int) {
	ex, err := t.API().CreateExpectingFailure(t.Ctx(), playerapi.DefaultEditor, req, status)
	t.RequireErrorStatus(ex, err, status)
}
