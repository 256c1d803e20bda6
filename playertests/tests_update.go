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

func DoUpdateTests(t *T) {
	t.Run("age and screen name", func(t *T) {
		created := t.CreateValidated(playerdata.ValidUser().Build())
		update := playerdata.BasicUpdate(30, "X").Build()

		resp, err := t.API().UpdateWithValidation(t.Ctx(), "", created.PlayerID(), update)
		require.NoError(t, err)
		assert.Equal(t, created.PlayerID(), resp.PlayerID())

		got, err := t.API().GetByIDAndParse(t.Ctx(), created.PlayerID())
		require.NoError(t, err)
		assert.Equal(t, 30, got.Age.IntValue())
		assert.Equal(t, "X", got.ScreenName.StringValue())
		assert.Equal(t, created.Login.StringValue(), got.Login.StringValue())
	})

	t.Run("random valid data", func(t *T) {
		created := t.CreateValidated(playerdata.ValidUser().Build())
		update := playerdata.BasicUpdate(playerdata.ValidAge(), playerdata.UniqueScreenName()).Build()
		resp, err := t.API().UpdateWithValidation(t.Ctx(), "", created.PlayerID(), update)
		require.NoError(t, err)
		assert.Equal(t, created.PlayerID(), resp.PlayerID())
	})

	t.Run("valid genders", func(t *T) {
		for _, gender := range playerdata.Genders() {
			t.Run(string(gender), func(t *T) {
				created := t.CreateValidated(playerdata.ValidUser().Build())
				update := playerdata.NewUpdatePlayer().Gender(string(gender)).Build()
				resp, err := t.API().UpdateAndParse(t.Ctx(), "", created.PlayerID(), update)
				require.NoError(t, err)
				assert.Equal(t, created.PlayerID(), resp.PlayerID())
			})
		}
	})

	t.Run("password", func(t *T) {
		created := t.CreateValidated(playerdata.ValidUser().Build())
		_, err := t.API().UpdateAndParse(t.Ctx(), "", created.PlayerID(),
			playerdata.PasswordUpdate(playerdata.ValidPassword()).Build())
		require.NoError(t, err)
	})

	t.Run("boundary ages", func(t *T) {
		for _, age := range playerdata.BoundaryAges() {
			t.Run(fmt.Sprint(age), func(t *T) {
				created := t.CreateValidated(playerdata.ValidUser().Build())
				update := playerdata.BasicUpdate(age, playerdata.UniqueScreenName()).Build()
				resp, err := t.API().UpdateWithValidation(t.Ctx(), "", created.PlayerID(), update)
				require.NoError(t, err)
				assert.Equal(t, created.PlayerID(), resp.PlayerID())
			})
		}
	})

	t.Run("non-existent player", func(t *T) {
		ex, err := t.API().Update(t.Ctx(), "", playerdata.NonExistentPlayerID(),
			playerdata.BasicUpdate(30, playerdata.UniqueScreenName()).Build())
		t.RequireStatus(ex, err, 200)
	})

	t.Run("empty body", func(t *T) {
		created := t.CreateValidated(playerdata.ValidUser().Build())
		update := playerdata.NewUpdatePlayer().Build()
		require.True(t, update.IsEmpty())
		ex, err := t.API().Update(t.Ctx(), "", created.PlayerID(), update)
		t.RequireStatus(ex, err, 200)
	})

	t.Run("invalid ages", func(t *T) {
		for _, age := range playerdata.InvalidAges() {
			t.Run(fmt.Sprint(age), func(t *T) {
				requireUpdateRejected(t, playerdata.NewUpdatePlayer().Age(age).Build())
			})
		}
	})

	t.Run("invalid passwords", func(t *T) {
		for _, password := range playerdata.InvalidPasswords() {
			t.Run(fmt.Sprintf("%q", password), func(t *T) {
				requireUpdateRejected(t, playerdata.PasswordUpdate(password).Build())
			})
		}
	})

	t.Run("invalid genders", func(t *T) {
		for _, gender := range playerdata.InvalidGenders() {
			t.Run(fmt.Sprintf("%q", gender), func(t *T) {
				requireUpdateRejected(t, playerdata.NewUpdatePlayer().Gender(gender).Build())
			})
		}
	})

	t.Run("invalid roles", func(t *T) {
		for _, role := range playerdata.InvalidRoles() {
			t.Run(fmt.Sprintf("%q", role), func(t *T) {
				requireUpdateRejected(t, playerdata.NewUpdatePlayer().Role(role).Build())
			})
		}
	})

	t.Run("promote to supervisor", func(t *T) {
		requireUpdateRejected(t, playerdata.RoleUpdate(servicedef.RoleSupervisor).Build())
	})

	t.Run("response schema", func(t *T) {
		created := t.CreateValidated(playerdata.ValidUser().Build())
		ex, err := t.API().Update(t.Ctx(), "", created.PlayerID(),
			playerdata.NewUpdatePlayer().ScreenName(playerdata.UniqueScreenName()).Build())
		t.RequireSchema(ex, err, validate.SchemaPlayerUpdate)
	})

	t.Run("user can't update another player", func(t *T) {
		editor := t.CreateValidated(playerdata.ValidUser().Build())
		target := t.CreateValidated(playerdata.ValidUser().Build())
		ex, err := t.API().UpdateExpectingFailure(t.Ctx(), editor.Login.StringValue(), target.PlayerID(),
			playerdata.NewUpdatePlayer().Age(30).Build(), 403)
		t.RequireErrorStatus(ex, err, 403)
	})
}

// requireUpdateRejected applies update to a fresh player, requires a 400 error, and requires
// that the player was left as it was.
func requireUpdateRejected(t *T, update servicedef.PlayerUpdateRequest) {
	created := t.CreateValidated(playerdata.ValidUser().Build())
	before, err := t.API().GetByIDAndParse(t.Ctx(), created.PlayerID())
	require.NoError(t, err)

	ex, err := t.API().UpdateExpectingFailure(t.Ctx(), playerapi.DefaultEditor, created.PlayerID(), update, 400)
	t.RequireErrorStatus(ex, err, 400)

	after, err := t.API().GetByIDAndParse(t.Ctx(), created.PlayerID())
	require.NoError(t, err)
	require.NoError(t, validate.UpdatePersistence(after, before, servicedef.PlayerUpdateRequest{}))
}
