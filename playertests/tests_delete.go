package playertests

import (
	"strings"

	"github.com/player-qa/player-contract-tests/playerdata"
	"github.com/player-qa/player-contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// createEditor creates a player with the given role to act as the editor of a delete.
func createEditor(t *T, role servicedef.Role) servicedef.PlayerCreateResponse {
	return t.CreateValidated(playerdata.ValidUser().Role(string(role)).Build())
}

func DoDeleteTests(t *T) {
	t.Run("admin deletes user", func(t *T) {
		editor := createEditor(t, servicedef.RoleAdmin)
		target := t.CreateValidated(playerdata.ValidUser().Build())

		require.NoError(t, t.API().DeleteAndParse(t.Ctx(), editor.Login.StringValue(), target.PlayerID()))

		ex, err := t.API().GetByID(t.Ctx(), target.PlayerID())
		t.RequireStatus(ex, err, 200)
		require.Empty(t, ex.Body, "deleted player should no longer be returned")
	})

	t.Run("non-existent player", func(t *T) {
		editor := createEditor(t, servicedef.RoleAdmin)
		ex, err := t.API().DeleteExpectingFailure(t.Ctx(), editor.Login.StringValue(),
			playerdata.NonExistentPlayerID(), 403)
		t.RequireErrorStatus(ex, err, 403)
	})

	t.Run("invalid player ID", func(t *T) {
		editor := createEditor(t, servicedef.RoleAdmin)
		ex, err := t.API().DeleteExpectingFailure(t.Ctx(), editor.Login.StringValue(), -1, 403)
		t.RequireErrorStatus(ex, err, 403)
	})

	t.Run("user editor", func(t *T) {
		editor := createEditor(t, servicedef.RoleUser)
		requireDeleteRejected(t, editor.Login.StringValue(), 403)
	})

	t.Run("unknown editor", func(t *T) {
		requireDeleteRejected(t, playerdata.UniqueLogin(), 403)
	})

	t.Run("empty editor", func(t *T) {
		requireDeleteRejected(t, "", 404)
	})

	t.Run("editor login is case-sensitive", func(t *T) {
		editor := createEditor(t, servicedef.RoleAdmin)
		requireDeleteRejected(t, strings.ToUpper(editor.Login.StringValue()), 403)
	})

	t.Run("editor with spaces", func(t *T) {
		requireDeleteRejected(t, "user with spaces", 403)
	})

	t.Run("malformed editor path", func(t *T) {
		requireDeleteRejected(t, "user/../admin", 400)
	})
}

// requireDeleteRejected tries to delete a fresh player as editorLogin, requires the given error
// status, and requires that the player still exists.
func requireDeleteRejected(t *T, editorLogin string, status int) {
	target := t.CreateValidated(playerdata.ValidUser().Build())
	ex, err := t.API().DeleteExpectingFailure(t.Ctx(), editorLogin, target.PlayerID(), status)
	t.RequireErrorStatus(ex, err, status)
	t.RequirePlayerExists(target.PlayerID())
}
