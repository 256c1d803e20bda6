package playertests

import (
	"fmt"

	"github.com/player-qa/player-contract-tests/compare"
	"github.com/player-qa/player-contract-tests/playerdata"
	"github.com/player-qa/player-contract-tests/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoGetTests(t *T) {
	t.Run("by valid ID", func(t *T) {
		created := t.CreateValidated(playerdata.ValidUser().Build())
		got, err := t.API().GetByIDAndParse(t.Ctx(), created.PlayerID())
		require.NoError(t, err)
		require.NoError(t, validate.Get(got, created))
	})

	t.Run("by invalid ID", func(t *T) {
		for _, id := range playerdata.InvalidPlayerIDs() {
			t.Run(fmt.Sprint(id), func(t *T) {
				ex, err := t.API().GetByID(t.Ctx(), id)
				t.RequireStatus(ex, err, 200)
			})
		}
	})

	t.Run("repeated get is stable", func(t *T) {
		created := t.CreateValidated(playerdata.ValidUser().Build())
		first, err := t.API().GetByIDAndParse(t.Ctx(), created.PlayerID())
		require.NoError(t, err)
		second, err := t.API().GetByIDAndParse(t.Ctx(), created.PlayerID())
		require.NoError(t, err)
		require.NoError(t, compare.Compare(first, second, compare.Strict).Err())
	})

	t.Run("all players", func(t *T) {
		var ids []int64
		for i := 0; i < 3; i++ {
			ids = append(ids, t.CreateValidated(playerdata.ValidUser().Build()).PlayerID())
		}

		all, err := t.API().GetAllAndParse(t.Ctx())
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(all.Players), 3)
		for _, p := range all.Players {
			assert.True(t, p.ID.IsDefined(), "player ID should not be null")
			assert.True(t, p.Role.IsDefined(), "player role should not be null")
		}
		for _, id := range ids {
			_, found := all.Find(id)
			assert.True(t, found, "player %d should be listed", id)
		}
	})

	t.Run("get response schema", func(t *T) {
		created := t.CreateValidated(playerdata.ValidUser().Build())
		ex, err := t.API().GetByID(t.Ctx(), created.PlayerID())
		t.RequireSchema(ex, err, validate.SchemaPlayerGet)
	})

	t.Run("get all response schema", func(t *T) {
		t.CreateValidated(playerdata.ValidUser().Build())
		ex, err := t.API().GetAll(t.Ctx())
		t.RequireSchema(ex, err, validate.SchemaPlayerGetAll)
	})
}
