package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/player-qa/player-contract-tests/client"
	"github.com/player-qa/player-contract-tests/compare"
	"github.com/player-qa/player-contract-tests/servicedef"

	"go.uber.org/multierr"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func createRequest() servicedef.PlayerCreateRequest {
	return servicedef.PlayerCreateRequest{PlayerFields: servicedef.PlayerFields{
		Login:      ldvalue.NewOptionalString("bob"),
		Password:   ldvalue.NewOptionalString("Secret123"),
		ScreenName: ldvalue.NewOptionalString("Bobby"),
		Gender:     ldvalue.NewOptionalString("male"),
		Age:        ldvalue.NewOptionalInt(25),
		Role:       ldvalue.NewOptionalString("user"),
	}}
}

func fullResponse(id int) servicedef.PlayerResponse {
	return servicedef.PlayerResponse{
		ID:         ldvalue.NewOptionalInt(id),
		Login:      ldvalue.NewOptionalString("bob"),
		Password:   ldvalue.NewOptionalString("Secret123"),
		ScreenName: ldvalue.NewOptionalString("Bobby"),
		Gender:     ldvalue.NewOptionalString("male"),
		Age:        ldvalue.NewOptionalInt(25),
		Role:       ldvalue.NewOptionalString("user"),
	}
}

func TestStatusHelpers(t *testing.T) {
	ex := client.Exchange{Status: 404, Body: []byte("nope")}
	err := Status(ex, 200)
	require.Error(t, err)
	assert.Equal(t, "Expected status code 200 but got 404. Response: nope", err.Error())
	var se *StatusError
	assert.True(t, errors.As(err, &se))

	assert.NoError(t, Status(ex, 404))
	assert.Error(t, Success(ex))
	assert.NoError(t, Success(client.Exchange{Status: 204}))
}

func TestResponseTime(t *testing.T) {
	ex := client.Exchange{Method: "GET", URL: "http://x/y", Elapsed: 4 * time.Second}
	assert.NoError(t, ResponseTime(ex, 5*time.Second))
	err := ResponseTime(ex, 3*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "took 4000 ms, exceeding the 3000 ms budget")
}

func TestCreateAcceptsMatchingAndPartialResponses(t *testing.T) {
	assert.NoError(t, Create(servicedef.PlayerCreateResponse{PlayerResponse: fullResponse(3)}, createRequest()))

	partial := servicedef.PlayerCreateResponse{PlayerResponse: servicedef.PlayerResponse{ID: ldvalue.NewOptionalInt(3)}}
	assert.NoError(t, Create(partial, createRequest()))
}

func TestCreateReportsEveryProblem(t *testing.T) {
	r := fullResponse(0)
	r.Login = ldvalue.NewOptionalString("alice")
	r.Age = ldvalue.NewOptionalInt(26)
	err := Create(servicedef.PlayerCreateResponse{PlayerResponse: r}, createRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id: expected a positive value but got 0")
	assert.Contains(t, err.Error(), `login: expected "bob" but got "alice"`)
	assert.Contains(t, err.Error(), "age: expected 25 but got 26")
	assert.Len(t, multierr.Errors(errors.Unwrap(err)), 3)

	err = Create(servicedef.PlayerCreateResponse{}, createRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player ID was not generated")
}

func TestUpdate(t *testing.T) {
	original := servicedef.PlayerCreateResponse{PlayerResponse: fullResponse(3)}
	update := servicedef.PlayerUpdateRequest{PlayerFields: servicedef.PlayerFields{
		Age:        ldvalue.NewOptionalInt(30),
		ScreenName: ldvalue.NewOptionalString("X"),
	}}

	good := fullResponse(3)
	good.Age = ldvalue.NewOptionalInt(30)
	good.ScreenName = ldvalue.NewOptionalString("X")
	good.Password = ldvalue.OptionalString{}
	assert.NoError(t, Update(servicedef.PlayerUpdateResponse{PlayerResponse: good}, original, update))

	bad := good
	bad.ID = ldvalue.NewOptionalInt(4)
	bad.Login = ldvalue.NewOptionalString("other")
	bad.Age = ldvalue.NewOptionalInt(31)
	err := Update(servicedef.PlayerUpdateResponse{PlayerResponse: bad}, original, update)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player ID must not change")
	assert.Contains(t, err.Error(), `login: expected "bob" but got "other"`)
	assert.Contains(t, err.Error(), "age: expected 30 but got 31")
}

func TestGetIgnoresMissingFields(t *testing.T) {
	original := servicedef.PlayerCreateResponse{PlayerResponse: fullResponse(3)}
	got := fullResponse(3)
	got.Password = ldvalue.OptionalString{}
	assert.NoError(t, Get(servicedef.PlayerGetResponse{PlayerResponse: got}, original))

	got.Role = ldvalue.NewOptionalString("admin")
	err := Get(servicedef.PlayerGetResponse{PlayerResponse: got}, original)
	require.Error(t, err)
	var me *compare.MismatchError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, []string{"role"}, me.Diff.MismatchedFields())
	assert.Equal(t, []string{"password"}, me.Diff.IgnoredFields())
}

func TestGetRequiresSameID(t *testing.T) {
	original := servicedef.PlayerCreateResponse{PlayerResponse: fullResponse(3)}
	err := Get(servicedef.PlayerGetResponse{}, original)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id: expected 3 but got null")
}

func TestPersistenceIsStrict(t *testing.T) {
	got := fullResponse(3)
	assert.NoError(t, Persistence(servicedef.PlayerGetResponse{PlayerResponse: got}, createRequest()))

	got.Gender = ldvalue.OptionalString{}
	got.ScreenName = ldvalue.NewOptionalString("Other")
	err := Persistence(servicedef.PlayerGetResponse{PlayerResponse: got}, createRequest())
	require.Error(t, err)
	var me *compare.MismatchError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, []string{"gender", "screenName"}, me.Diff.MismatchedFields())

	assert.Error(t, Persistence(servicedef.PlayerGetResponse{}, createRequest()))
}

func TestUpdatePersistence(t *testing.T) {
	before := servicedef.PlayerGetResponse{PlayerResponse: fullResponse(3)}
	update := servicedef.PlayerUpdateRequest{PlayerFields: servicedef.PlayerFields{
		Age: ldvalue.NewOptionalInt(30),
	}}

	after := fullResponse(3)
	after.Age = ldvalue.NewOptionalInt(30)
	assert.NoError(t, UpdatePersistence(servicedef.PlayerGetResponse{PlayerResponse: after}, before, update))

	after.Role = ldvalue.NewOptionalString("admin")
	err := UpdatePersistence(servicedef.PlayerGetResponse{PlayerResponse: after}, before, update)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `role: expected "user", actual "admin"`)

	unchanged := servicedef.PlayerGetResponse{PlayerResponse: fullResponse(3)}
	err = UpdatePersistence(unchanged, before, update)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age: expected 30, actual 25")
}
