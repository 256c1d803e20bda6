// Package validate contains assertions over decoded player service responses. Every function
// returns nil on success, or an error that names each violated field along with the expected
// and actual values. No function modifies its arguments.
package validate

import (
	"errors"
	"fmt"
	"time"

	"github.com/player-qa/player-contract-tests/client"
	"github.com/player-qa/player-contract-tests/compare"
	"github.com/player-qa/player-contract-tests/servicedef"

	"go.uber.org/multierr"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	Expected string
	Actual   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Expected status code %s but got %d. Response: %s", e.Expected, e.Actual, e.Body)
}

// Status checks for an exact status code.
func Status(ex client.Exchange, expected int) error {
	if ex.Status != expected {
		return &StatusError{Expected: fmt.Sprint(expected), Actual: ex.Status, Body: string(ex.Body)}
	}
	return nil
}

// Success checks for any 2xx status.
func Success(ex client.Exchange) error {
	if !ex.IsSuccess() {
		return &StatusError{Expected: "2xx", Actual: ex.Status, Body: string(ex.Body)}
	}
	return nil
}

// Error checks that the response is an error (status >= 400) with a well-formed error body.
func Error(schemas *SchemaSet, ex client.Exchange) error {
	if ex.Status < 400 {
		return &StatusError{Expected: ">= 400", Actual: ex.Status, Body: string(ex.Body)}
	}
	return schemas.Check(SchemaError, ex.Body)
}

// ErrorStatus is like Error but requires a specific status.
func ErrorStatus(schemas *SchemaSet, ex client.Exchange, expected int) error {
	if err := Status(ex, expected); err != nil {
		return err
	}
	return schemas.Check(SchemaError, ex.Body)
}

// ResponseTime reports an exchange that took longer than its budget.
func ResponseTime(ex client.Exchange, budget time.Duration) error {
	if ex.Elapsed > budget {
		return fmt.Errorf("%s %s took %d ms, exceeding the %d ms budget",
			ex.Method, ex.URL, ex.Elapsed.Milliseconds(), budget.Milliseconds())
	}
	return nil
}

type fieldErrors struct {
	err error
}

func (fe *fieldErrors) add(format string, args ...interface{}) {
	fe.err = multierr.Append(fe.err, fmt.Errorf(format, args...))
}

// matchIfPresent checks a field that the response may legitimately omit.
func (fe *fieldErrors) matchIfPresent(name string, expected, actual ldvalue.Value) {
	if !actual.IsNull() && !actual.Equal(expected) {
		fe.add("%s: expected %s but got %s", name, expected.JSONString(), actual.JSONString())
	}
}

func (fe fieldErrors) result(what string) error {
	if fe.err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, fe.err)
}

// Create checks a create response against the request that produced it. The ID must be
// positive; login, age, screen name and password must match the request when they are present.
func Create(resp servicedef.PlayerCreateResponse, req servicedef.PlayerCreateRequest) error {
	var fe fieldErrors
	if !resp.ID.IsDefined() {
		fe.add("id: player ID was not generated")
	} else if resp.ID.IntValue() <= 0 {
		fe.add("id: expected a positive value but got %d", resp.ID.IntValue())
	}
	fe.matchIfPresent("login", req.Login.AsValue(), resp.Login.AsValue())
	fe.matchIfPresent("age", req.Age.AsValue(), resp.Age.AsValue())
	fe.matchIfPresent("screenName", req.ScreenName.AsValue(), resp.ScreenName.AsValue())
	fe.matchIfPresent("password", req.Password.AsValue(), resp.Password.AsValue())
	return fe.result("invalid create response")
}

// Update checks an update response. The ID must not change; fields that were updated must have
// their new values when present; login must be unchanged unless it was updated.
func Update(resp servicedef.PlayerUpdateResponse, original servicedef.PlayerCreateResponse,
	update servicedef.PlayerUpdateRequest) error {
	var fe fieldErrors
	if !resp.ID.AsValue().Equal(original.ID.AsValue()) {
		fe.add("id: expected %s but got %s (player ID must not change)",
			original.ID.AsValue().JSONString(), resp.ID.AsValue().JSONString())
	}
	if update.Age.IsDefined() {
		fe.matchIfPresent("age", update.Age.AsValue(), resp.Age.AsValue())
	}
	if update.ScreenName.IsDefined() {
		fe.matchIfPresent("screenName", update.ScreenName.AsValue(), resp.ScreenName.AsValue())
	}
	if update.Gender.IsDefined() {
		fe.matchIfPresent("gender", update.Gender.AsValue(), resp.Gender.AsValue())
	}
	if update.Role.IsDefined() {
		fe.matchIfPresent("role", update.Role.AsValue(), resp.Role.AsValue())
	}
	if update.Login.IsDefined() {
		fe.matchIfPresent("login", update.Login.AsValue(), resp.Login.AsValue())
	} else {
		fe.matchIfPresent("login", original.Login.AsValue(), resp.Login.AsValue())
	}
	return fe.result("invalid update response")
}

// Get compares a fetched player with the create response for the same player. Fields that the
// get endpoint left out are ignored.
func Get(resp servicedef.PlayerGetResponse, original servicedef.PlayerCreateResponse) error {
	if !resp.ID.AsValue().Equal(original.ID.AsValue()) {
		return fmt.Errorf("invalid get response: id: expected %s but got %s",
			original.ID.AsValue().JSONString(), resp.ID.AsValue().JSONString())
	}
	expected := servicedef.PlayerGetResponse{PlayerResponse: original.PlayerResponse}
	return compare.Compare(expected, resp, compare.IgnoreNullActual).Err()
}

// persistedPlayer is the part of a player that must round-trip exactly through the service.
type persistedPlayer struct {
	login      ldvalue.OptionalString
	screenName ldvalue.OptionalString
	gender     ldvalue.OptionalString
	role       ldvalue.OptionalString
	age        ldvalue.OptionalInt
}

func (p persistedPlayer) RecordType() string { return "persisted player" }

func (p persistedPlayer) Fields() []compare.Field {
	return []compare.Field{
		{Name: "login", Value: p.login.AsValue()},
		{Name: "age", Value: p.age.AsValue()},
		{Name: "gender", Value: p.gender.AsValue()},
		{Name: "role", Value: p.role.AsValue()},
		{Name: "screenName", Value: p.screenName.AsValue()},
	}
}

func persistedFromFields(f servicedef.PlayerFields) persistedPlayer {
	return persistedPlayer{login: f.Login, screenName: f.ScreenName, gender: f.Gender, role: f.Role, age: f.Age}
}

func persistedFromResponse(r servicedef.PlayerResponse) persistedPlayer {
	return persistedPlayer{login: r.Login, screenName: r.ScreenName, gender: r.Gender, role: r.Role, age: r.Age}
}

// Persistence checks that a fetched player exactly matches the request it was created from.
func Persistence(resp servicedef.PlayerGetResponse, req servicedef.PlayerCreateRequest) error {
	if !resp.ID.IsDefined() {
		return errors.New("persisted player has no ID")
	}
	return compare.Compare(persistedFromFields(req.PlayerFields), persistedFromResponse(resp.PlayerResponse),
		compare.Strict).Err()
}

// UpdatePersistence checks that a player fetched after an update has exactly the fields that
// were updated changed, and every other field as it was before.
func UpdatePersistence(actual, before servicedef.PlayerGetResponse, update servicedef.PlayerUpdateRequest) error {
	if !actual.ID.AsValue().Equal(before.ID.AsValue()) {
		return fmt.Errorf("id: expected %s but got %s (player ID must not change)",
			before.ID.AsValue().JSONString(), actual.ID.AsValue().JSONString())
	}
	expected := persistedFromResponse(before.PlayerResponse)
	if update.Login.IsDefined() {
		expected.login = update.Login
	}
	if update.ScreenName.IsDefined() {
		expected.screenName = update.ScreenName
	}
	if update.Gender.IsDefined() {
		expected.gender = update.Gender
	}
	if update.Role.IsDefined() {
		expected.role = update.Role
	}
	if update.Age.IsDefined() {
		expected.age = update.Age
	}
	return compare.Compare(expected, persistedFromResponse(actual.PlayerResponse), compare.Strict).Err()
}
