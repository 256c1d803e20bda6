package playerdata

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/player-qa/player-contract-tests/servicedef"
)

var validPasswordPattern = regexp.MustCompile(`^[a-zA-Z0-9]{7,15}$`)

func isValidPassword(p string) bool {
	return validPasswordPattern.MatchString(p) &&
		regexp.MustCompile(`[a-z]`).MatchString(p) &&
		regexp.MustCompile(`[A-Z]`).MatchString(p) &&
		regexp.MustCompile(`[0-9]`).MatchString(p)
}

func TestGeneratedValuesAreValid(t *testing.T) {
	for i := 0; i < 200; i++ {
		assert.True(t, isValidPassword(ValidPassword()))
		age := ValidAge()
		assert.GreaterOrEqual(t, age, MinValidAge)
		assert.Less(t, age, MaxValidAge)
		assert.Contains(t, ValidRoles(), RandomRole())
		assert.Contains(t, Genders(), RandomGender())
	}
}

func TestGeneratedInvalidValuesAreInvalid(t *testing.T) {
	for i := 0; i < 200; i++ {
		assert.False(t, isValidPassword(InvalidPasswordTooShort()))
		assert.False(t, isValidPassword(InvalidPasswordTooLong()))
		assert.False(t, isValidPassword(InvalidPasswordNoDigits()))
		assert.False(t, isValidPassword(InvalidPasswordNoUppercase()))
		assert.Less(t, InvalidAgeTooYoung(), MinValidAge)
		assert.Greater(t, InvalidAgeTooOld(), MaxValidAge)
		assert.LessOrEqual(t, InvalidPlayerID(), int64(0))
		assert.Greater(t, NonExistentPlayerID(), int64(999998))
	}
}

func TestLoginsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		l := UniqueLogin()
		require.False(t, seen[l], l)
		seen[l] = true
	}
	assert.NotEqual(t, UniqueScreenName(), UniqueScreenName())
}

func TestCreateBuilderDefaultsAreComplete(t *testing.T) {
	r := NewCreatePlayer().Build()
	assert.True(t, r.Login.IsDefined())
	assert.True(t, isValidPassword(r.Password.StringValue()))
	assert.True(t, r.ScreenName.IsDefined())
	assert.Equal(t, "male", r.Gender.StringValue())
	assert.Equal(t, "user", r.Role.StringValue())
	assert.GreaterOrEqual(t, r.Age.IntValue(), MinValidAge)
}

func TestCreateBuilderIsImmutable(t *testing.T) {
	base := NewCreatePlayer().Login("fixed")
	changed := base.Login("other").Without(FieldAge)

	assert.Equal(t, "fixed", base.Build().Login.StringValue())
	assert.True(t, base.Build().Age.IsDefined())
	assert.Equal(t, "other", changed.Build().Login.StringValue())
	assert.False(t, changed.Build().Age.IsDefined())
}

func TestCreateBuilderQueryParamsOmitMissingFields(t *testing.T) {
	q := NewCreatePlayer().Login("abc").Age(21).Without(FieldPassword, FieldRole).Build().QueryParams()
	assert.Equal(t, "abc", q.Get("login"))
	assert.Equal(t, "21", q.Get("age"))
	_, hasPassword := q["password"]
	_, hasRole := q["role"]
	assert.False(t, hasPassword)
	assert.False(t, hasRole)
}

func TestUpdateBuilderIsSparse(t *testing.T) {
	assert.JSONEq(t, `{}`, NewUpdatePlayer().BuildJSON())
	assert.True(t, NewUpdatePlayer().Build().IsEmpty())

	j := NewUpdatePlayer().Age(30).ScreenName("X").BuildJSON()
	assert.JSONEq(t, `{"age":30,"screenName":"X"}`, j)
	assert.NotContains(t, j, "null")
	assert.NotContains(t, j, ",}")
}

func TestUpdateBuilderUnset(t *testing.T) {
	b := BasicUpdate(30, "X").Unset(FieldScreenName)
	assert.JSONEq(t, `{"age":30}`, b.BuildJSON())
}

func TestUpdateRequestMarshalsOnlySetFields(t *testing.T) {
	data, err := RoleUpdate(servicedef.RoleAdmin).Build().MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"admin"}`, string(data))

	data, err = PasswordUpdate("Secret123").Build().MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"password":"Secret123"}`, string(data))
}

func TestPresetsAndFixtures(t *testing.T) {
	assert.Equal(t, "supervisor", SupervisorPlayer().Build().Role.StringValue())
	assert.Equal(t, 35, SupervisorPlayer().Build().Age.IntValue())
	assert.Equal(t, "admin", AdminPlayer().Build().Role.StringValue())
	assert.Equal(t, 30, AdminPlayer().Build().Age.IntValue())

	assert.Equal(t, 25, ValidUser().Build().Age.IntValue())
	admin := ValidAdmin().Build()
	assert.Equal(t, "female", admin.Gender.StringValue())
	assert.Equal(t, "admin", admin.Role.StringValue())
	assert.Equal(t, 17, BoundaryMinAge().Build().Age.IntValue())
	assert.Equal(t, 60, BoundaryMaxAge().Build().Age.IntValue())
	assert.Equal(t, 15, InvalidAgeTooLow().Build().Age.IntValue())
	assert.Equal(t, 61, InvalidAgeTooHigh().Build().Age.IntValue())
	assert.Equal(t, "123", InvalidPasswordUser().Build().Password.StringValue())
	assert.Equal(t, "invalid", InvalidGenderUser().Build().Gender.StringValue())
	assert.Equal(t, "invalid", InvalidRoleUser().Build().Role.StringValue())
	assert.Equal(t, "supervisor", SupervisorRoleUser().Build().Role.StringValue())
	assert.NotEqual(t, ValidUser().Build().Login, ValidUser().Build().Login)
}
