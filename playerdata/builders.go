package playerdata

import (
	"github.com/player-qa/player-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Field names a player attribute, for use with Without and Unset.
type Field string

const (
	FieldLogin      Field = "login"
	FieldPassword   Field = "password"
	FieldScreenName Field = "screenName"
	FieldGender     Field = "gender"
	FieldAge        Field = "age"
	FieldRole       Field = "role"
)

func clearField(f servicedef.PlayerFields, name Field) servicedef.PlayerFields {
	switch name {
	case FieldLogin:
		f.Login = ldvalue.OptionalString{}
	case FieldPassword:
		f.Password = ldvalue.OptionalString{}
	case FieldScreenName:
		f.ScreenName = ldvalue.OptionalString{}
	case FieldGender:
		f.Gender = ldvalue.OptionalString{}
	case FieldAge:
		f.Age = ldvalue.OptionalInt{}
	case FieldRole:
		f.Role = ldvalue.OptionalString{}
	}
	return f
}

// CreatePlayer builds a PlayerCreateRequest. Every method returns a new builder and leaves the
// receiver untouched, so a builder can be shared as a template.
type CreatePlayer struct {
	fields servicedef.PlayerFields
}

// NewCreatePlayer starts from a valid player: unique login and screen name, a valid password,
// male, a random valid age, and the user role.
func NewCreatePlayer() CreatePlayer {
	return CreatePlayer{}.
		Login(UniqueLogin()).
		Password(ValidPassword()).
		ScreenName(UniqueScreenName()).
		Gender(string(servicedef.GenderMale)).
		Age(ValidAge()).
		Role(string(servicedef.RoleUser))
}

func (b CreatePlayer) Login(v string) CreatePlayer {
	b.fields.Login = ldvalue.NewOptionalString(v)
	return b
}

func (b CreatePlayer) Password(v string) CreatePlayer {
	b.fields.Password = ldvalue.NewOptionalString(v)
	return b
}

func (b CreatePlayer) ScreenName(v string) CreatePlayer {
	b.fields.ScreenName = ldvalue.NewOptionalString(v)
	return b
}

// Gender takes a plain string so that invalid values can be sent.
func (b CreatePlayer) Gender(v string) CreatePlayer {
	b.fields.Gender = ldvalue.NewOptionalString(v)
	return b
}

func (b CreatePlayer) Age(v int) CreatePlayer {
	b.fields.Age = ldvalue.NewOptionalInt(v)
	return b
}

// Role takes a plain string so that invalid values can be sent.
func (b CreatePlayer) Role(v string) CreatePlayer {
	b.fields.Role = ldvalue.NewOptionalString(v)
	return b
}

// Without removes fields from the request altogether.
func (b CreatePlayer) Without(names ...Field) CreatePlayer {
	for _, n := range names {
		b.fields = clearField(b.fields, n)
	}
	return b
}

func (b CreatePlayer) Build() servicedef.PlayerCreateRequest {
	return servicedef.PlayerCreateRequest{PlayerFields: b.fields}
}

// BuildJSON renders the request as a JSON object containing only the fields that are set.
func (b CreatePlayer) BuildJSON() string {
	return b.fields.AsValue().JSONString()
}

// ValidPlayer is NewCreatePlayer under a name that reads better in tests.
func ValidPlayer() CreatePlayer {
	return NewCreatePlayer()
}

func SupervisorPlayer() CreatePlayer {
	return NewCreatePlayer().Role(string(servicedef.RoleSupervisor)).Age(35)
}

func AdminPlayer() CreatePlayer {
	return NewCreatePlayer().Role(string(servicedef.RoleAdmin)).Age(30)
}

// UpdatePlayer builds a sparse PlayerUpdateRequest. Nothing is set by default.
type UpdatePlayer struct {
	fields servicedef.PlayerFields
}

func NewUpdatePlayer() UpdatePlayer {
	return UpdatePlayer{}
}

func (b UpdatePlayer) Login(v string) UpdatePlayer {
	b.fields.Login = ldvalue.NewOptionalString(v)
	return b
}

func (b UpdatePlayer) Password(v string) UpdatePlayer {
	b.fields.Password = ldvalue.NewOptionalString(v)
	return b
}

func (b UpdatePlayer) ScreenName(v string) UpdatePlayer {
	b.fields.ScreenName = ldvalue.NewOptionalString(v)
	return b
}

func (b UpdatePlayer) Gender(v string) UpdatePlayer {
	b.fields.Gender = ldvalue.NewOptionalString(v)
	return b
}

func (b UpdatePlayer) Age(v int) UpdatePlayer {
	b.fields.Age = ldvalue.NewOptionalInt(v)
	return b
}

func (b UpdatePlayer) Role(v string) UpdatePlayer {
	b.fields.Role = ldvalue.NewOptionalString(v)
	return b
}

// Unset clears fields that were set earlier.
func (b UpdatePlayer) Unset(names ...Field) UpdatePlayer {
	for _, n := range names {
		b.fields = clearField(b.fields, n)
	}
	return b
}

func (b UpdatePlayer) Build() servicedef.PlayerUpdateRequest {
	return servicedef.PlayerUpdateRequest{PlayerFields: b.fields}
}

// BuildJSON renders only the fields that were set; an empty builder gives "{}".
func (b UpdatePlayer) BuildJSON() string {
	return b.fields.AsValue().JSONString()
}

func BasicUpdate(age int, screenName string) UpdatePlayer {
	return NewUpdatePlayer().Age(age).ScreenName(screenName)
}

func RoleUpdate(role servicedef.Role) UpdatePlayer {
	return NewUpdatePlayer().Role(string(role))
}

func PasswordUpdate(password string) UpdatePlayer {
	return NewUpdatePlayer().Password(password)
}
