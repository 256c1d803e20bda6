package servicedef

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/player-qa/player-contract-tests/compare"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Role string

const (
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
)

const (
	EditorPlaceholder = "{editor}"
	IDPlaceholder     = "{id}"

	EndpointCreate = "/player/create/" + EditorPlaceholder
	EndpointUpdate = "/player/update/" + EditorPlaceholder + "/" + IDPlaceholder
	EndpointDelete = "/player/delete/" + EditorPlaceholder
	EndpointGet    = "/player/get"
	EndpointGetAll = "/player/get/all"
)

// WithEditor fills in the editor path segment. The editor is path-escaped, so a value such as
// "user/../admin" stays a single segment.
func WithEditor(endpoint, editor string) string {
	return strings.Replace(endpoint, EditorPlaceholder, url.PathEscape(editor), 1)
}

// WithID fills in the player ID path segment.
func WithID(endpoint string, id int64) string {
	return strings.Replace(endpoint, IDPlaceholder, strconv.FormatInt(id, 10), 1)
}

// PlayerFields is the set of writable player attributes. Any field may be left undefined; an
// undefined field is left out of the request entirely rather than sent as null.
type PlayerFields struct {
	Login      ldvalue.OptionalString
	Password   ldvalue.OptionalString
	ScreenName ldvalue.OptionalString
	Gender     ldvalue.OptionalString
	Age        ldvalue.OptionalInt
	Role       ldvalue.OptionalString
}

// AsValue builds a JSON object containing only the defined fields.
func (f PlayerFields) AsValue() ldvalue.Value {
	b := ldvalue.ObjectBuild()
	setIfDefined(b, "login", f.Login.AsValue())
	setIfDefined(b, "password", f.Password.AsValue())
	setIfDefined(b, "screenName", f.ScreenName.AsValue())
	setIfDefined(b, "gender", f.Gender.AsValue())
	setIfDefined(b, "age", f.Age.AsValue())
	setIfDefined(b, "role", f.Role.AsValue())
	return b.Build()
}

func setIfDefined(b ldvalue.ObjectBuilder, name string, v ldvalue.Value) {
	if !v.IsNull() {
		b.Set(name, v)
	}
}

// QueryParams renders the defined fields as query parameters.
func (f PlayerFields) QueryParams() url.Values {
	q := url.Values{}
	obj := f.AsValue()
	for _, k := range obj.Keys() {
		v := obj.GetByKey(k)
		if v.IsString() {
			q.Set(k, v.StringValue())
		} else {
			q.Set(k, v.JSONString())
		}
	}
	return q
}

// PlayerCreateRequest is sent to the create endpoint as query parameters.
type PlayerCreateRequest struct {
	PlayerFields
}

func (r PlayerCreateRequest) MarshalJSON() ([]byte, error) {
	return r.AsValue().MarshalJSON()
}

// PlayerUpdateRequest is sent to the update endpoint as a JSON body.
type PlayerUpdateRequest struct {
	PlayerFields
}

func (r PlayerUpdateRequest) MarshalJSON() ([]byte, error) {
	return r.AsValue().MarshalJSON()
}

// IsEmpty is true if no field is set, in which case the JSON body is "{}".
func (r PlayerUpdateRequest) IsEmpty() bool {
	return r.AsValue().Count() == 0
}

type PlayerIDRequest struct {
	PlayerID int64 `json:"playerId"`
}

// PlayerResponse holds the fields that the create, update and get endpoints may return. Each
// endpoint returns a different subset, so every field is optional.
type PlayerResponse struct {
	ID         ldvalue.OptionalInt    `json:"id"`
	Login      ldvalue.OptionalString `json:"login"`
	Password   ldvalue.OptionalString `json:"password"`
	ScreenName ldvalue.OptionalString `json:"screenName"`
	Gender     ldvalue.OptionalString `json:"gender"`
	Age        ldvalue.OptionalInt    `json:"age"`
	Role       ldvalue.OptionalString `json:"role"`
}

// PlayerID returns the numeric ID, or 0 if the response had none.
func (r PlayerResponse) PlayerID() int64 {
	return int64(r.ID.IntValue())
}

func (r PlayerResponse) fields() []compare.Field {
	return []compare.Field{
		{Name: "id", Value: r.ID.AsValue()},
		{Name: "login", Value: r.Login.AsValue()},
		{Name: "password", Value: r.Password.AsValue()},
		{Name: "screenName", Value: r.ScreenName.AsValue()},
		{Name: "gender", Value: r.Gender.AsValue()},
		{Name: "age", Value: r.Age.AsValue()},
		{Name: "role", Value: r.Role.AsValue()},
	}
}

type PlayerCreateResponse struct{ PlayerResponse }

func (r PlayerCreateResponse) RecordType() string      { return "PlayerCreateResponse" }
func (r PlayerCreateResponse) Fields() []compare.Field { return r.fields() }

type PlayerUpdateResponse struct{ PlayerResponse }

func (r PlayerUpdateResponse) RecordType() string      { return "PlayerUpdateResponse" }
func (r PlayerUpdateResponse) Fields() []compare.Field { return r.fields() }

type PlayerGetResponse struct{ PlayerResponse }

func (r PlayerGetResponse) RecordType() string      { return "PlayerGetResponse" }
func (r PlayerGetResponse) Fields() []compare.Field { return r.fields() }

// PlayerListItem is the narrower representation used by the get-all endpoint.
type PlayerListItem struct {
	ID         ldvalue.OptionalInt    `json:"id"`
	ScreenName ldvalue.OptionalString `json:"screenName"`
	Gender     ldvalue.OptionalString `json:"gender"`
	Age        ldvalue.OptionalInt    `json:"age"`
	Role       ldvalue.OptionalString `json:"role"`
}

func (p PlayerListItem) RecordType() string { return "PlayerListItem" }

func (p PlayerListItem) Fields() []compare.Field {
	return []compare.Field{
		{Name: "id", Value: p.ID.AsValue()},
		{Name: "screenName", Value: p.ScreenName.AsValue()},
		{Name: "gender", Value: p.Gender.AsValue()},
		{Name: "age", Value: p.Age.AsValue()},
		{Name: "role", Value: p.Role.AsValue()},
	}
}

type PlayerListResponse struct {
	Players []PlayerListItem `json:"players"`
}

// Find returns the list entry with the given ID.
func (r PlayerListResponse) Find(id int64) (PlayerListItem, bool) {
	for _, p := range r.Players {
		if int64(p.ID.IntValue()) == id {
			return p, true
		}
	}
	return PlayerListItem{}, false
}

// ErrorResponse is the error body shape of the player service.
type ErrorResponse struct {
	Timestamp string `json:"timestamp,omitempty"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Path      string `json:"path"`
}
