package playertwin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/player-qa/player-contract-tests/logging"
)

func newTestServer(t *testing.T) (*httptest.Server, *Twin) {
	twin := New(logging.Discard())
	server := httptest.NewServer(twin)
	t.Cleanup(server.Close)
	return server, twin
}

func do(t *testing.T, method, target, body string) (int, string) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func validQuery() url.Values {
	return url.Values{
		"login":      {"newbie"},
		"password":   {"Secret123"},
		"screenName": {"Newbie"},
		"gender":     {"female"},
		"age":        {"20"},
		"role":       {"user"},
	}
}

func create(t *testing.T, server *httptest.Server, editor string, q url.Values) (int, string) {
	return do(t, "GET", server.URL+"/player/create/"+editor+"?"+q.Encode(), "")
}

func TestSeededPlayers(t *testing.T) {
	server, _ := newTestServer(t)
	status, body := do(t, "GET", server.URL+"/player/get/all", "")
	require.Equal(t, 200, status)
	var list playerListJSON
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Players, 3)
	assert.Equal(t, "supervisor", list.Players[0].Role)
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "login")
}

func TestCreateAndGet(t *testing.T) {
	server, _ := newTestServer(t)
	status, body := create(t, server, "supervisor", validQuery())
	require.Equal(t, 200, status, body)

	var created playerJSON
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, "Secret123", created.Password)

	status, body = do(t, "POST", server.URL+"/player/get", `{"playerId":4}`)
	require.Equal(t, 200, status)
	assert.JSONEq(t, `{"id":4,"login":"newbie","password":"Secret123","screenName":"Newbie","gender":"female","age":20,"role":"user"}`, body)
}

func TestCreateValidation(t *testing.T) {
	server, _ := newTestServer(t)
	for _, tc := range []struct {
		name, field, value string
	}{
		{"age too low", "age", "15"},
		{"age too high", "age", "61"},
		{"age not a number", "age", "old"},
		{"short password", "password", "Ab1"},
		{"password without digit", "password", "NoDigitsHere"},
		{"bad gender", "gender", "other"},
		{"bad role", "role", "manager"},
		{"supervisor role", "role", "supervisor"},
		{"empty login", "login", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := validQuery()
			q.Set(tc.field, tc.value)
			status, body := create(t, server, "supervisor", q)
			assert.Equal(t, 400, status)
			assert.Contains(t, body, `"status":400`)
		})
	}

	q := validQuery()
	q.Del("login")
	status, _ := create(t, server, "supervisor", q)
	assert.Equal(t, 400, status)

	status, _ = create(t, server, "supervisor", url.Values{})
	assert.Equal(t, 400, status)
}

func TestBoundaryAgesAccepted(t *testing.T) {
	server, _ := newTestServer(t)
	for i, age := range []string{"16", "17", "60"} {
		q := validQuery()
		q.Set("age", age)
		q.Set("login", "boundary"+age)
		status, body := create(t, server, "supervisor", q)
		assert.Equal(t, 200, status, "case %d: %s", i, body)
	}
}

func TestCreateAuthorization(t *testing.T) {
	server, _ := newTestServer(t)

	status, _ := create(t, server, "user", validQuery())
	assert.Equal(t, 403, status)

	status, _ = create(t, server, "nobody", validQuery())
	assert.Equal(t, 403, status)

	q := validQuery()
	q.Set("role", "admin")
	status, _ = create(t, server, "admin", q)
	assert.Equal(t, 403, status)

	status, _ = create(t, server, "admin", validQuery())
	assert.Equal(t, 200, status)
}

func TestDuplicateLogin(t *testing.T) {
	server, _ := newTestServer(t)
	status, _ := create(t, server, "supervisor", validQuery())
	require.Equal(t, 200, status)
	status, body := create(t, server, "supervisor", validQuery())
	assert.Equal(t, 409, status)
	assert.Contains(t, body, "Conflict")
}

func TestUpdate(t *testing.T) {
	server, twin := newTestServer(t)
	status, body := do(t, "PATCH", server.URL+"/player/update/supervisor/3", `{"age":30,"screenName":"X"}`)
	require.Equal(t, 200, status, body)
	assert.JSONEq(t, `{"id":3,"login":"user","screenName":"X","gender":"male","age":30,"role":"user"}`, body)

	p, _ := twin.Store.Get(3)
	assert.Equal(t, 30, p.Age)

	status, _ = do(t, "PATCH", server.URL+"/player/update/supervisor/3", `{"age":70}`)
	assert.Equal(t, 400, status)
	status, _ = do(t, "PATCH", server.URL+"/player/update/supervisor/3", `{"gender":123}`)
	assert.Equal(t, 400, status)
	status, _ = do(t, "PATCH", server.URL+"/player/update/supervisor/3", `{"login":"admin"}`)
	assert.Equal(t, 409, status)
	status, _ = do(t, "PATCH", server.URL+"/player/update/user/2", `{"age":30}`)
	assert.Equal(t, 403, status)
	status, _ = do(t, "PATCH", server.URL+"/player/update/supervisor/3", `{"role":"supervisor"}`)
	assert.Equal(t, 400, status)
}

func TestUpdateOfMissingPlayerIsEmptyOK(t *testing.T) {
	server, _ := newTestServer(t)
	status, body := do(t, "PATCH", server.URL+"/player/update/supervisor/999999999", `{"age":30}`)
	assert.Equal(t, 200, status)
	assert.Equal(t, "", body)
}

func TestGetOfMissingPlayerIsEmptyOK(t *testing.T) {
	server, _ := newTestServer(t)
	status, body := do(t, "POST", server.URL+"/player/get", `{"playerId":-1}`)
	assert.Equal(t, 200, status)
	assert.Equal(t, "", body)

	status, _ = do(t, "POST", server.URL+"/player/get", `not json`)
	assert.Equal(t, 400, status)
}

func TestDelete(t *testing.T) {
	server, twin := newTestServer(t)

	status, _ := do(t, "DELETE", server.URL+"/player/delete/user", `{"playerId":3}`)
	assert.Equal(t, 403, status)
	status, _ = do(t, "DELETE", server.URL+"/player/delete/nobody", `{"playerId":3}`)
	assert.Equal(t, 403, status)
	status, _ = do(t, "DELETE", server.URL+"/player/delete/admin", `{"playerId":999999999}`)
	assert.Equal(t, 403, status)
	status, _ = do(t, "DELETE", server.URL+"/player/delete/admin", `{"playerId":1}`)
	assert.Equal(t, 403, status)
	status, _ = do(t, "DELETE", server.URL+"/player/delete/", `{"playerId":3}`)
	assert.Equal(t, 404, status)
	status, _ = do(t, "DELETE", server.URL+"/player/delete/user%2F..%2Fadmin", `{"playerId":3}`)
	assert.Equal(t, 400, status)

	status, _ = do(t, "DELETE", server.URL+"/player/delete/admin", `{"playerId":3}`)
	assert.Equal(t, 200, status)
	_, ok := twin.Store.Get(3)
	assert.False(t, ok)
}

func TestUnknownRouteGivesErrorBody(t *testing.T) {
	server, _ := newTestServer(t)
	status, body := do(t, "GET", server.URL+"/nothing", "")
	assert.Equal(t, 404, status)
	assert.Contains(t, body, `"error":"Not Found"`)
	assert.Contains(t, body, `"path":"/nothing"`)
}

func TestStartAndClose(t *testing.T) {
	s, err := Start("127.0.0.1:0", logging.Discard())
	require.NoError(t, err)
	status, _ := do(t, "GET", s.URL+"/player/get/all", "")
	assert.Equal(t, 200, status)
	assert.NoError(t, s.Close())
}
