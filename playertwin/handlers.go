package playertwin

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type playerJSON struct {
	ID         int64  `json:"id"`
	Login      string `json:"login"`
	Password   string `json:"password,omitempty"`
	ScreenName string `json:"screenName"`
	Gender     string `json:"gender"`
	Age        int    `json:"age"`
	Role       string `json:"role"`
}

func toJSON(p Player, withPassword bool) playerJSON {
	j := playerJSON{ID: p.ID, Login: p.Login, ScreenName: p.ScreenName, Gender: p.Gender, Age: p.Age, Role: p.Role}
	if withPassword {
		j.Password = p.Password
	}
	return j
}

type playerItemJSON struct {
	ID         int64  `json:"id"`
	ScreenName string `json:"screenName"`
	Gender     string `json:"gender"`
	Age        int    `json:"age"`
	Role       string `json:"role"`
}

type playerListJSON struct {
	Players []playerItemJSON `json:"players"`
}

type playerIDJSON struct {
	PlayerID *int64 `json:"playerId"`
}

// updateJSON uses pointers so that absent fields can be told apart from zero values. A field of
// the wrong JSON type fails decoding.
type updateJSON struct {
	Login      *string `json:"login"`
	Password   *string `json:"password"`
	ScreenName *string `json:"screenName"`
	Gender     *string `json:"gender"`
	Age        *int    `json:"age"`
	Role       *string `json:"role"`
}

type errorJSON struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Path      string `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, errorJSON{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      r.URL.Path,
	})
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apiError
	switch {
	case errors.As(err, &ae):
		writeError(w, r, ae.status, ae.message)
	case errors.Is(err, ErrLoginTaken):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}

// editorParam returns the unescaped editor path segment.
func editorParam(r *http.Request) (string, error) {
	editor, err := url.PathUnescape(chi.URLParam(r, "editor"))
	if err != nil {
		return "", badRequest("malformed editor")
	}
	return editor, nil
}

func (t *Twin) lookupEditor(r *http.Request) (Player, error) {
	login, err := editorParam(r)
	if err != nil {
		return Player{}, err
	}
	if strings.Contains(login, "/") {
		return Player{}, badRequest("malformed editor %q", login)
	}
	editor, ok := t.Store.FindByLogin(login)
	if !ok {
		return Player{}, forbidden("editor %q does not exist", login)
	}
	return editor, nil
}

func decodeBody(r *http.Request, target interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(target); err != nil {
		return badRequest("malformed request body: %s", err)
	}
	return nil
}

func requireQuery(q url.Values, name string) (string, error) {
	if _, ok := q[name]; !ok {
		return "", badRequest("%s is required", name)
	}
	return q.Get(name), nil
}

func playerFromQuery(q url.Values) (Player, error) {
	var p Player
	var err error
	var age string
	for _, f := range []struct {
		name string
		dest *string
	}{
		{"login", &p.Login},
		{"password", &p.Password},
		{"screenName", &p.ScreenName},
		{"gender", &p.Gender},
		{"age", &age},
		{"role", &p.Role},
	} {
		if *f.dest, err = requireQuery(q, f.name); err != nil {
			return p, err
		}
	}
	if p.Age, err = strconv.Atoi(age); err != nil {
		return p, badRequest("age must be an integer, got %q", age)
	}
	for _, check := range []error{
		checkLogin(p.Login),
		checkPassword(p.Password),
		checkScreenName(p.ScreenName),
		checkGender(p.Gender),
		checkAge(p.Age),
		checkAssignableRole(p.Role),
	} {
		if check != nil {
			return p, check
		}
	}
	return p, nil
}

// CreatePlayer handles GET /player/create/{editor}.
func (t *Twin) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	editor, err := t.lookupEditor(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	p, err := playerFromQuery(r.URL.Query())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if !canAssign(editor, p.Role) {
		writeErr(w, r, forbidden("%s %q can't create a player with role %s", editor.Role, editor.Login, p.Role))
		return
	}
	created, err := t.Store.Create(p)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(created, true))
}

func (u updateJSON) apply(editor Player, p *Player) error {
	if !canUpdate(editor, *p) {
		return forbidden("%s %q can't update player %d", editor.Role, editor.Login, p.ID)
	}
	if u.Login != nil {
		if err := checkLogin(*u.Login); err != nil {
			return err
		}
		p.Login = *u.Login
	}
	if u.Password != nil {
		if err := checkPassword(*u.Password); err != nil {
			return err
		}
		p.Password = *u.Password
	}
	if u.ScreenName != nil {
		if err := checkScreenName(*u.ScreenName); err != nil {
			return err
		}
		p.ScreenName = *u.ScreenName
	}
	if u.Gender != nil {
		if err := checkGender(*u.Gender); err != nil {
			return err
		}
		p.Gender = *u.Gender
	}
	if u.Age != nil {
		if err := checkAge(*u.Age); err != nil {
			return err
		}
		p.Age = *u.Age
	}
	if u.Role != nil && *u.Role != p.Role {
		if err := checkAssignableRole(*u.Role); err != nil {
			return err
		}
		if !canAssign(editor, *u.Role) {
			return forbidden("%s %q can't assign role %s", editor.Role, editor.Login, *u.Role)
		}
		p.Role = *u.Role
	}
	return nil
}

// UpdatePlayer handles PATCH /player/update/{editor}/{id}. Like the real service, it answers an
// update of a missing player with 200 and an empty body.
func (t *Twin) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	editor, err := t.lookupEditor(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, r, badRequest("player ID must be an integer"))
		return
	}
	var body updateJSON
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	updated, err := t.Store.Update(id, func(p *Player) error { return body.apply(editor, p) })
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusOK)
		return
	}
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(updated, false))
}

// DeletePlayer handles DELETE /player/delete/{editor}. Deleting a missing player is forbidden
// rather than not found.
func (t *Twin) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	login, err := editorParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if login == "" {
		writeError(w, r, http.StatusNotFound, "")
		return
	}
	editor, err := t.lookupEditor(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var body playerIDJSON
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	if body.PlayerID == nil {
		writeErr(w, r, badRequest("playerId is required"))
		return
	}
	target, ok := t.Store.Get(*body.PlayerID)
	if !ok || !canDelete(editor, target) {
		writeErr(w, r, forbidden("%s %q can't delete player %d", editor.Role, editor.Login, *body.PlayerID))
		return
	}
	t.Store.Delete(target.ID)
	w.WriteHeader(http.StatusOK)
}

// GetPlayer handles POST /player/get. A missing player gives 200 with an empty body.
func (t *Twin) GetPlayer(w http.ResponseWriter, r *http.Request) {
	var body playerIDJSON
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, r, err)
		return
	}
	if body.PlayerID == nil {
		writeErr(w, r, badRequest("playerId is required"))
		return
	}
	p, ok := t.Store.Get(*body.PlayerID)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(p, true))
}

// GetAllPlayers handles GET /player/get/all.
func (t *Twin) GetAllPlayers(w http.ResponseWriter, r *http.Request) {
	all := t.Store.All()
	resp := playerListJSON{Players: make([]playerItemJSON, 0, len(all))}
	for _, p := range all {
		resp.Players = append(resp.Players, playerItemJSON{
			ID: p.ID, ScreenName: p.ScreenName, Gender: p.Gender, Age: p.Age, Role: p.Role,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
