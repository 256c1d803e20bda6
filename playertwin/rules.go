package playertwin

import (
	"fmt"
	"net/http"
	"regexp"
)

const (
	roleSupervisor = "supervisor"
	roleAdmin      = "admin"
	roleUser       = "user"

	minAge = 16
	maxAge = 60
)

var (
	passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9]{7,15}$`)
	hasLower        = regexp.MustCompile(`[a-z]`)
	hasUpper        = regexp.MustCompile(`[A-Z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
)

// apiError carries the HTTP status that a handler should respond with.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return e.message
}

func badRequest(format string, args ...interface{}) error {
	return &apiError{status: http.StatusBadRequest, message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...interface{}) error {
	return &apiError{status: http.StatusForbidden, message: fmt.Sprintf(format, args...)}
}

func checkLogin(login string) error {
	if login == "" {
		return badRequest("login is required")
	}
	return nil
}

func checkScreenName(screenName string) error {
	if screenName == "" {
		return badRequest("screenName is required")
	}
	return nil
}

func checkPassword(password string) error {
	if !passwordPattern.MatchString(password) || !hasLower.MatchString(password) ||
		!hasUpper.MatchString(password) || !hasDigit.MatchString(password) {
		return badRequest("password must be 7-15 latin letters and digits, with at least one upper case letter, one lower case letter and one digit")
	}
	return nil
}

func checkGender(gender string) error {
	if gender != "male" && gender != "female" {
		return badRequest("gender must be male or female, got %q", gender)
	}
	return nil
}

func checkAge(age int) error {
	if age < minAge || age > maxAge {
		return badRequest("age must be between %d and %d, got %d", minAge, maxAge, age)
	}
	return nil
}

// checkAssignableRole accepts only roles that can be given to a player through the API.
func checkAssignableRole(role string) error {
	switch role {
	case roleUser, roleAdmin:
		return nil
	case roleSupervisor:
		return badRequest("role supervisor can't be assigned")
	default:
		return badRequest("role must be admin or user, got %q", role)
	}
}

// canAssign reports whether editor may create a player with the given role, or give that role
// to an existing player.
func canAssign(editor Player, role string) bool {
	switch editor.Role {
	case roleSupervisor:
		return role == roleAdmin || role == roleUser
	case roleAdmin:
		return role == roleUser
	default:
		return false
	}
}

func canUpdate(editor, target Player) bool {
	if editor.ID == target.ID {
		return true
	}
	switch editor.Role {
	case roleSupervisor:
		return true
	case roleAdmin:
		return target.Role == roleUser
	default:
		return false
	}
}

func canDelete(editor, target Player) bool {
	if target.Role == roleSupervisor {
		return false
	}
	switch editor.Role {
	case roleSupervisor:
		return true
	case roleAdmin:
		return target.Role == roleUser || editor.ID == target.ID
	default:
		return false
	}
}
