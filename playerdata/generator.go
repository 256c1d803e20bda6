package playerdata

import (
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/player-qa/player-contract-tests/servicedef"
)

const (
	MinValidAge = 16
	MaxValidAge = 60

	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars = "0123456789"
	alnumChars = lowerChars + upperChars + digitChars
)

var (
	loginPrefixes = []string{"player", "gamer", "tester", "rookie", "veteran"}
	screenWords   = []string{"Pikachu", "Eevee", "Snorlax", "Gengar", "Mewtwo", "Lapras", "Onix"}
)

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func pick(s []string) string {
	return s[rand.Intn(len(s))]
}

func randomString(charset string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// between returns a random int in [min, max].
func between(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// UniqueLogin returns a login that will not collide with any other generated login.
func UniqueLogin() string {
	return pick(loginPrefixes) + "_" + shortID()
}

func UniqueScreenName() string {
	return pick(screenWords) + "_" + shortID()
}

// ValidPassword returns 8 to 14 alphanumerics with at least one upper case letter, one lower
// case letter and one digit.
func ValidPassword() string {
	n := between(8, 14)
	b := []byte(randomString(alnumChars, n))
	positions := rand.Perm(n)[:3]
	b[positions[0]] = upperChars[rand.Intn(len(upperChars))]
	b[positions[1]] = lowerChars[rand.Intn(len(lowerChars))]
	b[positions[2]] = digitChars[rand.Intn(len(digitChars))]
	return string(b)
}

// ValidAge returns an age in [MinValidAge, MaxValidAge).
func ValidAge() int {
	return between(MinValidAge, MaxValidAge-1)
}

func RandomGender() servicedef.Gender {
	if rand.Intn(2) == 0 {
		return servicedef.GenderMale
	}
	return servicedef.GenderFemale
}

// RandomRole returns a role that a supervisor is allowed to create.
func RandomRole() servicedef.Role {
	if rand.Intn(2) == 0 {
		return servicedef.RoleUser
	}
	return servicedef.RoleAdmin
}

func InvalidPasswordTooShort() string {
	return randomString(alnumChars, between(3, 6))
}

func InvalidPasswordTooLong() string {
	return randomString(alnumChars, between(16, 25))
}

func InvalidPasswordNoDigits() string {
	return randomString(lowerChars+upperChars, between(8, 12))
}

func InvalidPasswordNoUppercase() string {
	return randomString(lowerChars+digitChars, between(8, 12))
}

func InvalidAgeTooYoung() int {
	return between(1, MinValidAge-2)
}

func InvalidAgeTooOld() int {
	return between(MaxValidAge+1, 120)
}

func InvalidGender() string {
	return pick(InvalidGenders())
}

func InvalidRole() string {
	return pick(InvalidRoles())
}

// NonExistentPlayerID returns an ID far beyond anything a test run creates.
func NonExistentPlayerID() int64 {
	return int64(between(999999, 9999999))
}

// InvalidPlayerID returns a zero or negative ID.
func InvalidPlayerID() int64 {
	return int64(between(-1000, 0))
}
