package playerdata

import "github.com/player-qa/player-contract-tests/servicedef"

// Canned players. Each call produces a fresh login and screen name, so the results can be
// created repeatedly against the same service.

func ValidUser() CreatePlayer {
	return NewCreatePlayer().
		Age(25).
		Gender(string(servicedef.GenderMale)).
		Role(string(servicedef.RoleUser))
}

func ValidAdmin() CreatePlayer {
	return NewCreatePlayer().
		Age(30).
		Gender(string(servicedef.GenderFemale)).
		Role(string(servicedef.RoleAdmin))
}

func BoundaryMinAge() CreatePlayer      { return ValidUser().Age(17) }
func BoundaryMaxAge() CreatePlayer      { return ValidUser().Age(60) }
func InvalidAgeTooLow() CreatePlayer    { return ValidUser().Age(15) }
func InvalidAgeTooHigh() CreatePlayer   { return ValidUser().Age(61) }
func InvalidPasswordUser() CreatePlayer { return ValidUser().Password("123") }
func InvalidGenderUser() CreatePlayer   { return ValidUser().Gender("invalid") }
func InvalidRoleUser() CreatePlayer     { return ValidUser().Role("invalid") }

func SupervisorRoleUser() CreatePlayer {
	return ValidUser().Role(string(servicedef.RoleSupervisor))
}

// Data sets for table-driven tests.

// ValidRoles lists the roles a supervisor may assign.
func ValidRoles() []servicedef.Role {
	return []servicedef.Role{servicedef.RoleUser, servicedef.RoleAdmin}
}

func Genders() []servicedef.Gender {
	return []servicedef.Gender{servicedef.GenderMale, servicedef.GenderFemale}
}

// BoundaryAges are valid ages at or next to the edges of the accepted range.
func BoundaryAges() []int {
	return []int{17, 18, 59, 60}
}

func InvalidAges() []int {
	return []int{-1, 0, 15, 61, 200}
}

func InvalidPasswords() []string {
	return []string{"", "short", "nouppercase123", "NOLOWERCASE123", "NoDigitsHere"}
}

func InvalidGenders() []string {
	return []string{"unknown", "other", "invalid", "", "123"}
}

func InvalidRoles() []string {
	return []string{"manager", "guest", "moderator", "invalid", "", "123"}
}

func InvalidPlayerIDs() []int64 {
	return []int64{-1, 0, 999999999}
}
