// internal/domain/role.go
package domain

// Role distinguishes the two kinds of signed-in users.
type Role string

const (
	RoleCoach   Role = "coach"
	RoleAthlete Role = "athlete"
)

func (r Role) IsCoach() bool {
	return r == RoleCoach
}

func (r Role) IsAthlete() bool {
	return r == RoleAthlete
}
