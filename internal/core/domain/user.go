package domain

import "time"

const (
	RoleWorker    = "worker"
	RoleTherapist = "therapist"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the roles a user can register with.
func ValidRole(role string) bool {
	switch role {
	case RoleWorker, RoleTherapist, RoleAdmin:
		return true
	}
	return false
}

// User models an authenticated actor in the system.
type User struct {
	ID           uint      `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
