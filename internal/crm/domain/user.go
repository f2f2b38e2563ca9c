package domain

import "strings"

// User is the signed-in person as this service sees them. It mirrors the
// backend profile with the opaque role already resolved to a logical Role.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// FullName joins the name parts, tolerating a missing half.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
