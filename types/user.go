package types

// User is a registered account in the profile directory. Identity is by ID;
// Email is the natural key used for invite targeting and is unique.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserUpdate carries the editable profile fields.
type UserUpdate struct {
	Name string `json:"name" binding:"required"`
}
