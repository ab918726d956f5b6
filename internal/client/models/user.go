package models

// User is a directory entry as returned by the backend. The password is
// write-only and never decoded from reads.
type User struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	Surname   string   `json:"surname"`
	Email     string   `json:"email"`
	Birthdate string   `json:"birthdate"`
	FileNames []string `json:"file_names,omitempty"`
}

// FullName joins first name and surname for display.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.Surname
	case u.Surname == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.Surname
	}
}

// UserInput is the write shape used for registration and profile updates.
// Empty fields are omitted, which makes it usable as a partial update.
type UserInput struct {
	FirstName string `json:"first_name,omitempty"`
	Surname   string `json:"surname,omitempty"`
	Email     string `json:"email,omitempty"`
	Birthdate string `json:"birthdate,omitempty"`
	Password  string `json:"password,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u UserInput) IsEmpty() bool {
	return u == UserInput{}
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the login response body.
type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Confirmation is the body returned by delete endpoints.
type Confirmation struct {
	Message string `json:"message"`
}
