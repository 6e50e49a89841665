package domain

// LoginForm is the login request body; key matching is case-insensitive so "username" works too
type LoginForm struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Credentials converts the form into the identity checked by the store
func (f LoginForm) Credentials() Credentials {
	return Credentials{UserName: f.UserName, Password: f.Password}
}
