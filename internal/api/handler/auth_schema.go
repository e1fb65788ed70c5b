package handler

// --- Request / Response types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email,min=5,max=50"`
	Password string `json:"password" validate:"required,min=6,max=50,alphanum"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email,min=5,max=50"`
	Password string `json:"password" validate:"required,min=6,max=50,alphanum"`
}

// accountResponse exposes only the public identity fields; the password
// hash never leaves the service.
type accountResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type authResponse struct {
	User  accountResponse `json:"user"`
	Token string          `json:"token"`
}
