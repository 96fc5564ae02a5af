package dto

// RegisterInput defines the input for the RegisterUser service.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput defines the input for the LoginUser service.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
