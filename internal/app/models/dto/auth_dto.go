package dto

// LoginRequest is the payload of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"porteria1"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// LoginResponse carries the operator session token
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"3600"`
	Operator    struct {
		ID       int64  `json:"id" example:"1"`
		Username string `json:"username" example:"porteria1"`
		FullName string `json:"fullName" example:"Portería Principal"`
		Role     string `json:"role" example:"GATE"`
	} `json:"operator"`
}
