package dto

// -------- Core auth --------

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,bcryptmax"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,bcryptmax"`
}

type RenewRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required,max=4096"`
}
