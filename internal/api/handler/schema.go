package handler

import "time"

// --- Request types ---

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type uploadRequest struct {
	Task  string `json:"task"  validate:"required"`
	Admin string `json:"admin" validate:"required"`
}

type shopTokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Coordinates are pointers so a legitimate 0.0 (equator, prime meridian)
// survives the required check.
type registerShopRequest struct {
	Name      string   `json:"name"      validate:"required"`
	Latitude  *float64 `json:"latitude"  validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type accountResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	UserType  string    `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	UserType    string `json:"user_type"`
	AccessToken string `json:"access_token"`
}

type assignmentResponse struct {
	AssignID    string     `json:"assign_id"`
	UserName    string     `json:"user_name"`
	Task        string     `json:"task"`
	Admin       string     `json:"admin"`
	Status      string     `json:"status"`
	SubmittedAt time.Time  `json:"submitted_at"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
}

type adminResponse struct {
	Username string `json:"username"`
}

type shopResponse struct {
	ShopID    string  `json:"shop_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}
