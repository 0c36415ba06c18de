// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/tradepost/internal/platform/request"
	"github.com/taibuivan/tradepost/internal/platform/respond"
	"github.com/taibuivan/tradepost/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements account-related HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// MountPublic registers the endpoints reachable without a token.
//
// # Endpoints
//   - POST /register : Creates a new account and returns its token.
//   - POST /login    : Authenticates and returns a fresh token.
func (handler *Handler) MountPublic(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
}

// MountProtected registers the endpoints that must sit behind the request gate.
//
// # Endpoints
//   - POST /change-password : Replaces the caller's password.
func (handler *Handler) MountProtected(router chi.Router) {
	router.Post("/change-password", handler.changePassword)
}

// # Request Payloads

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// tokenResponse is the body returned by register and login.
func tokenResponse(message, token string) map[string]string {
	return map[string]string{FieldMessage: message, FieldToken: token}
}

/*
Register handles the creation of a new account.

POST /register

Request:
  - Body: credentialsRequest (Username, Password)

Response:
  - 200: {message, token}: Account created and logged in
  - 400: VALIDATION_ERROR or DUPLICATE_USERNAME
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateCredentials(input.Username, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Register(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, tokenResponse("User registered successfully", token))
}

/*
Login authenticates a user and issues a new token.

POST /login

Request:
  - Body: credentialsRequest (Username, Password)

Response:
  - 200: {message, token}: Previous token for the account is now invalid
  - 400: VALIDATION_ERROR
  - 401: INVALID_CREDENTIALS
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateCredentials(input.Username, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, tokenResponse("Login successful", token))
}

/*
ChangePassword updates the caller's password.

POST /change-password

Request:
  - Header: Authorization: Bearer <token>
  - Body: changePasswordRequest (Username optional, OldPassword, NewPassword)

Response:
  - 200: {message}
  - 400: VALIDATION_ERROR
  - 401: UNAUTHENTICATED or INVALID_CREDENTIALS
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		Custom(FieldNewPassword, len(input.NewPassword) > MaxPasswordBytes, "Maximum 72 bytes")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(request.Context(), principal, input.Username, input.OldPassword, input.NewPassword)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]string{FieldMessage: "Password changed successfully"})
}

// validateCredentials checks the register/login body shape.
func validateCredentials(username, password string) error {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Username(FieldUsername, NormalizeUsername(username)).
		Required(FieldPassword, password).
		Custom(FieldPassword, len(password) > MaxPasswordBytes, "Maximum 72 bytes")
	return validator.Err()
}
