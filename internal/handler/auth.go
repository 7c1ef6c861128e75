package handler

import (
	"log/slog"
	"net/http"

	"github.com/dagem/foodbridge/internal/apperror"
	"github.com/dagem/foodbridge/internal/auth"
	"github.com/dagem/foodbridge/internal/model"
	"github.com/dagem/foodbridge/internal/service"
)

// AuthHandler serves registration, login, and the current-user endpoint.
type AuthHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

func NewAuthHandler(accounts *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Country  string `json:"country"`

	CompanyName     string `json:"companyName"`
	CompanyType     string `json:"companyType"`
	BusinessLicense string `json:"businessLicense"`
	TaxID           string `json:"taxId"`
	Address         string `json:"address"`
}

type authResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    *model.User `json:"user"`
	Token   string      `json:"token"`
}

// HandleRegister creates an account.
//
// POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Kind:            model.UserKind(req.UserType),
		Phone:           req.Phone,
		City:            req.City,
		Country:         req.Country,
		CompanyName:     req.CompanyName,
		CompanyKind:     model.CompanyKind(req.CompanyType),
		BusinessLicense: req.BusinessLicense,
		TaxID:           req.TaxID,
		Address:         req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Success: true,
		Message: "registration successful",
		User:    res.User,
		Token:   res.Token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a token.
//
// POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "login successful",
		User:    res.User,
		Token:   res.Token,
	})
}

// HandleMe returns the authenticated user and their capability set.
//
// GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	user, err := h.accounts.UserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	caps, err := h.accounts.Capabilities(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"user":         user,
		"capabilities": caps,
	})
}
