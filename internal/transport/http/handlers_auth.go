package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/service"
	credmodels "github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/pkg/platform/httputil"
)

const maxBodyBytes = 1 << 20

// AuthService is the auth application surface the handlers call.
type AuthService interface {
	Register(ctx context.Context, in models.RegisterInput) (*service.RegisterOutput, error)
	Login(ctx context.Context, in models.LoginInput) (*service.LoginOutput, error)
}

// Handler serves the auth and proof-query endpoints.
type Handler struct {
	auth   AuthService
	logger *slog.Logger
}

// NewHandler constructs the HTTP handler.
func NewHandler(auth AuthService, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

type registerRequest struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email,omitempty"`
	Password      string `json:"password,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
	BirthDate     string `json:"birthDate,omitempty"`
}

type registerResponse struct {
	Identity     string `json:"identity"`
	CredentialID string `json:"credentialId"`
	Confirmed    bool   `json:"confirmed"`
	Verified     bool   `json:"verified"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.DecodeJSON(r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}

	out, err := h.auth.Register(r.Context(), models.RegisterInput{
		FullName:      req.FullName,
		Email:         req.Email,
		Password:      req.Password,
		WalletAddress: req.WalletAddress,
		BirthDate:     req.BirthDate,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, registerResponse{
		Identity:     out.Identity,
		CredentialID: out.CredentialID,
		Confirmed:    out.Confirmed,
		Verified:     out.Verified,
	})
}

type loginRequest struct {
	Email         string `json:"email,omitempty"`
	Password      string `json:"password,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

type loginResponse struct {
	Token     string                   `json:"token"`
	ExpiresAt string                   `json:"expiresAt"`
	Identity  string                   `json:"identity"`
	Evidence  *credmodels.ProofSummary `json:"evidence,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.DecodeJSON(r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}

	out, err := h.auth.Login(r.Context(), models.LoginInput{
		Email:         req.Email,
		Password:      req.Password,
		WalletAddress: req.WalletAddress,
		UserAgent:     r.UserAgent(),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt.UTC().Format(time.RFC3339),
		Identity:  out.Identity,
		Evidence:  out.Evidence,
	})
}
