package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/service"
	credmodels "github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/health"
	dErrors "github.com/0xronaldo/backend-zkp-lastproyect/pkg/domain-errors"
)

type fakeAuth struct {
	registerOut *service.RegisterOutput
	registerErr error
	loginOut    *service.LoginOutput
	loginErr    error

	lastRegister models.RegisterInput
	lastLogin    models.LoginInput
}

func (f *fakeAuth) Register(_ context.Context, in models.RegisterInput) (*service.RegisterOutput, error) {
	f.lastRegister = in
	return f.registerOut, f.registerErr
}

func (f *fakeAuth) Login(_ context.Context, in models.LoginInput) (*service.LoginOutput, error) {
	f.lastLogin = in
	return f.loginOut, f.loginErr
}

func newTestServer(auth *fakeAuth) http.Handler {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewRouter(NewHandler(auth, logger), health.New("test"), logger)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleRegister(t *testing.T) {
	auth := &fakeAuth{registerOut: &service.RegisterOutput{
		Identity:     "did:polygonid:polygon:amoy:2qSubject",
		CredentialID: "cred-1",
		Confirmed:    true,
		Verified:     true,
	}}
	srv := newTestServer(auth)

	rec := postJSON(t, srv, "/auth/register", map[string]string{
		"fullName":  "Ada Lovelace",
		"email":     "ada@example.com",
		"password":  "correct horse battery",
		"birthDate": "1990-12-10",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "did:polygonid:polygon:amoy:2qSubject", resp["identity"])
	assert.Equal(t, "cred-1", resp["credentialId"])
	assert.Equal(t, true, resp["confirmed"])
	assert.Equal(t, true, resp["verified"])

	assert.Equal(t, "Ada Lovelace", auth.lastRegister.FullName)
	assert.Equal(t, "1990-12-10", auth.lastRegister.BirthDate)
}

func TestHandleRegisterRejectsUnknownFields(t *testing.T) {
	auth := &fakeAuth{}
	srv := newTestServer(auth)

	rec := postJSON(t, srv, "/auth/register", map[string]string{
		"fullName": "Ada",
		"email":    "ada@example.com",
		"password": "long enough",
		"isAdmin":  "true",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRegisterErrorTranslation(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "invalid input",
			err:    dErrors.New(dErrors.CodeInvalidInput, "email is required"),
			status: http.StatusBadRequest,
			code:   "invalid_input",
		},
		{
			name:   "duplicate",
			err:    dErrors.New(dErrors.CodeConflict, "principal already registered"),
			status: http.StatusConflict,
			code:   "conflict",
		},
		{
			name:   "issuer unreachable",
			err:    dErrors.New(dErrors.CodeIssuerUnreachable, "issuer node unreachable"),
			status: http.StatusBadGateway,
			code:   "issuer_unreachable",
		},
		{
			name:   "issuer timeout",
			err:    dErrors.New(dErrors.CodeIssuerTimeout, "issuer node timed out"),
			status: http.StatusGatewayTimeout,
			code:   "issuer_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeAuth{registerErr: tt.err})

			rec := postJSON(t, srv, "/auth/register", map[string]string{
				"fullName": "Ada", "email": "a@b.com", "password": "long enough",
			})

			require.Equal(t, tt.status, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp["error"])
		})
	}
}

func TestHandleLogin(t *testing.T) {
	expiresAt := time.Date(2026, 8, 28, 13, 0, 0, 0, time.UTC)
	auth := &fakeAuth{loginOut: &service.LoginOutput{
		Token:     "signed-token",
		ExpiresAt: expiresAt,
		Identity:  "did:polygonid:polygon:amoy:2qSubject",
		Evidence:  &credmodels.ProofSummary{Type: "BJJSignature2021", HasSignature: true},
	}}
	srv := newTestServer(auth)

	rec := postJSON(t, srv, "/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "correct horse battery",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signed-token", resp["token"])
	assert.Equal(t, "2026-08-28T13:00:00Z", resp["expiresAt"])

	evidence, ok := resp["evidence"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "BJJSignature2021", evidence["type"])
}

func TestHandleLoginDenials(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "generic unauthorized",
			err:    dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"),
			status: http.StatusUnauthorized,
			code:   "unauthorized",
		},
		{
			name:   "no credential",
			err:    dErrors.New(dErrors.CodeCredentialMissing, "no credential on record"),
			status: http.StatusUnauthorized,
			code:   "credential_missing",
		},
		{
			name:   "revoked",
			err:    dErrors.New(dErrors.CodeCredentialRevoked, "credential revoked by issuer"),
			status: http.StatusUnauthorized,
			code:   "credential_revoked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeAuth{loginErr: tt.err})

			rec := postJSON(t, srv, "/auth/login", map[string]string{
				"email": "ada@example.com", "password": "whatever long",
			})

			require.Equal(t, tt.status, rec.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp["error"])
		})
	}
}

func TestContentTypeRejected(t *testing.T) {
	srv := newTestServer(&fakeAuth{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("email=x")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(&fakeAuth{})

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
