// Package service implements registration and login over DID-backed
// credentials.
//
// Registration provisions a decentralized identity and a profile credential
// through the issuance pipeline before the account exists locally; login
// re-verifies the stored credential against the issuer node on every attempt.
// An account without a credential can never log in.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/device"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/store"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/gate"
	credmodels "github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/orchestrator"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/issuer"
	dErrors "github.com/0xronaldo/backend-zkp-lastproyect/pkg/domain-errors"
	"github.com/0xronaldo/backend-zkp-lastproyect/pkg/platform/sentinel"
	"github.com/0xronaldo/backend-zkp-lastproyect/pkg/secrets"
)

const minPasswordLength = 8

// birthDateLayout is the accepted registration birth date format.
const birthDateLayout = "2006-01-02"

// CredentialIssuer runs the issuance pipeline for a new principal.
type CredentialIssuer interface {
	Issue(ctx context.Context, attrs credmodels.SubjectAttributes) (*orchestrator.Result, error)
}

// CredentialGate verifies a stored credential against the issuer node.
type CredentialGate interface {
	Verify(ctx context.Context, credential *credmodels.Credential) gate.Verdict
}

// TokenIssuer signs session tokens after a verified login.
type TokenIssuer interface {
	Issue(loginKey, identity, authMethod string) (string, time.Time, error)
}

// Recorder receives auth metrics. Satisfied by the metrics package; the
// default is a no-op.
type Recorder interface {
	IncrementRegistrations()
	IncrementRegistrationFailures(code string)
	IncrementLogins()
	IncrementLoginDenials(stage string)
	ObserveIssuanceDuration(durationMs float64)
	ObserveLoginDuration(durationMs float64)
}

type noopRecorder struct{}

func (noopRecorder) IncrementRegistrations()              {}
func (noopRecorder) IncrementRegistrationFailures(string) {}
func (noopRecorder) IncrementLogins()                     {}
func (noopRecorder) IncrementLoginDenials(string)         {}
func (noopRecorder) ObserveIssuanceDuration(float64)      {}
func (noopRecorder) ObserveLoginDuration(float64)         {}

// RegisterOutput is returned after a successful registration.
// Confirmed reports proof presence on the issued credential; Verified reports
// the outcome of the immediate post-issuance gate run.
type RegisterOutput struct {
	Identity     string
	CredentialID string
	Confirmed    bool
	Verified     bool
}

// LoginOutput is returned after a verified login.
type LoginOutput struct {
	Token     string
	ExpiresAt time.Time
	Identity  string
	Evidence  *credmodels.ProofSummary
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder Recorder) Option {
	return func(s *Service) {
		s.metrics = recorder
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service is the auth application service.
type Service struct {
	store   store.Store
	issuer  CredentialIssuer
	gate    CredentialGate
	tokens  TokenIssuer
	metrics Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// New constructs the auth service.
func New(principals store.Store, credIssuer CredentialIssuer, credGate CredentialGate, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		store:   principals,
		issuer:  credIssuer,
		gate:    credGate,
		tokens:  tokens,
		metrics: noopRecorder{},
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a principal: validates input, provisions a DID and a
// profile credential through the issuance pipeline, runs the fresh credential
// through the verification gate, then stores the record with the verdict.
//
// Validation and duplicate detection run before any issuer call so bad
// requests never spend issuer budget. A failed pipeline leaves no account
// behind.
func (s *Service) Register(ctx context.Context, in models.RegisterInput) (*RegisterOutput, error) {
	attrs, err := s.validateRegistration(in)
	if err != nil {
		s.metrics.IncrementRegistrationFailures(string(dErrors.CodeOf(err)))
		return nil, err
	}

	loginKey := in.LoginKey()
	if _, err := s.store.Find(ctx, loginKey); err == nil {
		s.metrics.IncrementRegistrationFailures(string(dErrors.CodeConflict))
		return nil, dErrors.New(dErrors.CodeConflict, "principal already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "principal lookup failed")
	}

	var digest string
	if in.AuthMethod() == credmodels.AuthMethodPassword {
		digest, err = secrets.HashPassword(in.Password)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "hash password")
		}
	}

	start := s.now()
	result, err := s.issuer.Issue(ctx, attrs)
	if err != nil {
		code := dErrors.CodeOf(issuer.ToDomain(err))
		s.metrics.IncrementRegistrationFailures(string(code))
		s.logger.Warn("registration issuance failed",
			"login_key", loginKey,
			"kind", string(issuer.KindOf(err)),
		)
		return nil, issuer.ToDomain(err)
	}
	s.metrics.ObserveIssuanceDuration(float64(s.now().Sub(start).Milliseconds()))

	// The fresh credential goes straight through the verification gate so
	// the account starts life with a recorded verdict. An unverified
	// outcome does not abort registration; it is persisted and reported.
	verdict := s.gate.Verify(ctx, result.Credential)

	now := s.now()
	record := &models.PrincipalRecord{
		LoginKey:       loginKey,
		AuthMethod:     in.AuthMethod(),
		PasswordDigest: digest,
		FullName:       in.FullName,
		Email:          models.NormalizeLoginKey(in.Email),
		WalletAddress:  models.NormalizeLoginKey(in.WalletAddress),
		Identity:       result.Identity,
		Credential:     result.Credential,
		LastVerification: &models.VerificationMark{
			At:       now,
			Verified: verdict.Verified,
			Stage:    string(verdict.Stage),
			Reason:   verdict.Reason,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			// Lost a race with a concurrent registration for the
			// same key.
			s.metrics.IncrementRegistrationFailures(string(dErrors.CodeConflict))
			return nil, dErrors.New(dErrors.CodeConflict, "principal already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store principal")
	}

	s.metrics.IncrementRegistrations()
	s.logger.Info("principal registered",
		"login_key", loginKey,
		"auth_method", record.AuthMethod,
		"identity", record.Identity,
		"confirmed", result.Confirmed,
		"verified", verdict.Verified,
	)

	return &RegisterOutput{
		Identity:     result.Identity,
		CredentialID: result.Credential.ID,
		Confirmed:    result.Confirmed,
		Verified:     verdict.Verified,
	}, nil
}

// Login authenticates a principal and gates the session on a fresh
// credential verification against the issuer node.
//
// Unknown principals, auth method mismatches, and bad passwords all yield
// the same generic unauthorized error; which of them happened is not leaked.
func (s *Service) Login(ctx context.Context, in models.LoginInput) (*LoginOutput, error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveLoginDuration(float64(s.now().Sub(start).Milliseconds()))
	}()

	if err := validateLogin(in); err != nil {
		return nil, err
	}

	loginKey := in.LoginKey()
	record, err := s.store.Find(ctx, loginKey)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementLoginDenials("unknown_principal")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "principal lookup failed")
	}

	if record.AuthMethod != in.AuthMethod() {
		s.metrics.IncrementLoginDenials("auth_method_mismatch")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if record.AuthMethod == credmodels.AuthMethodPassword {
		if err := secrets.VerifyPassword(in.Password, record.PasswordDigest); err != nil {
			s.metrics.IncrementLoginDenials("bad_password")
			return nil, err
		}
	}

	// An account without a credential is denied outright. No issuer call
	// is spent on it.
	if !record.HasCredential() {
		s.markVerification(ctx, record, gate.Verdict{
			Verified: false,
			Stage:    "credential_presence",
			Reason:   "no stored credential",
		})
		s.metrics.IncrementLoginDenials("no_credential")
		return nil, dErrors.New(dErrors.CodeCredentialMissing, "no credential on record")
	}

	verdict := s.gate.Verify(ctx, record.Credential)
	s.markVerification(ctx, record, verdict)

	if !verdict.Verified {
		s.metrics.IncrementLoginDenials(string(verdict.Stage))
		return nil, denialError(verdict)
	}

	signed, expiresAt, err := s.tokens.Issue(loginKey, record.Identity, record.AuthMethod)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementLogins()
	dev := device.Parse(in.UserAgent)
	s.logger.Info("login verified",
		"login_key", loginKey,
		"identity", record.Identity,
		"auth_method", record.AuthMethod,
		"device", dev.Display(),
		"mobile", dev.Mobile,
	)

	return &LoginOutput{
		Token:     signed,
		ExpiresAt: expiresAt,
		Identity:  record.Identity,
		Evidence:  verdict.Evidence,
	}, nil
}

// markVerification replaces the stored record with the new verification mark.
// Persistence failures here are logged and swallowed; the verdict already
// decided the login.
func (s *Service) markVerification(ctx context.Context, record *models.PrincipalRecord, verdict gate.Verdict) {
	record.LastVerification = &models.VerificationMark{
		At:       s.now(),
		Verified: verdict.Verified,
		Stage:    string(verdict.Stage),
		Reason:   verdict.Reason,
	}
	record.UpdatedAt = s.now()
	if err := s.store.Save(ctx, record); err != nil {
		s.logger.Warn("persisting verification mark failed",
			"login_key", record.LoginKey,
			"error", err,
		)
	}
}

// denialError maps a failed verification verdict to the domain error the
// transport surfaces.
func denialError(verdict gate.Verdict) error {
	switch verdict.Stage {
	case gate.StageStructure:
		return dErrors.New(dErrors.CodeCredentialStructure, verdict.Reason)
	case gate.StageConnection:
		if verdict.Reason == gate.ReasonNotFound {
			return dErrors.New(dErrors.CodeCredentialMissing, verdict.Reason)
		}
		return dErrors.New(dErrors.CodeIssuerUnreachable, verdict.Reason)
	case gate.StageRevocation:
		return dErrors.New(dErrors.CodeCredentialRevoked, verdict.Reason)
	case gate.StageComparison:
		return dErrors.New(dErrors.CodeCredentialMismatch, verdict.Reason)
	default:
		return dErrors.New(dErrors.CodeUnauthorized, verdict.Reason)
	}
}

func (s *Service) validateRegistration(in models.RegisterInput) (credmodels.SubjectAttributes, error) {
	var attrs credmodels.SubjectAttributes

	if in.FullName == "" {
		return attrs, dErrors.New(dErrors.CodeInvalidInput, "fullName is required")
	}

	hasPassword := in.Email != "" || in.Password != ""
	hasWallet := in.WalletAddress != ""
	switch {
	case hasPassword && hasWallet:
		return attrs, dErrors.New(dErrors.CodeInvalidInput, "choose either email/password or walletAddress, not both")
	case hasWallet:
		// Wallet principals carry no password.
	case in.Email == "":
		return attrs, dErrors.New(dErrors.CodeInvalidInput, "email is required")
	case len(in.Password) < minPasswordLength:
		return attrs, dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var birthDate time.Time
	if in.BirthDate != "" {
		parsed, err := time.Parse(birthDateLayout, in.BirthDate)
		if err != nil {
			return attrs, dErrors.New(dErrors.CodeInvalidInput, "birthDate must be YYYY-MM-DD")
		}
		birthDate = parsed
	}

	attrs = credmodels.SubjectAttributes{
		FullName:         in.FullName,
		Email:            models.NormalizeLoginKey(in.Email),
		WalletAddress:    models.NormalizeLoginKey(in.WalletAddress),
		AuthMethod:       in.AuthMethod(),
		AccountState:     credmodels.AccountStateActive,
		RegistrationDate: s.now(),
		BirthDate:        birthDate,
	}
	return attrs, nil
}

func validateLogin(in models.LoginInput) error {
	hasPassword := in.Email != "" && in.Password != ""
	hasWallet := in.WalletAddress != ""
	if hasPassword == hasWallet {
		return dErrors.New(dErrors.CodeInvalidInput, "provide either email and password or walletAddress")
	}
	return nil
}
