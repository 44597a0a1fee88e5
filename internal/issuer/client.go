package issuer

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/issuer/metrics"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/config"
	"github.com/0xronaldo/backend-zkp-lastproyect/pkg/platform/sentinel"
)

// API is the typed surface of the issuer node used by the rest of the service.
// Orchestrator and gate depend on the subsets they need.
type API interface {
	ListIdentities(ctx context.Context) ([]Identity, error)
	CreateIdentity(ctx context.Context, meta DIDMetadata) (*Identity, error)
	CreateCredential(ctx context.Context, issuerDID string, req CredentialRequest) (*CredentialRef, error)
	PublishState(ctx context.Context, issuerDID string) (*PublishAck, error)
	FetchCredential(ctx context.Context, issuerDID, credentialID string) (*models.Credential, error)
	VerifyCredentialExists(ctx context.Context, issuerDID, credentialID string) (*VerificationRecord, error)
}

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the issuer node REST API. Each operation enforces its own
// timeout budget; the shared basic-auth credential rides on every request.
type Client struct {
	cfg     config.Issuer
	client  HTTPDoer
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ API = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.client = doer
	}
}

// WithLogger sets a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation of issuer calls.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates an issuer node client from configuration.
func NewClient(cfg config.Issuer, opts ...Option) *Client {
	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		// No client-wide timeout; budgets are per operation via context.
		c.client = &http.Client{}
	}
	return c
}

// ListIdentities returns the identities held by the node. Used to resolve the
// issuer's own DID.
func (c *Client) ListIdentities(ctx context.Context) ([]Identity, error) {
	var out []Identity
	if err := c.do(ctx, "list_identities", c.cfg.ResolveTimeout, http.MethodGet, "/identities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIdentity provisions a new DID on the node. Failure is fatal to the
// caller: an identity without issuer-backed key material cannot later produce
// a verifiable credential, so no local fabrication is permitted.
func (c *Client) CreateIdentity(ctx context.Context, meta DIDMetadata) (*Identity, error) {
	body := map[string]any{"didMetadata": meta}
	var out Identity
	if err := c.do(ctx, "create_identity", c.cfg.CreateIdentity, http.MethodPost, "/identities", body, &out); err != nil {
		return nil, err
	}
	if out.Identifier == "" {
		return nil, NewError(KindUnknown, "create_identity", "node returned no identifier", nil)
	}
	return &out, nil
}

// CreateCredential asks the node to sign a credential over the subject
// attributes. Failure is fatal to the caller.
func (c *Client) CreateCredential(ctx context.Context, issuerDID string, req CredentialRequest) (*CredentialRef, error) {
	path := fmt.Sprintf("/identities/%s/credentials", url.PathEscape(issuerDID))
	var out CredentialRef
	if err := c.do(ctx, "create_credential", c.cfg.CreateCred, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, NewError(KindUnknown, "create_credential", "node returned no credential id", nil)
	}
	return &out, nil
}

// PublishState anchors pending claims into the node's on-chain state. This is
// the slowest operation and carries the largest budget. Callers treat failure
// as non-fatal: the credential stays unconfirmed until a later publication.
func (c *Client) PublishState(ctx context.Context, issuerDID string) (*PublishAck, error) {
	path := fmt.Sprintf("/identities/%s/state/publish", url.PathEscape(issuerDID))
	var out PublishAck
	if err := c.do(ctx, "publish_state", c.cfg.PublishState, http.MethodPost, path, map[string]any{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchCredential retrieves the full signed credential, proofs included.
func (c *Client) FetchCredential(ctx context.Context, issuerDID, credentialID string) (*models.Credential, error) {
	rec, err := c.fetchRecord(ctx, "fetch_credential", c.cfg.FetchCred, issuerDID, credentialID)
	if err != nil {
		return nil, err
	}
	if rec.VC == nil {
		return nil, NewError(KindUnknown, "fetch_credential", "node returned no credential body", nil)
	}
	return rec.VC, nil
}

// VerifyCredentialExists checks that the node still holds the credential and
// reports its revocation status. A 404 is a negative answer, not an error;
// transport failures remain classified errors so the gate can deny instead of
// guessing.
func (c *Client) VerifyCredentialExists(ctx context.Context, issuerDID, credentialID string) (*VerificationRecord, error) {
	rec, err := c.fetchRecord(ctx, "verify_credential", c.cfg.Verify, issuerDID, credentialID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &VerificationRecord{Exists: false}, nil
		}
		return nil, err
	}
	return &VerificationRecord{
		Exists:           true,
		Revoked:          rec.Revoked,
		StoredCredential: rec.VC,
	}, nil
}

func (c *Client) fetchRecord(ctx context.Context, op string, timeout time.Duration, issuerDID, credentialID string) (*CredentialRecord, error) {
	path := fmt.Sprintf("/identities/%s/credentials/%s", url.PathEscape(issuerDID), url.PathEscape(credentialID))
	var out CredentialRecord
	if err := c.do(ctx, op, timeout, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do executes one issuer node request with the given budget and classifies
// every failure mode.
func (c *Client) do(ctx context.Context, op string, timeout time.Duration, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return NewError(KindUnknown, op, "failed to marshal request", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return NewError(KindUnknown, op, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)
	if c.metrics != nil {
		c.metrics.CallDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
	if err != nil {
		if ctx.Err() != nil {
			return c.fail(op, KindTimeout, "request timed out", err)
		}
		return c.fail(op, KindUnreachable, "failed to reach issuer node", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(op, KindUnknown, "failed to read response body", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Success; decode below.
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return c.fail(op, KindUnauthorized, "authentication rejected", nil)
	case resp.StatusCode == http.StatusNotFound:
		return c.fail(op, KindUnknown, "not found", sentinel.ErrNotFound)
	case resp.StatusCode >= 500:
		return c.fail(op, KindServerError, fmt.Sprintf("server error: %d", resp.StatusCode), nil)
	default:
		return c.fail(op, KindUnknown, fmt.Sprintf("unexpected status: %d", resp.StatusCode), nil)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return c.fail(op, KindUnknown, "failed to parse response", err)
		}
	}
	return nil
}

func (c *Client) fail(op string, kind Kind, detail string, err error) error {
	if c.metrics != nil {
		c.metrics.CallFailures.WithLabelValues(op, string(kind)).Inc()
	}
	c.logger.Warn("issuer node call failed",
		"op", op,
		"kind", string(kind),
		"detail", detail,
	)
	return NewError(kind, op, detail, err)
}
