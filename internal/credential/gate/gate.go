// Package gate runs the verification pipeline that decides whether a stored
// credential still stands with the issuer node.
//
// Verification is five ordered checks that short-circuit on the first failure:
// structural shape, issuer node liveness, revocation, data comparison, and
// proof extraction. The issuer node remains the source of truth throughout;
// when it cannot be reached the gate denies rather than trusting local state.
package gate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/issuer"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/tracer"
)

// CheckStage names one verification check.
type CheckStage string

const (
	StageStructure  CheckStage = "structure_validation"
	StageConnection CheckStage = "issuer_node_connection"
	StageRevocation CheckStage = "revocation_check"
	StageComparison CheckStage = "data_comparison"
	StageProof      CheckStage = "proof_extraction"
)

// ReasonNotFound distinguishes "the issuer does not know this credential"
// from a transport failure inside the connection stage.
const ReasonNotFound = "credential not found on issuer node"

// Verifier is the slice of the issuer node API the gate needs.
type Verifier interface {
	VerifyCredentialExists(ctx context.Context, issuerDID, credentialID string) (*issuer.VerificationRecord, error)
}

// Verdict is the outcome of a verification run. When Verified is false, Stage
// and Reason identify the failing check. Evidence is present on success when
// the credential carries proof material.
type Verdict struct {
	Verified bool
	Stage    CheckStage
	Reason   string
	Evidence *models.ProofSummary
}

// Option configures the Gate.
type Option func(*Gate)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// WithTracer sets the tracer for verification spans.
func WithTracer(t tracer.Tracer) Option {
	return func(g *Gate) {
		g.tracer = t
	}
}

// Gate verifies credentials against the issuer node. Stateless and safe for
// concurrent use; running the same credential twice yields the same verdict
// for the same issuer-side state.
type Gate struct {
	verifier Verifier
	logger   *slog.Logger
	tracer   tracer.Tracer
}

// New creates a gate over the issuer verifier.
func New(verifier Verifier, opts ...Option) *Gate {
	g := &Gate{
		verifier: verifier,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func deny(stage CheckStage, reason string) Verdict {
	return Verdict{Verified: false, Stage: stage, Reason: reason}
}

// Verify runs the full check pipeline over the stored credential.
func (g *Gate) Verify(ctx context.Context, credential *models.Credential) Verdict {
	ctx, span := g.tracer.Start(ctx, "verification.run")
	verdict := g.verify(ctx, credential)
	if verdict.Verified {
		span.End(nil)
	} else {
		span.SetAttributes(
			tracer.String("failed_stage", string(verdict.Stage)),
			tracer.String("reason", verdict.Reason),
		)
		span.End(nil)
		g.logger.Info("credential verification denied",
			"stage", string(verdict.Stage),
			"reason", verdict.Reason,
			"credential_id", credentialID(credential),
		)
	}
	return verdict
}

func (g *Gate) verify(ctx context.Context, credential *models.Credential) Verdict {
	// Stage 1: structural shape. No issuer call is spent on a credential
	// that is not even a credential.
	if missing := credential.MissingCoreFields(); len(missing) > 0 {
		return deny(StageStructure, fmt.Sprintf("missing core fields: %v", missing))
	}
	if !credential.HasType(models.TypeVerifiableCredential) {
		return deny(StageStructure, "missing VerifiableCredential type tag")
	}
	if credential.SubjectID() == "" {
		return deny(StageStructure, "credentialSubject has no id")
	}

	// Stage 2: issuer node lookup. A transport failure is a denial, never a
	// fall back to trusting the local copy.
	record, err := g.verifier.VerifyCredentialExists(ctx, credential.Issuer, credential.ID)
	if err != nil {
		return deny(StageConnection, fmt.Sprintf("issuer node lookup failed: %s", issuer.KindOf(err)))
	}
	if !record.Exists {
		return deny(StageConnection, ReasonNotFound)
	}

	// Stage 3: revocation.
	if record.Revoked {
		return deny(StageRevocation, "credential revoked by issuer")
	}

	// Stage 4: the stored copy must match what the issuer holds.
	if reason := compare(credential, record.StoredCredential); reason != "" {
		return deny(StageComparison, reason)
	}

	// Stage 5: proof extraction. Absence of proof is not a failure here,
	// the credential may still be awaiting state publication.
	evidence := models.Summarize(record.StoredCredential)
	if evidence == nil {
		evidence = models.Summarize(credential)
	}

	return Verdict{Verified: true, Evidence: evidence}
}

// compare checks the identity-bearing fields of the local copy against the
// issuer's record. Subject attribute drift beyond the id is the issuer's
// concern, not grounds for denial here.
func compare(local, stored *models.Credential) string {
	if stored == nil {
		return "issuer returned no credential body"
	}
	if local.ID != stored.ID {
		return "credential id mismatch"
	}
	if local.Issuer != stored.Issuer {
		return "issuer mismatch"
	}
	if local.SubjectID() != stored.SubjectID() {
		return "credential subject mismatch"
	}
	return ""
}

func credentialID(c *models.Credential) string {
	if c == nil {
		return ""
	}
	return c.ID
}
