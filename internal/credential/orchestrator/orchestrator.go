// Package orchestrator drives the credential issuance pipeline against the
// issuer node.
//
// The pipeline is a small state machine:
//
//	Start -> IdentityCreated -> CredentialCreated -> [Published|PublishSkipped] -> Issued
//
// Identity and credential creation are fatal on failure: without issuer-backed
// key material there is nothing to hand the caller, and nothing is fabricated
// locally. State publication and the credential refetch are best-effort: their
// failure degrades the result to an unconfirmed credential instead of aborting.
// Retry policy is a caller concern; this component performs none.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/issuer"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/platform/tracer"
)

// State is a pipeline state. Issued and Failed are terminal.
type State string

const (
	StateStart             State = "start"
	StateIdentityCreated   State = "identity_created"
	StateCredentialCreated State = "credential_created"
	StatePublished         State = "published"
	StatePublishSkipped    State = "publish_skipped"
	StateIssued            State = "issued"
	StateFailed            State = "failed"
)

// IssuerAPI is the slice of the issuer node API the orchestrator drives.
type IssuerAPI interface {
	CreateIdentity(ctx context.Context, meta issuer.DIDMetadata) (*issuer.Identity, error)
	CreateCredential(ctx context.Context, issuerDID string, req issuer.CredentialRequest) (*issuer.CredentialRef, error)
	PublishState(ctx context.Context, issuerDID string) (*issuer.PublishAck, error)
	FetchCredential(ctx context.Context, issuerDID, credentialID string) (*models.Credential, error)
}

// IssuerResolver yields the cached issuer DID.
type IssuerResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Result is the terminal outcome of one issuance run.
type Result struct {
	State      State
	Identity   string
	Credential *models.Credential
	// Confirmed is false when the credential carries no proof yet, either
	// because publication failed or because the refetch came back early.
	// Retrying the fetch later is the caller's decision.
	Confirmed bool
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithSink sets the stage event sink.
func WithSink(sink Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithTracer sets the tracer for stage spans.
func WithTracer(t tracer.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = t
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithSettleDelay overrides the wait between state publication and refetch.
func WithSettleDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.settleDelay = d
	}
}

// Orchestrator runs issuance pipelines. Safe for concurrent use; each run is
// independent and the only shared state lives behind the resolver.
type Orchestrator struct {
	api         IssuerAPI
	resolver    IssuerResolver
	meta        issuer.DIDMetadata
	settleDelay time.Duration
	sink        Sink
	tracer      tracer.Tracer
	logger      *slog.Logger
}

// New creates an orchestrator over the issuer API.
func New(api IssuerAPI, resolver IssuerResolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		api:         api,
		resolver:    resolver,
		meta:        issuer.DefaultDIDMetadata(),
		settleDelay: 3 * time.Second,
		logger:      slog.Default(),
		tracer:      tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.sink == nil {
		o.sink = NewLogSink(o.logger)
	}
	return o
}

// Issue provisions a DID and a signed credential for the given subject.
//
// On a fatal stage failure the returned error is the classified issuer error,
// propagated verbatim so the caller can surface kind and message; no partial
// identity is returned.
func (o *Orchestrator) Issue(ctx context.Context, attrs models.SubjectAttributes) (*Result, error) {
	ctx, span := o.tracer.Start(ctx, "issuance.run")
	var runErr error
	defer func() { span.End(runErr) }()

	// Start -> IdentityCreated
	identity, err := o.stageCreateIdentity(ctx)
	if err != nil {
		runErr = err
		return nil, err
	}
	attrs.SubjectID = identity.Identifier
	span.SetAttributes(tracer.String("subject_did", identity.Identifier))

	// IdentityCreated -> CredentialCreated
	issuerDID, ref, err := o.stageCreateCredential(ctx, attrs)
	if err != nil {
		runErr = err
		return nil, err
	}

	// CredentialCreated -> Published | PublishSkipped
	state := o.stagePublishState(ctx, issuerDID)

	// Give the issuer-side publication a moment to propagate. Heuristic
	// only; when the fetch still returns no proof the credential ships
	// unconfirmed.
	o.settle(ctx)

	// -> Issued
	credential := o.stageFetchCredential(ctx, issuerDID, ref, attrs)

	result := &Result{
		State:      StateIssued,
		Identity:   identity.Identifier,
		Credential: credential,
		Confirmed:  credential.Confirmed(),
	}
	o.logger.Info("credential issued",
		"subject_did", result.Identity,
		"credential_id", credential.ID,
		"confirmed", result.Confirmed,
		"publish_state", string(state),
	)
	return result, nil
}

func (o *Orchestrator) stageCreateIdentity(ctx context.Context) (*issuer.Identity, error) {
	start := time.Now()
	identity, err := o.api.CreateIdentity(ctx, o.meta)
	if err != nil {
		o.emit(ctx, StageCreateIdentity, OutcomeFailed, start, string(issuer.KindOf(err)))
		return nil, err
	}
	o.emit(ctx, StageCreateIdentity, OutcomeOK, start, "")
	return identity, nil
}

func (o *Orchestrator) stageCreateCredential(ctx context.Context, attrs models.SubjectAttributes) (string, *issuer.CredentialRef, error) {
	start := time.Now()
	issuerDID, err := o.resolver.Resolve(ctx)
	if err != nil {
		o.emit(ctx, StageCreateCredential, OutcomeFailed, start, string(issuer.KindUnreachable))
		return "", nil, err
	}

	ref, err := o.api.CreateCredential(ctx, issuerDID, issuer.NewCredentialRequest(attrs, nil))
	if err != nil {
		o.emit(ctx, StageCreateCredential, OutcomeFailed, start, string(issuer.KindOf(err)))
		return "", nil, err
	}
	o.emit(ctx, StageCreateCredential, OutcomeOK, start, "")
	return issuerDID, ref, nil
}

func (o *Orchestrator) stagePublishState(ctx context.Context, issuerDID string) State {
	start := time.Now()
	if _, err := o.api.PublishState(ctx, issuerDID); err != nil {
		o.logger.Warn("state publication failed, continuing unconfirmed",
			"kind", string(issuer.KindOf(err)),
		)
		// The stage is skipped, not fatal; the event mirrors that.
		o.emit(ctx, StagePublishState, OutcomeSkipped, start, string(issuer.KindOf(err)))
		return StatePublishSkipped
	}
	o.emit(ctx, StagePublishState, OutcomeOK, start, "")
	return StatePublished
}

func (o *Orchestrator) stageFetchCredential(ctx context.Context, issuerDID string, ref *issuer.CredentialRef, attrs models.SubjectAttributes) *models.Credential {
	start := time.Now()
	credential, err := o.api.FetchCredential(ctx, issuerDID, ref.ID)
	if err != nil {
		o.emit(ctx, StageFetchCredential, OutcomeFailed, start, string(issuer.KindOf(err)))
		return unconfirmedCredential(issuerDID, ref, attrs)
	}
	o.emit(ctx, StageFetchCredential, OutcomeOK, start, "")
	return credential
}

// unconfirmedCredential is the fallback when the refetch fails: the last
// known reference shaped as a proof-less credential.
func unconfirmedCredential(issuerDID string, ref *issuer.CredentialRef, attrs models.SubjectAttributes) *models.Credential {
	return &models.Credential{
		ID:                ref.ID,
		Type:              []string{models.TypeVerifiableCredential, models.TypeUserProfile},
		Issuer:            issuerDID,
		IssuanceDate:      attrs.RegistrationDate.UTC().Format(time.RFC3339),
		CredentialSubject: attrs.ToSubjectMap(),
	}
}

func (o *Orchestrator) settle(ctx context.Context) {
	if o.settleDelay <= 0 {
		return
	}
	timer := time.NewTimer(o.settleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (o *Orchestrator) emit(ctx context.Context, stage Stage, outcome Outcome, start time.Time, detail string) {
	o.sink.Emit(ctx, StageEvent{
		Stage:     stage,
		Outcome:   outcome,
		ElapsedMS: time.Since(start).Milliseconds(),
		Detail:    detail,
		At:        time.Now(),
	})
}
