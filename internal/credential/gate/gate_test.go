package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/issuer"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/issuer/mocks"
)

const (
	testIssuerDID  = "did:polygonid:polygon:amoy:2qIssuer"
	testSubjectDID = "did:polygonid:polygon:amoy:2qSubject"
)

func storedCredential() *models.Credential {
	return &models.Credential{
		ID:           "cred-1",
		Type:         []string{models.TypeVerifiableCredential, models.TypeUserProfile},
		Issuer:       testIssuerDID,
		IssuanceDate: "2026-08-28T10:00:00Z",
		CredentialSubject: map[string]any{
			models.AttrSubjectID:    testSubjectDID,
			models.AttrFullName:     "Ada Lovelace",
			models.AttrAccountState: models.AccountStateActive,
		},
		Proof: []models.Proof{{
			Type:      "BJJSignature2021",
			Signature: "sig",
			CoreClaim: "claim",
			MTP:       &models.MerkleProof{Existence: true, Siblings: []string{"a", "b"}},
		}},
	}
}

func TestVerifySuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockAPI(ctrl)

	credential := storedCredential()
	verifier.EXPECT().VerifyCredentialExists(gomock.Any(), testIssuerDID, "cred-1").
		Return(&issuer.VerificationRecord{Exists: true, StoredCredential: storedCredential()}, nil)

	verdict := New(verifier).Verify(context.Background(), credential)

	assert.True(t, verdict.Verified)
	assert.Empty(t, verdict.Reason)
	if assert.NotNil(t, verdict.Evidence) {
		assert.Equal(t, "BJJSignature2021", verdict.Evidence.Type)
		assert.True(t, verdict.Evidence.HasSignature)
		assert.True(t, verdict.Evidence.MerkleProof)
		assert.Equal(t, 2, verdict.Evidence.SiblingCount)
	}
}

func TestVerifyStructuralFailuresSkipIssuerCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations set: any issuer call fails the test.
	verifier := mocks.NewMockAPI(ctrl)
	g := New(verifier)

	tests := []struct {
		name       string
		credential *models.Credential
		reason     string
	}{
		{
			name:       "nil credential",
			credential: nil,
			reason:     "missing core fields: [credential]",
		},
		{
			name: "missing issuer and issuance date",
			credential: &models.Credential{
				ID:                "cred-1",
				Type:              []string{models.TypeVerifiableCredential},
				CredentialSubject: map[string]any{models.AttrSubjectID: testSubjectDID},
			},
			reason: "missing core fields: [issuer issuanceDate]",
		},
		{
			name: "missing type tag",
			credential: func() *models.Credential {
				c := storedCredential()
				c.Type = []string{models.TypeUserProfile}
				return c
			}(),
			reason: "missing VerifiableCredential type tag",
		},
		{
			name: "missing subject id",
			credential: func() *models.Credential {
				c := storedCredential()
				delete(c.CredentialSubject, models.AttrSubjectID)
				return c
			}(),
			reason: "credentialSubject has no id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := g.Verify(context.Background(), tt.credential)
			assert.False(t, verdict.Verified)
			assert.Equal(t, StageStructure, verdict.Stage)
			assert.Equal(t, tt.reason, verdict.Reason)
		})
	}
}

func TestVerifyIssuerUnreachableDenies(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockAPI(ctrl)

	verifier.EXPECT().VerifyCredentialExists(gomock.Any(), testIssuerDID, "cred-1").
		Return(nil, issuer.NewError(issuer.KindUnreachable, "fetch_credential", "connection refused", nil))

	verdict := New(verifier).Verify(context.Background(), storedCredential())

	assert.False(t, verdict.Verified)
	assert.Equal(t, StageConnection, verdict.Stage)
	assert.Contains(t, verdict.Reason, "unreachable")
}

func TestVerifyNotFoundOnIssuerDenies(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockAPI(ctrl)

	verifier.EXPECT().VerifyCredentialExists(gomock.Any(), testIssuerDID, "cred-1").
		Return(&issuer.VerificationRecord{Exists: false}, nil)

	verdict := New(verifier).Verify(context.Background(), storedCredential())

	assert.False(t, verdict.Verified)
	assert.Equal(t, StageConnection, verdict.Stage)
	assert.Equal(t, "credential not found on issuer node", verdict.Reason)
}

func TestVerifyRevokedDenies(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockAPI(ctrl)

	verifier.EXPECT().VerifyCredentialExists(gomock.Any(), testIssuerDID, "cred-1").
		Return(&issuer.VerificationRecord{Exists: true, Revoked: true, StoredCredential: storedCredential()}, nil)

	verdict := New(verifier).Verify(context.Background(), storedCredential())

	assert.False(t, verdict.Verified)
	assert.Equal(t, StageRevocation, verdict.Stage)
}

func TestVerifyDataMismatchDenies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *models.Credential)
		reason string
	}{
		{
			name:   "id drift",
			mutate: func(c *models.Credential) { c.ID = "cred-other" },
			reason: "credential id mismatch",
		},
		{
			name:   "issuer drift",
			mutate: func(c *models.Credential) { c.Issuer = "did:polygonid:polygon:amoy:2qOther" },
			reason: "issuer mismatch",
		},
		{
			name: "subject drift",
			mutate: func(c *models.Credential) {
				c.CredentialSubject[models.AttrSubjectID] = "did:polygonid:polygon:amoy:2qOther"
			},
			reason: "credential subject mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			verifier := mocks.NewMockAPI(ctrl)

			stored := storedCredential()
			tt.mutate(stored)
			verifier.EXPECT().VerifyCredentialExists(gomock.Any(), testIssuerDID, gomock.Any()).
				Return(&issuer.VerificationRecord{Exists: true, StoredCredential: stored}, nil)

			local := storedCredential()
			verdict := New(verifier).Verify(context.Background(), local)

			assert.False(t, verdict.Verified)
			assert.Equal(t, StageComparison, verdict.Stage)
			assert.Equal(t, tt.reason, verdict.Reason)
		})
	}
}

func TestVerifyMissingIssuerBodyDenies(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockAPI(ctrl)

	verifier.EXPECT().VerifyCredentialExists(gomock.Any(), testIssuerDID, "cred-1").
		Return(&issuer.VerificationRecord{Exists: true}, nil)

	verdict := New(verifier).Verify(context.Background(), storedCredential())

	assert.False(t, verdict.Verified)
	assert.Equal(t, StageComparison, verdict.Stage)
	assert.Equal(t, "issuer returned no credential body", verdict.Reason)
}

func TestVerifyProofAbsenceStillVerifies(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockAPI(ctrl)

	local := storedCredential()
	local.Proof = nil
	stored := storedCredential()
	stored.Proof = nil
	verifier.EXPECT().VerifyCredentialExists(gomock.Any(), testIssuerDID, "cred-1").
		Return(&issuer.VerificationRecord{Exists: true, StoredCredential: stored}, nil)

	verdict := New(verifier).Verify(context.Background(), local)

	assert.True(t, verdict.Verified)
	assert.Nil(t, verdict.Evidence)
}

func TestVerifyIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockAPI(ctrl)

	verifier.EXPECT().VerifyCredentialExists(gomock.Any(), testIssuerDID, "cred-1").
		Return(&issuer.VerificationRecord{Exists: true, StoredCredential: storedCredential()}, nil).
		Times(2)

	g := New(verifier)
	first := g.Verify(context.Background(), storedCredential())
	second := g.Verify(context.Background(), storedCredential())

	assert.Equal(t, first, second)
}
