package issuer

import (
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
)

// DIDMetadata selects the DID method parameters for identity creation.
type DIDMetadata struct {
	Method     string `json:"method"`
	Blockchain string `json:"blockchain"`
	Network    string `json:"network"`
	Type       string `json:"type"`
}

// DefaultDIDMetadata returns the DID configuration used for user identities.
func DefaultDIDMetadata() DIDMetadata {
	return DIDMetadata{
		Method:     "polygonid",
		Blockchain: "polygon",
		Network:    "amoy",
		Type:       "BJJ",
	}
}

// IdentityState is the node-reported state of an identity.
type IdentityState struct {
	State          string `json:"state,omitempty"`
	Status         string `json:"status,omitempty"`
	ClaimsTreeRoot string `json:"claimsTreeRoot,omitempty"`
}

// Identity is a DID held by the issuer node. The identifier is opaque to this
// service: assigned by the node, of the form method:network:subnet:payload,
// immutable once issued.
type Identity struct {
	Identifier string        `json:"identifier"`
	State      IdentityState `json:"state"`
}

// CredentialSchemaURL is the JSON schema the user profile credential is
// issued against. The issuer node fetches and validates it.
const CredentialSchemaURL = "https://raw.githubusercontent.com/0xronaldo/zkp-schemas/main/userprofile/v1/userprofile.json"

// CredentialRequest is the body for credential creation.
type CredentialRequest struct {
	CredentialSchema  string         `json:"credentialSchema"`
	Type              string         `json:"type"`
	CredentialSubject map[string]any `json:"credentialSubject"`
	Expiration        *int64         `json:"expiration,omitempty"`
}

// NewCredentialRequest shapes subject attributes into the issuer node request.
func NewCredentialRequest(attrs models.SubjectAttributes, expiration *int64) CredentialRequest {
	return CredentialRequest{
		CredentialSchema:  CredentialSchemaURL,
		Type:              models.TypeUserProfile,
		CredentialSubject: attrs.ToSubjectMap(),
		Expiration:        expiration,
	}
}

// CredentialRef is the node's acknowledgment of credential creation. It only
// names the credential; the full record is fetched separately.
type CredentialRef struct {
	ID string `json:"id"`
}

// PublishAck acknowledges a state publication request.
type PublishAck struct {
	TxID  string `json:"txID,omitempty"`
	State string `json:"state,omitempty"`
}

// CredentialRecord is the node's stored view of a credential, as returned by
// the credential fetch endpoint.
type CredentialRecord struct {
	ID         string             `json:"id"`
	Revoked    bool               `json:"revoked"`
	ProofTypes []string           `json:"proofTypes,omitempty"`
	VC         *models.Credential `json:"vc"`
}

// VerificationRecord is the result of an existence check against the node.
type VerificationRecord struct {
	Exists           bool
	Revoked          bool
	StoredCredential *models.Credential
}
