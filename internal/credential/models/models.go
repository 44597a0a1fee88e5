package models

import (
	"strconv"
	"strings"
	"time"
)

// Credential type tags. Every issued credential carries the base W3C tag plus
// the profile tag for this service.
const (
	TypeVerifiableCredential = "VerifiableCredential"
	TypeUserProfile          = "UserProfileCredential"
)

// Subject attribute keys inside credentialSubject.
const (
	AttrSubjectID        = "id"
	AttrFullName         = "fullName"
	AttrEmail            = "email"
	AttrWalletAddress    = "walletAddress"
	AttrAuthMethod       = "authMethod"
	AttrAccountState     = "accountState"
	AttrRegistrationDate = "registrationDate"
	AttrVerified         = "verified"
	AttrBirthDate        = "birthDate"
)

// Auth methods recorded on the credential subject.
const (
	AuthMethodPassword = "password"
	AuthMethodWallet   = "wallet"
)

// Account states recorded on the credential subject.
const (
	AccountStateActive    = "active"
	AccountStateSuspended = "suspended"
)

// Schema identifies the JSON schema a credential was issued against.
type Schema struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// CredentialStatus carries the issuer-side revocation pointer.
// Opaque to this service beyond its presence.
type CredentialStatus struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	RevocationNonce int64  `json:"revocationNonce,omitempty"`
}

// TreeState is the issuer's Merkle tree state snapshot embedded in proofs.
type TreeState struct {
	Value              string `json:"value,omitempty"`
	ClaimsTreeRoot     string `json:"claimsTreeRoot,omitempty"`
	RevocationTreeRoot string `json:"revocationTreeRoot,omitempty"`
	RootOfRoots        string `json:"rootOfRoots,omitempty"`
}

// IssuerData identifies the issuer and its published state inside a proof.
type IssuerData struct {
	ID    string     `json:"id,omitempty"`
	State *TreeState `json:"state,omitempty"`
}

// MerkleProof is an inclusion proof against the issuer's claims tree.
type MerkleProof struct {
	Existence bool     `json:"existence"`
	Siblings  []string `json:"siblings,omitempty"`
}

// Proof is one cryptographic proof object attached to a credential.
// This service treats proof material as opaque: it checks existence and shape,
// never validity. Signature and Merkle validation belong to the issuer node.
type Proof struct {
	Type       string       `json:"type"`
	Signature  string       `json:"signature,omitempty"`
	CoreClaim  string       `json:"coreClaim,omitempty"`
	IssuerData *IssuerData  `json:"issuerData,omitempty"`
	MTP        *MerkleProof `json:"mtp,omitempty"`
}

// Credential is a W3C-verifiable-credential-shaped record as returned by the
// issuer node. credentialSubject stays a loose map on purpose: the issuer owns
// the schema and this service only reads a handful of well-known keys.
type Credential struct {
	ID                string            `json:"id"`
	Context           []string          `json:"@context,omitempty"`
	Type              []string          `json:"type"`
	Issuer            string            `json:"issuer"`
	IssuanceDate      string            `json:"issuanceDate"`
	ExpirationDate    string            `json:"expirationDate,omitempty"`
	CredentialSubject map[string]any    `json:"credentialSubject"`
	CredentialStatus  *CredentialStatus `json:"credentialStatus,omitempty"`
	CredentialSchema  *Schema           `json:"credentialSchema,omitempty"`
	Proof             []Proof           `json:"proof,omitempty"`
}

// SubjectID returns credentialSubject.id, or "" when absent.
func (c *Credential) SubjectID() string {
	if c == nil || c.CredentialSubject == nil {
		return ""
	}
	if v, ok := c.CredentialSubject[AttrSubjectID].(string); ok {
		return v
	}
	return ""
}

// SubjectString returns a string attribute from credentialSubject.
func (c *Credential) SubjectString(key string) string {
	if c == nil || c.CredentialSubject == nil {
		return ""
	}
	if v, ok := c.CredentialSubject[key].(string); ok {
		return v
	}
	return ""
}

// HasType reports whether the credential's type set contains t.
func (c *Credential) HasType(t string) bool {
	if c == nil {
		return false
	}
	for _, typ := range c.Type {
		if typ == t {
			return true
		}
	}
	return false
}

// Confirmed reports whether the credential carries at least one proof object.
// A credential without proof is pending issuer-side state publication and must
// not be treated as verifiable.
func (c *Credential) Confirmed() bool {
	return c != nil && len(c.Proof) > 0
}

// SubjectAttributes is the typed input used to build credentialSubject at
// issuance time.
type SubjectAttributes struct {
	SubjectID        string
	FullName         string
	Email            string
	WalletAddress    string
	AuthMethod       string
	AccountState     string
	RegistrationDate time.Time
	BirthDate        time.Time
	Verified         bool
}

// ToSubjectMap shapes the attributes into the credentialSubject mapping sent
// to the issuer node. Empty optional attributes are omitted.
func (a SubjectAttributes) ToSubjectMap() map[string]any {
	subject := map[string]any{
		AttrSubjectID:        a.SubjectID,
		AttrFullName:         a.FullName,
		AttrAuthMethod:       a.AuthMethod,
		AttrAccountState:     a.AccountState,
		AttrRegistrationDate: a.RegistrationDate.Unix(),
		AttrVerified:         a.Verified,
	}
	if a.Email != "" {
		subject[AttrEmail] = a.Email
	}
	if a.WalletAddress != "" {
		subject[AttrWalletAddress] = a.WalletAddress
	}
	if !a.BirthDate.IsZero() {
		// Birth dates travel as YYYYMMDD integers so range predicates
		// can compare them.
		v, _ := strconv.Atoi(a.BirthDate.Format("20060102"))
		subject[AttrBirthDate] = v
	}
	return subject
}

// ProofSummary is a redacted, display-safe view of a credential proof.
// Hashes are truncated and raw secret material is never copied.
type ProofSummary struct {
	Type         string `json:"type"`
	HasSignature bool   `json:"hasSignature"`
	HasCoreClaim bool   `json:"hasCoreClaim"`
	IssuerState  string `json:"issuerState,omitempty"`
	ClaimsRoot   string `json:"claimsRoot,omitempty"`
	MerkleProof  bool   `json:"merkleProof"`
	SiblingCount int    `json:"siblingCount"`
	Existence    bool   `json:"existence"`
}

// Summarize derives a ProofSummary from the first proof of a credential.
// The first element is treated as canonical. Returns nil when no proof exists.
func Summarize(c *Credential) *ProofSummary {
	if c == nil || len(c.Proof) == 0 {
		return nil
	}
	p := c.Proof[0]
	s := &ProofSummary{
		Type:         p.Type,
		HasSignature: p.Signature != "",
		HasCoreClaim: p.CoreClaim != "",
	}
	if p.IssuerData != nil && p.IssuerData.State != nil {
		s.IssuerState = Truncate(p.IssuerData.State.Value)
		s.ClaimsRoot = Truncate(p.IssuerData.State.ClaimsTreeRoot)
	}
	if p.MTP != nil {
		s.MerkleProof = true
		s.SiblingCount = len(p.MTP.Siblings)
		s.Existence = p.MTP.Existence
	}
	return s
}

const truncateLen = 12

// Truncate shortens a hash-like value for display. Values at or below the
// display length pass through unchanged.
func Truncate(v string) string {
	if len(v) <= truncateLen {
		return v
	}
	return v[:truncateLen] + "..."
}

// MissingCoreFields lists which of the structurally required credential fields
// are absent. An empty result means the credential passes the shape check.
func (c *Credential) MissingCoreFields() []string {
	if c == nil {
		return []string{"credential"}
	}
	var missing []string
	if strings.TrimSpace(c.ID) == "" {
		missing = append(missing, "id")
	}
	if len(c.Type) == 0 {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(c.Issuer) == "" {
		missing = append(missing, "issuer")
	}
	if strings.TrimSpace(c.IssuanceDate) == "" {
		missing = append(missing, "issuanceDate")
	}
	if len(c.CredentialSubject) == 0 {
		missing = append(missing, "credentialSubject")
	}
	return missing
}
