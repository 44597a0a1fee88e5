package httptransport

import (
	"net/http"
	"time"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/query"
	"github.com/0xronaldo/backend-zkp-lastproyect/internal/issuer"
	dErrors "github.com/0xronaldo/backend-zkp-lastproyect/pkg/domain-errors"
	"github.com/0xronaldo/backend-zkp-lastproyect/pkg/platform/httputil"
)

// atomicQueryCircuit is the iden3 circuit a wallet uses to answer these
// queries.
const atomicQueryCircuit = "credentialAtomicQuerySigV2"

type proofQueryRequest struct {
	Conditions map[string]any `json:"conditions"`
}

type proofQueryResponse struct {
	CircuitID string         `json:"circuitId"`
	Query     proofQueryBody `json:"query"`
}

type proofQueryBody struct {
	AllowedIssuers    []string         `json:"allowedIssuers"`
	Context           string           `json:"context"`
	Type              string           `json:"type"`
	CredentialSubject query.ProofQuery `json:"credentialSubject"`
}

// handleProofQuery shapes named conditions into a selective-disclosure query
// a wallet can satisfy without revealing attribute values.
func (h *Handler) handleProofQuery(w http.ResponseWriter, r *http.Request) {
	var req proofQueryRequest
	if err := httputil.DecodeJSON(r, &req, maxBodyBytes); err != nil {
		httputil.WriteError(w, err)
		return
	}

	q := query.Combined(time.Now(), req.Conditions)
	if len(q) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "no recognized conditions"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, proofQueryResponse{
		CircuitID: atomicQueryCircuit,
		Query: proofQueryBody{
			AllowedIssuers:    []string{"*"},
			Context:           issuer.CredentialSchemaURL,
			Type:              models.TypeUserProfile,
			CredentialSubject: q,
		},
	})
}
