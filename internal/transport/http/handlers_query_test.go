package httptransport

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleProofQuery(t *testing.T) {
	srv := newTestServer(&fakeAuth{})

	rec := postJSON(t, srv, "/proof-query", map[string]any{
		"conditions": map[string]any{
			"minAge":       18,
			"accountState": "active",
			"hasEmail":     true,
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		CircuitID string `json:"circuitId"`
		Query     struct {
			AllowedIssuers    []string                  `json:"allowedIssuers"`
			Type              string                    `json:"type"`
			CredentialSubject map[string]map[string]any `json:"credentialSubject"`
		} `json:"query"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "credentialAtomicQuerySigV2", resp.CircuitID)
	assert.Equal(t, []string{"*"}, resp.Query.AllowedIssuers)
	assert.Equal(t, "UserProfileCredential", resp.Query.Type)
	assert.Len(t, resp.Query.CredentialSubject, 3)
	assert.Contains(t, resp.Query.CredentialSubject["birthDate"], "$lt")
	assert.Equal(t, "active", resp.Query.CredentialSubject["accountState"]["$eq"])
	assert.Equal(t, true, resp.Query.CredentialSubject["email"]["$exists"])
}

func TestHandleProofQueryNoRecognizedConditions(t *testing.T) {
	srv := newTestServer(&fakeAuth{})

	rec := postJSON(t, srv, "/proof-query", map[string]any{
		"conditions": map[string]any{"favouriteColor": "green"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleProofQueryEmptyBody(t *testing.T) {
	srv := newTestServer(&fakeAuth{})

	rec := postJSON(t, srv, "/proof-query", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
