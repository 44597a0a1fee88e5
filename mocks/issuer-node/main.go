// Command issuer-node is a stand-in for the Polygon ID issuer node in local
// development. It implements the identity and credential endpoints the
// service calls, keeps everything in memory, and simulates latency.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultPort      = "3001"
	defaultUser      = "user-issuer"
	defaultPassword  = "password-issuer"
	defaultLatencyMs = "50"
)

type identity struct {
	Identifier string `json:"identifier"`
	State      struct {
		State  string `json:"state"`
		Status string `json:"status"`
	} `json:"state"`
}

type credential struct {
	ID                string         `json:"id"`
	Type              []string       `json:"type"`
	Issuer            string         `json:"issuer"`
	IssuanceDate      string         `json:"issuanceDate"`
	CredentialSubject map[string]any `json:"credentialSubject"`
	Proof             []any          `json:"proof,omitempty"`
}

type server struct {
	mu          sync.Mutex
	identities  []identity
	credentials map[string]*credential
	published   bool
}

var (
	user      = getEnv("ISSUER_USER", defaultUser)
	password  = getEnv("ISSUER_PASSWORD", defaultPassword)
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
)

func main() {
	port := getEnv("PORT", defaultPort)
	s := &server{credentials: make(map[string]*credential)}

	// The node always has its own issuing identity.
	s.identities = append(s.identities, newIdentity())

	mux := http.NewServeMux()
	mux.HandleFunc("/identities", s.authed(s.handleIdentities))
	mux.HandleFunc("/identities/", s.authed(s.handleIdentityOps))

	log.Printf("mock issuer node listening on :%s (latency %dms)", port, latencyMs)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}

func (s *server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(latencyMs) * time.Millisecond)
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != password {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
			return
		}
		next(w, r)
	}
}

func (s *server) handleIdentities(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.identities)
	case http.MethodPost:
		id := newIdentity()
		s.identities = append(s.identities, id)
		writeJSON(w, http.StatusCreated, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleIdentityOps dispatches /identities/{did}/credentials,
// /identities/{did}/credentials/{id}, and /identities/{did}/state/publish.
func (s *server) handleIdentityOps(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rest := strings.TrimPrefix(r.URL.Path, "/identities/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 2 && parts[1] == "credentials" && r.Method == http.MethodPost:
		s.createCredential(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "credentials" && r.Method == http.MethodGet:
		s.getCredential(w, parts[2])
	case len(parts) == 3 && parts[1] == "state" && parts[2] == "publish" && r.Method == http.MethodPost:
		s.published = true
		writeJSON(w, http.StatusAccepted, map[string]string{
			"txID":  "0x" + randomHex(32),
			"state": randomHex(32),
		})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func (s *server) createCredential(w http.ResponseWriter, r *http.Request, issuerDID string) {
	var req struct {
		Type              string         `json:"type"`
		CredentialSubject map[string]any `json:"credentialSubject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}

	c := &credential{
		ID:                randomHex(16),
		Type:              []string{"VerifiableCredential", req.Type},
		Issuer:            issuerDID,
		IssuanceDate:      time.Now().UTC().Format(time.RFC3339),
		CredentialSubject: req.CredentialSubject,
	}
	s.credentials[c.ID] = c
	writeJSON(w, http.StatusCreated, map[string]string{"id": c.ID})
}

func (s *server) getCredential(w http.ResponseWriter, id string) {
	c, ok := s.credentials[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "credential not found"})
		return
	}
	// Proof material appears once state publication has happened.
	if s.published && len(c.Proof) == 0 {
		c.Proof = []any{map[string]any{
			"type":      "BJJSignature2021",
			"signature": randomHex(64),
			"coreClaim": randomHex(64),
		}}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":         c.ID,
		"revoked":    false,
		"proofTypes": proofTypes(c),
		"vc":         c,
	})
}

func proofTypes(c *credential) []string {
	if len(c.Proof) == 0 {
		return nil
	}
	return []string{"BJJSignature2021"}
}

func newIdentity() identity {
	var id identity
	id.Identifier = "did:polygonid:polygon:amoy:2q" + randomHex(20)
	id.State.State = randomHex(32)
	id.State.Status = "confirmed"
	return id
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("rand: %v", err))
	}
	return hex.EncodeToString(b)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key, fallback string) int {
	v := getEnv(key, fallback)
	n, err := strconv.Atoi(v)
	if err != nil {
		n, _ = strconv.Atoi(fallback)
	}
	return n
}
