// Package client implements the HTTP client side of the srpvault
// authentication flow: registration and the two-phase SRP login with
// mutual verification of the server's proof.
package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dpetukhov/srpvault/internal/srp"
)

// ErrServerProof is returned when the server's second matcher does not
// verify: the server did not prove knowledge of the shared secret.
var ErrServerProof = errors.New("server proof verification failed")

// Session is the outcome of a successful login.
type Session struct {
	Token      string
	SessionKey string
}

// Client talks to the srpvault HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Register computes a fresh salt and verifier from the password and creates
// the account. The password never leaves the process.
func (c *Client) Register(ctx context.Context, email string, password []byte) error {
	salt, verifier, err := srp.ComputeVerifier(password)
	if err != nil {
		return err
	}

	req := map[string]string{
		"email":    email,
		"salt":     hex.EncodeToString(salt),
		"verifier": srp.EncodeInt(verifier),
	}
	return c.post(ctx, "/api/auth/srp/register", req, nil)
}

// Login runs prepare + login and verifies the server's proof before
// returning the issued token and derived session key.
func (c *Client) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	session, err := srp.NewClientSession(password)
	if err != nil {
		return nil, err
	}

	var prepared struct {
		Salt                  string `json:"salt"`
		ServerPublicEphemeral string `json:"serverPublicEphemeral"`
	}
	if err := c.post(ctx, "/api/auth/srp/prepare", map[string]string{"email": email}, &prepared); err != nil {
		return nil, err
	}

	salt, err := hex.DecodeString(prepared.Salt)
	if err != nil {
		return nil, fmt.Errorf("malformed salt from server: %w", err)
	}
	B, ok := srp.DecodeInt(prepared.ServerPublicEphemeral)
	if !ok {
		return nil, errors.New("malformed server ephemeral")
	}

	matcher, err := session.ComputeProof(salt, B)
	if err != nil {
		return nil, err
	}

	var result struct {
		SecondMatcher string `json:"secondMatcher"`
		Token         string `json:"token"`
	}
	loginReq := map[string]string{
		"email":                 email,
		"clientPublicEphemeral": srp.EncodeInt(session.PublicEphemeral()),
		"matcher":               matcher,
	}
	if err := c.post(ctx, "/api/auth/srp/login", loginReq, &result); err != nil {
		return nil, err
	}

	if !session.VerifySecondMatcher(result.SecondMatcher) {
		return nil, ErrServerProof
	}

	return &Session{Token: result.Token, SessionKey: session.SessionKey()}, nil
}

// Confirm exchanges the locally derived session key for a token via the
// confirmation gate.
func (c *Client) Confirm(ctx context.Context, email, sessionKey string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	req := map[string]string{"email": email, "clientSessionKey": sessionKey}
	if err := c.post(ctx, "/api/auth/srp/confirm", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
