package srp

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/dpetukhov/srpvault/internal/common"
)

// Handler holds the server-side SRP-6a computations. It is stateless and
// safe for concurrent use; all per-attempt state is owned by the caller.
type Handler struct {
	n *big.Int
	g *big.Int
	k *big.Int
}

// NewHandler returns a Handler bound to the package group parameters.
func NewHandler() *Handler {
	return &Handler{n: groupN, g: groupG, k: groupK}
}

// RandomSeed returns a cryptographically random value in [1, N), used as the
// private server ephemeral b. An RNG failure is an infrastructure error.
func (h *Handler) RandomSeed() (*big.Int, error) {
	max := new(big.Int).Sub(h.n, big.NewInt(1))
	r, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorEntropy, err)
	}
	return r.Add(r, big.NewInt(1)), nil
}

// PublicServerEphemeral computes B = (k*v + g^b) mod N for the private
// ephemeral b and verifier v. Deterministic given its inputs.
func (h *Handler) PublicServerEphemeral(b, v *big.Int) *big.Int {
	kv := new(big.Int).Mul(h.k, v)
	kv.Mod(kv, h.n)

	gb := new(big.Int).Exp(h.g, b, h.n)

	B := kv.Add(kv, gb)
	return B.Mod(B, h.n)
}

// SessionServer computes the shared secret S = (A * v^u)^b mod N with
// u = H(pad(A) | pad(B)).
//
// A ≡ 0 (mod N) is rejected before any secret computation: such an A forces
// S to zero regardless of the password. A zero u is rejected for the same
// reason on the exponent side.
func (h *Handler) SessionServer(A, B, b, v *big.Int) (*big.Int, error) {
	if new(big.Int).Mod(A, h.n).Sign() == 0 {
		return nil, fmt.Errorf("%w: A mod N == 0", common.ErrInvalidEphemeral)
	}

	u := h.scramble(A, B)
	if u.Sign() == 0 {
		return nil, fmt.Errorf("%w: H(A, B) == 0", common.ErrInvalidEphemeral)
	}

	vu := new(big.Int).Exp(v, u, h.n)
	avu := new(big.Int).Mul(A, vu)
	avu.Mod(avu, h.n)
	return avu.Exp(avu, b, h.n), nil
}

// FirstMatcher computes M1 = H(A | B | S), the client's proof of the shared
// secret, as a hex string.
func (h *Handler) FirstMatcher(A, B, S *big.Int) string {
	d := sha256.New()
	d.Write(A.Bytes())
	d.Write(B.Bytes())
	d.Write(S.Bytes())
	return hex.EncodeToString(d.Sum(nil))
}

// SecondMatcher computes M2 = H(A | M1 | S), the server's proof back to the
// client. firstMatcher must be a value produced by FirstMatcher.
func (h *Handler) SecondMatcher(A *big.Int, firstMatcher string, S *big.Int) string {
	m1, _ := hex.DecodeString(firstMatcher)
	d := sha256.New()
	d.Write(A.Bytes())
	d.Write(m1)
	d.Write(S.Bytes())
	return hex.EncodeToString(d.Sum(nil))
}

// SessionKey derives K = H(S), the symmetric key both parties end up with.
func (h *Handler) SessionKey(S *big.Int) string {
	d := sha256.Sum256(S.Bytes())
	return hex.EncodeToString(d[:])
}

// scramble computes u = H(pad(A) | pad(B)).
func (h *Handler) scramble(A, B *big.Int) *big.Int {
	d := sha256.New()
	d.Write(pad(A, h.n))
	d.Write(pad(B, h.n))
	return new(big.Int).SetBytes(d.Sum(nil))
}
