package srp

import (
	"crypto/subtle"
	"fmt"
	"math/big"

	"github.com/dpetukhov/srpvault/internal/common"
)

// ClientSession holds the client side of one login attempt. Instances
// cannot be reused and are not safe for concurrent use.
type ClientSession struct {
	h        *Handler
	password []byte
	a        *big.Int
	pubA     *big.Int
	secret   *big.Int
	matcher  string
}

// NewClientSession generates the client ephemeral pair (a, A) for one login
// attempt with the given password.
func NewClientSession(password []byte) (*ClientSession, error) {
	h := NewHandler()
	a, err := h.RandomSeed()
	if err != nil {
		return nil, err
	}
	return &ClientSession{
		h:        h,
		password: password,
		a:        a,
		pubA:     new(big.Int).Exp(h.g, a, h.n),
	}, nil
}

// PublicEphemeral returns A, the value sent to the server in the login phase.
func (c *ClientSession) PublicEphemeral() *big.Int {
	return c.pubA
}

// ComputeProof consumes the salt and server ephemeral B returned by prepare
// and produces the first matcher M1. The session secret
// S = (B - k*g^x)^(a + u*x) mod N is retained for the mutual-verification
// step.
func (c *ClientSession) ComputeProof(salt []byte, B *big.Int) (string, error) {
	if new(big.Int).Mod(B, c.h.n).Sign() == 0 {
		return "", fmt.Errorf("%w: B mod N == 0", common.ErrInvalidEphemeral)
	}

	u := c.h.scramble(c.pubA, B)
	if u.Sign() == 0 {
		return "", fmt.Errorf("%w: H(A, B) == 0", common.ErrInvalidEphemeral)
	}

	x := DeriveX(c.password, salt)

	// base = (B - k*g^x) mod N
	gx := new(big.Int).Exp(c.h.g, x, c.h.n)
	kgx := new(big.Int).Mul(c.h.k, gx)
	kgx.Mod(kgx, c.h.n)
	base := new(big.Int).Sub(B, kgx)
	base.Mod(base, c.h.n)

	// exponent a + u*x, not reduced: the exponent lives in the group order,
	// not mod N, and the server computes with the full b as well.
	exp := new(big.Int).Mul(u, x)
	exp.Add(exp, c.a)

	c.secret = base.Exp(base, exp, c.h.n)
	c.matcher = c.h.FirstMatcher(c.pubA, B, c.secret)
	return c.matcher, nil
}

// VerifySecondMatcher checks the server's proof M2 against the client's own
// computation, completing mutual authentication.
func (c *ClientSession) VerifySecondMatcher(m2 string) bool {
	if c.secret == nil {
		return false
	}
	expected := c.h.SecondMatcher(c.pubA, c.matcher, c.secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(m2)) == 1
}

// SessionKey returns K = H(S). Valid only after ComputeProof.
func (c *ClientSession) SessionKey() string {
	return c.h.SessionKey(c.secret)
}
