// Package srp implements the server and client sides of SRP-6a mutual
// authentication over the RFC 5054 2048-bit group with SHA-256.
//
// The server never sees the password: registration stores a salt and a
// verifier v = g^x, login exchanges ephemeral values and hash-derived
// matchers that prove both sides computed the same session secret.
package srp

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// RFC 5054 Appendix A, 2048-bit group. The generator is 2.
var (
	groupN = initN()
	groupG = big.NewInt(2)

	// multiplier k = H(N | pad(g))
	groupK = computeK(groupN, groupG)
)

func initN() *big.Int {
	n := new(big.Int)
	n.SetString(
		"AC6BDB41324A9A9BF166DE5E1389582FAF72B6651987EE07FC3192943DB56050"+
			"A37329CBB4A099ED8193E0757767A13DD52312AB4B03310DCD7F48A9DA04FD50"+
			"E8083969EDB767B0CF6095179A163AB3661A05FBD5FAAAE82918A9962F0B93B8"+
			"55F97993EC975EEAA80D740ADBF4FF747359D041D5C33EA71D281E446B14773B"+
			"CA97B43A23FB801676BD207A436C6481F1D2B9078717461A5B9D32E688F87748"+
			"544523B524B0D57D5EA77A2775D2ECFA032CFBDBF52FB3786160279004E57AE6"+
			"AF874E7303CE53299CCC041C7BC308D82A5698F3A8D0C38271AE35F8E9DBFBB6"+
			"94B5C803D89F7AE435DE236D525F54759B65E372FCD68EF20FA7111F9E4AFF73", 16)
	return n
}

func computeK(n, g *big.Int) *big.Int {
	h := sha256.New()
	h.Write(n.Bytes())
	h.Write(pad(g, n))
	return new(big.Int).SetBytes(h.Sum(nil))
}

// pad left-pads the bytes of v to the byte length of n, as required for the
// u and k computations.
func pad(v, n *big.Int) []byte {
	size := len(n.Bytes())
	b := v.Bytes()
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

// GroupParameters returns the protocol constants (N, g, k). The returned
// values must not be mutated.
func GroupParameters() (n, g, k *big.Int) {
	return groupN, groupG, groupK
}

// EncodeInt renders a protocol value as a lowercase hex string, the wire
// representation used by the HTTP API.
func EncodeInt(v *big.Int) string {
	return hex.EncodeToString(v.Bytes())
}

// DecodeInt parses a hex wire value. The second return value is false for
// malformed input or the empty string.
func DecodeInt(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return new(big.Int).SetBytes(b), true
}
