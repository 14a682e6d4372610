package srp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/dpetukhov/srpvault/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltLength is the number of random salt bytes generated at registration.
const SaltLength = 32

// DeriveX computes the private key x from the password and salt using
// Argon2id. Both registration and login must use the same derivation.
func DeriveX(password, salt []byte) *big.Int {
	key := argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
	return new(big.Int).SetBytes(key)
}

// ComputeVerifier generates a fresh salt and the verifier v = g^x mod N
// that is stored on the server at registration. The password itself never
// leaves the caller.
func ComputeVerifier(password []byte) (salt []byte, verifier *big.Int, err error) {
	salt = make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorEntropy, err)
	}
	return salt, ComputeVerifierWithSalt(password, salt), nil
}

// ComputeVerifierWithSalt computes v = g^x mod N for an existing salt.
func ComputeVerifierWithSalt(password, salt []byte) *big.Int {
	x := DeriveX(password, salt)
	return new(big.Int).Exp(groupG, x, groupN)
}
