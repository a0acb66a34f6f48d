// Package credential turns PINs into one-way digests and checks PINs against them.
// Raw PINs are never stored or logged by this package.
package credential

import (
	"crypto"
	_ "crypto/md5" // registers crypto.MD5
	_ "crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrHashUnavailable is returned by NewHasher when the configured algorithm
// is unknown or not linked into the binary.
var ErrHashUnavailable = errors.New("hash algorithm unavailable")

// Supported algorithm names
const (
	AlgorithmMD5    = "md5"
	AlgorithmSHA256 = "sha256"
	AlgorithmBcrypt = "bcrypt"
)

// Digest is the stored form of a PIN
type Digest []byte

// Hasher hashes and verifies PINs
type Hasher interface {
	Hash(pin string) (Digest, error)
	Verify(pin string, digest Digest) bool
	Algorithm() string
}

// NewHasher builds the Hasher for algorithm. bcryptCost only applies to bcrypt.
func NewHasher(algorithm string, bcryptCost int) (Hasher, error) {
	switch strings.ToLower(algorithm) {
	case AlgorithmMD5:
		return newDigestHasher(AlgorithmMD5, crypto.MD5)
	case AlgorithmSHA256:
		return newDigestHasher(AlgorithmSHA256, crypto.SHA256)
	case AlgorithmBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]: %w", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost, ErrHashUnavailable)
		}
		return &bcryptHasher{cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("%q: %w", algorithm, ErrHashUnavailable)
	}
}

// digestHasher is the unsalted digest scheme the ledger has always used.
type digestHasher struct {
	name string
	hash crypto.Hash
}

func newDigestHasher(name string, h crypto.Hash) (Hasher, error) {
	if !h.Available() {
		return nil, fmt.Errorf("%s: %w", name, ErrHashUnavailable)
	}
	return &digestHasher{name: name, hash: h}, nil
}

func (d *digestHasher) Hash(pin string) (Digest, error) {
	h := d.hash.New()
	h.Write([]byte(pin))
	return h.Sum(nil), nil
}

func (d *digestHasher) Verify(pin string, digest Digest) bool {
	candidate, _ := d.Hash(pin)
	// ConstantTimeCompare returns 0 early on length mismatch; every digest from
	// this hasher has the same length.
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

func (d *digestHasher) Algorithm() string { return d.name }

type bcryptHasher struct {
	cost int
}

func (b *bcryptHasher) Hash(pin string) (Digest, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(pin), b.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}
	return digest, nil
}

func (b *bcryptHasher) Verify(pin string, digest Digest) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(pin)) == nil
}

func (b *bcryptHasher) Algorithm() string { return AlgorithmBcrypt }
