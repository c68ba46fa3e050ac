package cookie

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"hash"
	"slices"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

const minSecretLength = 32

// DefaultHashAlgorithm is used when no algorithm is configured.
const DefaultHashAlgorithm = "sha512"

var hashAlgorithms = map[string]func() hash.Hash{
	"sha1":     sha1.New,
	"sha256":   sha256.New,
	"sha384":   sha512.New384,
	"sha512":   sha512.New,
	"sha3-256": sha3.New256,
	"sha3-512": sha3.New512,
	"blake2b-256": func() hash.Hash {
		h, _ := blake2b.New256(nil)
		return h
	},
	"blake2b-512": func() hash.Hash {
		h, _ := blake2b.New512(nil)
		return h
	},
}

// HashAlgorithms returns the names accepted by NewSigner, sorted.
func HashAlgorithms() []string {
	names := make([]string, 0, len(hashAlgorithms))
	for name := range hashAlgorithms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Signer produces and verifies tamper-evident tokens.
//
// A token is base64url(mac || value) where mac is the HMAC of value keyed by
// hash(salt + secret). The salt namespaces a secret so that the same secret
// can sign unrelated values without their tokens being interchangeable.
// Several secrets may be supplied: the first one signs, all of them verify.
type Signer struct {
	keys    [][]byte
	newHash func() hash.Hash
	size    int
}

// NewSigner creates a Signer for the given secrets, salt and hash algorithm.
// An empty algorithm selects DefaultHashAlgorithm.
func NewSigner(secrets []string, salt, algorithm string) (*Signer, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	if algorithm == "" {
		algorithm = DefaultHashAlgorithm
	}
	newHash, ok := hashAlgorithms[strings.ToLower(algorithm)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHashAlgorithm, algorithm)
	}

	keys := make([][]byte, 0, len(secrets))
	for _, s := range secrets {
		h := newHash()
		h.Write([]byte(salt))
		h.Write([]byte(s))
		keys = append(keys, h.Sum(nil))
	}

	return &Signer{
		keys:    keys,
		newHash: newHash,
		size:    newHash().Size(),
	}, nil
}

// Sign returns the token for value, signed with the primary secret.
func (s *Signer) Sign(value []byte) string {
	mac := s.mac(s.keys[0], value)
	return base64.RawURLEncoding.EncodeToString(append(mac, value...))
}

// SignString is Sign for string values.
func (s *Signer) SignString(value string) string {
	return s.Sign([]byte(value))
}

// Verify checks the token against every configured secret and returns the
// signed value.
func (s *Signer) Verify(token string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if len(raw) < s.size {
		return nil, ErrInvalidFormat
	}

	sig, value := raw[:s.size], raw[s.size:]
	for _, key := range s.keys {
		if subtle.ConstantTimeCompare(sig, s.mac(key, value)) == 1 {
			return value, nil
		}
	}

	return nil, ErrInvalidSignature
}

// VerifyString is Verify for string values.
func (s *Signer) VerifyString(token string) (string, error) {
	value, err := s.Verify(token)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func (s *Signer) mac(key, value []byte) []byte {
	m := hmac.New(s.newHash, key)
	m.Write(value)
	return m.Sum(nil)
}
