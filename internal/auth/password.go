package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/billboardhub/billboard-market/internal/config"
)

// ErrMalformedHash is returned when a stored hash cannot be decoded.
var ErrMalformedHash = errors.New("malformed password hash")

// PasswordHasher hashes passwords for storage and verifies candidates against
// stored hashes. Verify compares in constant time.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// Argon2idHasher produces PHC-formatted argon2id hashes.
type Argon2idHasher struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

const argon2idPrefix = "$argon2id$"

// Hash returns $argon2id$v=19$m=<kib>,t=<n>,p=<n>$<salt>$<key>.
func (h Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, h.KeyLen)
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix, argon2.Version, h.Memory, h.Time, h.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the key with the parameters recorded in hash.
func (h Argon2idHasher) Verify(hash, password string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}
	var (
		memory, iterations uint32
		threads            uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, ErrMalformedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}
	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// BcryptHasher wraps golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	Cost int
}

// Hash hashes a plaintext password with configured cost.
func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks password against a bcrypt hash.
func (h BcryptHasher) Verify(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrMalformedHash
	}
}

// configuredHasher hashes with the configured algorithm and verifies hashes
// written by either one, so switching AUTH_PASSWORD_HASHER keeps old accounts working.
type configuredHasher struct {
	primary PasswordHasher
	argon   Argon2idHasher
	bcrypt  BcryptHasher
}

// NewPasswordHasher selects the hashing algorithm from configuration.
func NewPasswordHasher(cfg config.AuthConfig) PasswordHasher {
	h := &configuredHasher{
		argon: Argon2idHasher{
			Memory:  uint32(cfg.ArgonMemoryKiB),
			Time:    uint32(cfg.ArgonTimeCost),
			Threads: uint8(cfg.ArgonParallelism),
			SaltLen: 16,
			KeyLen:  32,
		},
		bcrypt: BcryptHasher{Cost: cfg.BcryptCost},
	}
	if cfg.PasswordHasher == config.HasherBcrypt {
		h.primary = h.bcrypt
	} else {
		h.primary = h.argon
	}
	return h
}

func (h *configuredHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *configuredHasher) Verify(hash, password string) (bool, error) {
	if strings.HasPrefix(hash, argon2idPrefix) {
		return h.argon.Verify(hash, password)
	}
	return h.bcrypt.Verify(hash, password)
}
