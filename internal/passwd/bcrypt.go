package passwd

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/blowfish"
)

const (
	bcryptAlphabet  = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	bcryptSaltLen   = 22
	bcryptMaxSecret = 72
	bcryptIdent     = "$2b$"
)

var (
	bcryptEncoding = base64.NewEncoding(bcryptAlphabet).WithPadding(base64.NoPadding)
	bcryptMagic    = []byte("OrpheanBeholderScryDoubt")
)

type bcryptHasher struct {
	salt   saltPolicy
	rounds roundsPolicy
}

// NewBCrypt returns the bcrypt ($2b$) hasher. Rounds is the log2 cost.
func NewBCrypt() Hasher {
	return &bcryptHasher{
		salt:   saltPolicy{name: BCrypt, defaultSize: bcryptSaltLen, minSize: bcryptSaltLen, maxSize: bcryptSaltLen},
		rounds: roundsPolicy{name: BCrypt, def: 12, min: bcrypt.MinCost, max: bcrypt.MaxCost},
	}
}

func (h *bcryptHasher) Name() string { return BCrypt }

func (h *bcryptHasher) Hash(secret string, opts Options) (string, error) {
	cost, err := h.rounds.resolve(opts.Rounds)
	if err != nil {
		return "", err
	}
	if len(secret) > bcryptMaxSecret {
		return "", fmt.Errorf("%w: %s accepts at most %d bytes", ErrPasswordTooLong, BCrypt, bcryptMaxSecret)
	}

	if opts.Salt == "" {
		out, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return bcryptIdent + strings.TrimPrefix(string(out), "$2a$"), nil
	}

	salt, err := h.salt.resolve(opts.Salt)
	if err != nil {
		return "", err
	}
	return bcryptWithSalt([]byte(secret), salt, cost)
}

func (h *bcryptHasher) Verify(secret, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

// bcryptWithSalt runs the eksblowfish setup with a caller supplied salt.
// Padding bits in the last salt character are normalized, as the
// 22-character form carries 132 bits for a 128-bit salt.
func bcryptWithSalt(secret []byte, salt string, cost int) (string, error) {
	csalt, err := bcryptEncoding.DecodeString(salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSalt, err)
	}

	key := make([]byte, 0, len(secret)+1)
	key = append(key, secret...)
	key = append(key, 0)
	if len(key) > bcryptMaxSecret {
		key = key[:bcryptMaxSecret]
	}

	c, err := blowfish.NewSaltedCipher(key, csalt)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	for i := uint64(0); i < 1<<uint(cost); i++ {
		blowfish.ExpandKey(key, c)
		blowfish.ExpandKey(csalt, c)
	}

	data := make([]byte, len(bcryptMagic))
	copy(data, bcryptMagic)
	for i := 0; i < len(data); i += 8 {
		for j := 0; j < 64; j++ {
			c.Encrypt(data[i:i+8], data[i:i+8])
		}
	}

	return fmt.Sprintf("%s%02d$%s%s", bcryptIdent, cost,
		bcryptEncoding.EncodeToString(csalt),
		bcryptEncoding.EncodeToString(data[:23])), nil
}
