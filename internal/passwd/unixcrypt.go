package passwd

import (
	"fmt"
	"strings"

	"github.com/GehirnInc/crypt"
	_ "github.com/GehirnInc/crypt/md5_crypt"
	_ "github.com/GehirnInc/crypt/sha256_crypt"
	_ "github.com/GehirnInc/crypt/sha512_crypt"
)

// unixCrypter adapts the glibc-compatible crypt(3) schemes
type unixCrypter struct {
	name   string
	scheme crypt.Crypt
	prefix string
	salt   saltPolicy
	// nil for schemes without a cost parameter
	rounds *roundsPolicy
}

// NewMD5Crypt returns the $1$ hasher. It has no cost parameter, so Rounds
// is ignored.
func NewMD5Crypt() Hasher {
	return &unixCrypter{
		name:   MD5Crypt,
		scheme: crypt.MD5,
		prefix: "$1$",
		salt:   saltPolicy{name: MD5Crypt, defaultSize: 8, maxSize: 8},
	}
}

// NewSHA256Crypt returns the $5$ hasher
func NewSHA256Crypt() Hasher {
	return &unixCrypter{
		name:   SHA256Crypt,
		scheme: crypt.SHA256,
		prefix: "$5$",
		salt:   saltPolicy{name: SHA256Crypt, defaultSize: 16, maxSize: 16},
		rounds: &roundsPolicy{name: SHA256Crypt, def: 535000, min: 1000, max: 999999999},
	}
}

// NewSHA512Crypt returns the $6$ hasher
func NewSHA512Crypt() Hasher {
	return &unixCrypter{
		name:   SHA512Crypt,
		scheme: crypt.SHA512,
		prefix: "$6$",
		salt:   saltPolicy{name: SHA512Crypt, defaultSize: 16, maxSize: 16},
		rounds: &roundsPolicy{name: SHA512Crypt, def: 656000, min: 1000, max: 999999999},
	}
}

func (h *unixCrypter) Name() string { return h.name }

func (h *unixCrypter) Hash(secret string, opts Options) (string, error) {
	salt, err := h.salt.resolve(opts.Salt)
	if err != nil {
		return "", err
	}

	config := h.prefix + salt
	if h.rounds != nil {
		rounds, err := h.rounds.resolve(opts.Rounds)
		if err != nil {
			return "", err
		}
		config = fmt.Sprintf("%srounds=%d$%s", h.prefix, rounds, salt)
	}

	out, err := h.scheme.New().Generate([]byte(secret), []byte(config))
	if err != nil {
		return "", fmt.Errorf("%s: %w", h.name, err)
	}
	return out, nil
}

func (h *unixCrypter) Verify(secret, hash string) (bool, error) {
	if !strings.HasPrefix(hash, h.prefix) {
		return false, fmt.Errorf("%w: not a %s hash", ErrMalformedHash, h.name)
	}
	// any failure past the prefix check is a mismatch
	if err := h.scheme.New().Verify(hash, []byte(secret)); err != nil {
		return false, nil
	}
	return true, nil
}
