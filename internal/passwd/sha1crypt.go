package passwd

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"fmt"
	"strconv"
	"strings"
)

var sha1CryptOffsets = []int{2, 1, 0, 5, 4, 3, 8, 7, 6, 11, 10, 9, 14, 13, 12, 17, 16, 15, 0, 19, 18}

type sha1Crypter struct {
	salt   saltPolicy
	rounds roundsPolicy
}

// NewSHA1Crypt returns the NetBSD $sha1$ hasher: an HMAC-SHA1 chain keyed
// by the password.
func NewSHA1Crypt() Hasher {
	return &sha1Crypter{
		salt:   saltPolicy{name: SHA1Crypt, defaultSize: 8, maxSize: 64},
		rounds: roundsPolicy{name: SHA1Crypt, def: 480000, min: 1, max: 1<<32 - 1},
	}
}

func (h *sha1Crypter) Name() string { return SHA1Crypt }

func (h *sha1Crypter) Hash(secret string, opts Options) (string, error) {
	salt, err := h.salt.resolve(opts.Salt)
	if err != nil {
		return "", err
	}
	rounds, err := h.rounds.resolve(opts.Rounds)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("$sha1$%d$%s$%s", rounds, salt, sha1CryptChecksum(secret, salt, rounds)), nil
}

func (h *sha1Crypter) Verify(secret, hash string) (bool, error) {
	// $sha1$<rounds>$<salt>$<checksum>
	parts := strings.Split(hash, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "sha1" {
		return false, fmt.Errorf("%w: not a %s hash", ErrMalformedHash, SHA1Crypt)
	}
	rounds, err := strconv.Atoi(parts[2])
	if err != nil || rounds < h.rounds.min || rounds > h.rounds.max {
		return false, fmt.Errorf("%w: bad %s rounds", ErrMalformedHash, SHA1Crypt)
	}

	want := sha1CryptChecksum(secret, parts[3], rounds)
	return subtle.ConstantTimeCompare([]byte(want), []byte(parts[4])) == 1, nil
}

func sha1CryptChecksum(secret, salt string, rounds int) string {
	result := []byte(fmt.Sprintf("%s$sha1$%d", salt, rounds))
	mac := hmac.New(sha1.New, []byte(secret))
	for i := 0; i < rounds; i++ {
		mac.Reset()
		mac.Write(result)
		result = mac.Sum(result[:0])
	}
	return h64EncodeTransposed(result, sha1CryptOffsets)
}
