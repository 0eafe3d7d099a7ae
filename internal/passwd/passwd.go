package passwd

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Algorithm names
const (
	MD5Crypt    = "md5_crypt"
	BCrypt      = "bcrypt"
	SHA1Crypt   = "sha1_crypt"
	SunMD5Crypt = "sun_md5_crypt"
	SHA256Crypt = "sha256_crypt"
	SHA512Crypt = "sha512_crypt"
)

var (
	ErrInvalidSalt     = errors.New("invalid salt")
	ErrInvalidRounds   = errors.New("invalid rounds")
	ErrPasswordTooLong = errors.New("password too long")
	ErrMalformedHash   = errors.New("malformed hash")
	ErrUnknownHasher   = errors.New("unknown algorithm")
)

// Options tunes a single Hash call. An empty Salt asks for a random one and a
// nil Rounds selects the algorithm default.
type Options struct {
	Salt   string
	Rounds *int
}

// Hasher produces and checks crypt-style password hashes
type Hasher interface {
	Name() string
	Hash(secret string, opts Options) (string, error)
	Verify(secret, hash string) (bool, error)
}

// Registry maps algorithm names to hashers
type Registry struct {
	hashers map[string]Hasher
}

// NewRegistry creates a registry holding hashers
func NewRegistry(hashers ...Hasher) *Registry {
	r := &Registry{hashers: make(map[string]Hasher, len(hashers))}
	for _, h := range hashers {
		r.hashers[h.Name()] = h
	}
	return r
}

// DefaultRegistry returns the six supported algorithms
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewMD5Crypt(),
		NewBCrypt(),
		NewSHA1Crypt(),
		NewSunMD5Crypt(),
		NewSHA256Crypt(),
		NewSHA512Crypt(),
	)
}

// Get returns the hasher registered under name
func (r *Registry) Get(name string) (Hasher, error) {
	h, ok := r.hashers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHasher, name)
	}
	return h, nil
}

// Names returns the registered algorithm names in lexical order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.hashers))
	for name := range r.hashers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// saltChars is the hash64 alphabet shared by every supported scheme
const saltChars = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// saltPolicy describes the salts one algorithm accepts
type saltPolicy struct {
	name        string
	defaultSize int
	minSize     int
	maxSize     int // zero means unbounded
}

// resolve validates salt, or generates one when it is empty
func (p saltPolicy) resolve(salt string) (string, error) {
	if salt == "" {
		return randomSalt(p.defaultSize)
	}
	if p.maxSize > 0 && len(salt) > p.maxSize {
		return "", fmt.Errorf("%w: salt too large (%s requires <= %d chars)", ErrInvalidSalt, p.name, p.maxSize)
	}
	if len(salt) < p.minSize {
		return "", fmt.Errorf("%w: salt too small (%s requires >= %d chars)", ErrInvalidSalt, p.name, p.minSize)
	}
	if i := strings.IndexFunc(salt, func(c rune) bool { return !strings.ContainsRune(saltChars, c) }); i >= 0 {
		return "", fmt.Errorf("%w: invalid characters in %s salt", ErrInvalidSalt, p.name)
	}
	return salt, nil
}

// roundsPolicy describes the cost parameter of one algorithm
type roundsPolicy struct {
	name     string
	def      int
	min, max int
}

func (p roundsPolicy) resolve(rounds *int) (int, error) {
	if rounds == nil {
		return p.def, nil
	}
	if *rounds < p.min {
		return 0, fmt.Errorf("%w: %s rounds too low (min %d)", ErrInvalidRounds, p.name, p.min)
	}
	if *rounds > p.max {
		return 0, fmt.Errorf("%w: %s rounds too high (max %d)", ErrInvalidRounds, p.name, p.max)
	}
	return *rounds, nil
}

func randomSalt(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	for i, b := range buf {
		buf[i] = saltChars[int(b)&63]
	}
	return string(buf), nil
}
