// Package passwd implements the crypt(3) style password hashes offered by the
// demo API: md5_crypt, bcrypt, sha1_crypt, sun_md5_crypt, sha256_crypt and
// sha512_crypt.
//
// Every Hasher accepts an optional salt and rounds value. Salts use the
// hash64 alphabet ./0-9A-Za-z; out of range values are reported as errors
// wrapping ErrInvalidSalt or ErrInvalidRounds so callers can surface the
// message to clients.
package passwd
