package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotewebdemo/internal/passwd"
	"remotewebdemo/internal/shared/testutil"
)

func intPtr(v int) *int { return &v }

func newPasswordService(t *testing.T) *PasswordService {
	logger, _ := testutil.NewTestLogger(t)
	return NewPasswordService(passwd.DefaultRegistry(), nil, logger)
}

func TestPasswordService_Algorithms(t *testing.T) {
	s := newPasswordService(t)
	assert.Equal(t, []string{
		"bcrypt", "md5_crypt", "sha1_crypt", "sha256_crypt", "sha512_crypt", "sun_md5_crypt",
	}, s.Algorithms())
}

func TestPasswordService_Select(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
		wantOK     bool
	}{
		{name: "single exact", candidates: []string{"sha512_crypt"}, want: "sha512_crypt", wantOK: true},
		{name: "priority order wins", candidates: []string{"sha256_crypt", "bcrypt"}, want: "bcrypt", wantOK: true},
		{name: "md5 beats everything", candidates: []string{"sun_md5_crypt", "md5_crypt"}, want: "md5_crypt", wantOK: true},
		{name: "case sensitive", candidates: []string{"BCRYPT"}},
		{name: "no substring match", candidates: []string{"xbcrypt"}},
		{name: "prefix is not enough", candidates: []string{"sha256"}},
		{name: "unknown among known", candidates: []string{"foo", "sha1_crypt"}, want: "sha1_crypt", wantOK: true},
		{name: "empty", candidates: nil},
	}

	s := newPasswordService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Select(tt.candidates)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordService_Hash(t *testing.T) {
	tests := []struct {
		name       string
		req        PasswordRequest
		wantErr    error
		wantPrefix string
		verifyWith string
	}{
		{
			name:    "missing cleartext",
			req:     PasswordRequest{Algorithms: []string{"bcrypt"}},
			wantErr: ErrNoCleartext,
		},
		{
			name:    "missing cleartext wins over unknown algorithm",
			req:     PasswordRequest{Algorithms: []string{"nope"}},
			wantErr: ErrNoCleartext,
		},
		{
			name:    "unknown algorithm",
			req:     PasswordRequest{Algorithms: []string{"nope"}, Cleartext: "secret"},
			wantErr: ErrUnknownAlgorithm,
		},
		{
			name:    "invalid rounds",
			req:     PasswordRequest{Algorithms: []string{"sha256_crypt"}, Cleartext: "secret", Rounds: intPtr(10)},
			wantErr: passwd.ErrInvalidRounds,
		},
		{
			name:       "md5 with salt",
			req:        PasswordRequest{Algorithms: []string{"md5_crypt"}, Cleartext: "secret", Salt: "abc"},
			wantPrefix: "$1$abc$",
			verifyWith: "md5_crypt",
		},
		{
			name:       "bcrypt with cost",
			req:        PasswordRequest{Algorithms: []string{"bcrypt"}, Cleartext: "secret", Rounds: intPtr(4)},
			wantPrefix: "$2b$04$",
			verifyWith: "bcrypt",
		},
	}

	s := newPasswordService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := s.Hash(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, hash, tt.wantPrefix)

			h, err := passwd.DefaultRegistry().Get(tt.verifyWith)
			require.NoError(t, err)
			ok, err := h.Verify(tt.req.Cleartext, hash)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestPasswordService_HashFailureIsWrapped(t *testing.T) {
	s := newPasswordService(t)
	_, err := s.Hash(context.Background(), PasswordRequest{
		Algorithms: []string{"md5_crypt"},
		Cleartext:  "secret",
		Salt:       "waytoolongsalt",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHashFailed)
	assert.ErrorIs(t, err, passwd.ErrInvalidSalt)

	var hashErr *HashError
	require.ErrorAs(t, err, &hashErr)
	assert.Equal(t, "md5_crypt", hashErr.Algorithm)
	assert.Equal(t, hashErr.Err.Error(), err.Error())
	assert.NotContains(t, err.Error(), ErrHashFailed.Error())
}

func TestPasswordService_RoundLimits(t *testing.T) {
	s := newPasswordService(t).WithRoundLimits(map[string]int{
		passwd.BCrypt:    5,
		passwd.SHA1Crypt: 100,
	})

	tests := []struct {
		name      string
		algorithm string
		rounds    *int
		wantErr   string
	}{
		{name: "bcrypt at limit", algorithm: passwd.BCrypt, rounds: intPtr(5)},
		{name: "bcrypt over limit", algorithm: passwd.BCrypt, rounds: intPtr(6), wantErr: "invalid rounds: bcrypt rounds exceed limit (max 5)"},
		{name: "sha1 under limit", algorithm: passwd.SHA1Crypt, rounds: intPtr(10)},
		{name: "sha1 over limit", algorithm: passwd.SHA1Crypt, rounds: intPtr(101), wantErr: "invalid rounds: sha1_crypt rounds exceed limit (max 100)"},
		{name: "unlimited algorithm", algorithm: passwd.SunMD5Crypt, rounds: intPtr(200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := s.Hash(context.Background(), PasswordRequest{
				Algorithms: []string{tt.algorithm},
				Cleartext:  "secret",
				Rounds:     tt.rounds,
			})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrHashFailed)
				assert.ErrorIs(t, err, passwd.ErrInvalidRounds)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
		})
	}
}
