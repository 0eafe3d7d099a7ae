package passwd

import (
	"crypto/md5"
	"crypto/subtle"
	"fmt"
	"strconv"
	"strings"
)

// sunMD5Hamlet is mixed into rounds whose coin flip comes up 1. The trailing
// NUL is part of the constant.
const sunMD5Hamlet = "To be, or not to be,--that is the question:--\n" +
	"Whether 'tis nobler in the mind to suffer\n" +
	"The slings and arrows of outrageous fortune\n" +
	"Or to take arms against a sea of troubles,\n" +
	"And by opposing end them?--To die,--to sleep,--\n" +
	"No more; and by a sleep to say we end\n" +
	"The heartache, and the thousand natural shocks\n" +
	"That flesh is heir to,--'tis a consummation\n" +
	"Devoutly to be wish'd. To die,--to sleep;--\n" +
	"To sleep! perchance to dream:--ay, there's the rub;\n" +
	"For in that sleep of death what dreams may come,\n" +
	"When we have shuffled off this mortal coil,\n" +
	"Must give us pause: there's the respect\n" +
	"That makes calamity of so long life;\n" +
	"For who would bear the whips and scorns of time,\n" +
	"The oppressor's wrong, the proud man's contumely,\n" +
	"The pangs of despis'd love, the law's delay,\n" +
	"The insolence of office, and the spurns\n" +
	"That patient merit of the unworthy takes,\n" +
	"When he himself might his quietus make\n" +
	"With a bare bodkin? who would these fardels bear,\n" +
	"To grunt and sweat under a weary life,\n" +
	"But that the dread of something after death,--\n" +
	"The undiscover'd country, from whose bourn\n" +
	"No traveller returns,--puzzles the will,\n" +
	"And makes us rather bear those ills we have\n" +
	"Than fly to others that we know not of?\n" +
	"Thus conscience does make cowards of us all;\n" +
	"And thus the native hue of resolution\n" +
	"Is sicklied o'er with the pale cast of thought;\n" +
	"And enterprises of great pith and moment,\n" +
	"With this regard, their currents turn awry,\n" +
	"And lose the name of action.--Soft you now!\n" +
	"The fair Ophelia!--Nymph, in thy orisons\n" +
	"Be all my sins remember'd.\n\x00"

const sunMD5BaseRounds = 4096

var sunMD5Offsets = []int{12, 6, 0, 13, 7, 1, 14, 8, 2, 15, 9, 3, 5, 10, 4, 11}

// index triples (bit, a, b) selecting the digest bytes that build x and y
type sunMD5Triple struct{ bit, a, b int }

var sunMD5XY = func() (xy [4][8]sunMD5Triple) {
	for i := 0; i < 8; i++ {
		xy[0][i] = sunMD5Triple{i, i, i + 3}
		xy[1][i] = sunMD5Triple{i, i + 1, i + 4}
		xy[2][i] = sunMD5Triple{i, i + 8, (i + 11) & 15}
		xy[3][i] = sunMD5Triple{i, (i + 9) & 15, (i + 12) & 15}
	}
	return xy
}()

type sunMD5Crypter struct {
	salt   saltPolicy
	rounds roundsPolicy
}

// NewSunMD5Crypt returns the Solaris $md5$ hasher. Rounds are added to the
// fixed 4096 base rounds; zero selects the unparameterized $md5$ form.
func NewSunMD5Crypt() Hasher {
	return &sunMD5Crypter{
		salt:   saltPolicy{name: SunMD5Crypt, defaultSize: 8},
		rounds: roundsPolicy{name: SunMD5Crypt, def: 34000, min: 0, max: 1<<32 - 1 - sunMD5BaseRounds},
	}
}

func (h *sunMD5Crypter) Name() string { return SunMD5Crypt }

func (h *sunMD5Crypter) Hash(secret string, opts Options) (string, error) {
	salt, err := h.salt.resolve(opts.Salt)
	if err != nil {
		return "", err
	}
	rounds, err := h.rounds.resolve(opts.Rounds)
	if err != nil {
		return "", err
	}

	config := sunMD5Config(rounds, salt) + "$"
	return config + "$" + sunMD5Checksum([]byte(secret), []byte(config), rounds), nil
}

func (h *sunMD5Crypter) Verify(secret, hash string) (bool, error) {
	config, rounds, checksum, err := parseSunMD5(hash)
	if err != nil {
		return false, err
	}
	want := sunMD5Checksum([]byte(secret), []byte(config), rounds)
	return subtle.ConstantTimeCompare([]byte(want), []byte(checksum)) == 1, nil
}

func sunMD5Config(rounds int, salt string) string {
	if rounds > 0 {
		return fmt.Sprintf("$md5,rounds=%d$%s", rounds, salt)
	}
	return "$md5$" + salt
}

// parseSunMD5 splits a hash into the config string fed to the digest, the
// extra rounds and the checksum. Both "$salt$$chk" and the bare "$salt$chk"
// forms are accepted.
func parseSunMD5(hash string) (config string, rounds int, checksum string, err error) {
	malformed := fmt.Errorf("%w: not a %s hash", ErrMalformedHash, SunMD5Crypt)

	rest, ok := strings.CutPrefix(hash, "$md5")
	if !ok {
		return "", 0, "", malformed
	}
	switch {
	case strings.HasPrefix(rest, ",rounds="):
		rest = rest[len(",rounds="):]
		end := strings.IndexByte(rest, '$')
		if end < 0 {
			return "", 0, "", malformed
		}
		if rounds, err = strconv.Atoi(rest[:end]); err != nil || rounds < 0 {
			return "", 0, "", malformed
		}
		rest = rest[end:]
	case strings.HasPrefix(rest, "$"):
	default:
		return "", 0, "", malformed
	}

	// rest is "$salt$$chk" or "$salt$chk"
	end := strings.IndexByte(rest[1:], '$')
	if end < 0 {
		return "", 0, "", malformed
	}
	saltEnd := 1 + end
	prefix := hash[:len(hash)-len(rest)+saltEnd]
	tail := rest[saltEnd+1:]
	if c, ok := strings.CutPrefix(tail, "$"); ok {
		return prefix + "$", rounds, c, nil
	}
	return prefix, rounds, tail, nil
}

func sunMD5Checksum(secret, config []byte, rounds int) string {
	seed := md5.New()
	seed.Write(secret)
	seed.Write(config)
	var result [md5.Size]byte
	seed.Sum(result[:0])

	bit := func(n int) int {
		return int(result[(n>>3)&15]>>(uint(n)&7)) & 1
	}
	build := func(triples *[8]sunMD5Triple) int {
		v := 0
		for _, t := range triples {
			a := int(result[t.a])
			b := int(result[t.b])
			w := int(result[(a>>(b%5))&15]) >> ((b >> (a & 7)) & 1)
			v |= bit(w) << t.bit
		}
		return v
	}

	total := sunMD5BaseRounds + rounds
	h := md5.New()
	for round := 0; round < total; round++ {
		xr := &sunMD5XY[0]
		if bit(round) == 1 {
			xr = &sunMD5XY[1]
		}
		x := build(xr)

		yr := &sunMD5XY[2]
		if bit(round+64) == 1 {
			yr = &sunMD5XY[3]
		}
		y := build(yr)

		coin := bit(x) ^ bit(y)

		h.Reset()
		h.Write(result[:])
		if coin == 1 {
			h.Write([]byte(sunMD5Hamlet))
		}
		h.Write([]byte(strconv.Itoa(round)))
		h.Sum(result[:0])
	}

	return h64EncodeTransposed(result[:], sunMD5Offsets)
}
