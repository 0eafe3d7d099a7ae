package passwd

// h64Encode is the little-endian hash64 encoding used by crypt(3) variants.
// Every 3 bytes become 4 characters, a trailing 1 or 2 bytes become 2 or 3.
func h64Encode(src []byte) string {
	out := make([]byte, 0, (len(src)*4+2)/3)
	for i := 0; i < len(src); i += 3 {
		var v uint32
		n := len(src) - i
		if n > 3 {
			n = 3
		}
		for j := 0; j < n; j++ {
			v |= uint32(src[i+j]) << (8 * j)
		}
		for j := 0; j <= n; j++ {
			out = append(out, saltChars[v&63])
			v >>= 6
		}
	}
	return string(out)
}

// h64EncodeTransposed encodes src reordered by offsets
func h64EncodeTransposed(src []byte, offsets []int) string {
	buf := make([]byte, len(offsets))
	for i, off := range offsets {
		buf[i] = src[off]
	}
	return h64Encode(buf)
}
