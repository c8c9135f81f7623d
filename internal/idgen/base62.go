package idgen

const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Encode renders a non-negative number in base62; negative input encodes as "0".
func Encode(num int64) string {
	if num <= 0 {
		return "0"
	}

	// 11 digits cover math.MaxInt64.
	var buf [11]byte
	i := len(buf)
	for num > 0 {
		i--
		buf[i] = base62Chars[num%62]
		num /= 62
	}
	return string(buf[i:])
}
