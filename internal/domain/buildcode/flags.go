package buildcode

import (
	"fmt"
	"strings"

	lzstring "github.com/daku10/go-lz-string"

	"github.com/andrescamacho/outfitting-go/internal/domain/shared"
)

// The base64 alphabet used by LZ-String contains "/", which is not safe inside a URL
// path segment. It is swapped for "-" on the way out and back on the way in.
const (
	unsafeChar = "/"
	safeChar   = "-"
)

// EncodeEnabled compresses the enabled flags. A nil slice or one where every slot is
// enabled encodes to the empty segment.
func EncodeEnabled(enabled []bool) (string, error) {
	allDefault := true
	digits := make([]byte, len(enabled))
	for i, e := range enabled {
		if e {
			digits[i] = '1'
		} else {
			digits[i] = '0'
			allDefault = false
		}
	}
	if allDefault {
		return "", nil
	}
	return compressDigits(string(digits))
}

// EncodePriorities compresses the priority bands. A nil slice or one where every slot
// sits in band 0 encodes to the empty segment.
func EncodePriorities(priorities []int) (string, error) {
	allDefault := true
	digits := make([]byte, len(priorities))
	for i, p := range priorities {
		if p < 0 || p > 9 {
			return "", fmt.Errorf("priority %d cannot be encoded as a single digit", p)
		}
		digits[i] = byte('0' + p)
		if p != 0 {
			allDefault = false
		}
	}
	if allDefault {
		return "", nil
	}
	return compressDigits(string(digits))
}

func compressDigits(digits string) (string, error) {
	compressed, err := lzstring.CompressToBase64(digits)
	if err != nil {
		return "", fmt.Errorf("failed to compress flags: %w", err)
	}
	return strings.ReplaceAll(compressed, unsafeChar, safeChar), nil
}

// decodeDigits reverses compressDigits and checks the result holds exactly count
// digits, each below alphabet.
func decodeDigits(segment, encoded string, count, alphabet int) ([]int, error) {
	for i := 0; i < len(encoded); i++ {
		if !base64Char(encoded[i]) {
			return nil, shared.NewInvalidBuildCodeError(segment, i, fmt.Sprintf("unexpected character %q", encoded[i]))
		}
	}

	digits, err := lzstring.DecompressFromBase64(strings.ReplaceAll(encoded, safeChar, unsafeChar))
	if err != nil {
		return nil, shared.NewInvalidBuildCodeError(segment, 0, "segment does not decompress")
	}
	if len(digits) != count {
		return nil, shared.NewInvalidBuildCodeError(segment, 0,
			fmt.Sprintf("expected %d slot flags, got %d", count, len(digits)))
	}

	values := make([]int, count)
	for i := 0; i < count; i++ {
		d := int(digits[i]) - '0'
		if d < 0 || d >= alphabet {
			return nil, shared.NewInvalidBuildCodeError(segment, i,
				fmt.Sprintf("flag %q outside 0..%d", digits[i], alphabet-1))
		}
		values[i] = d
	}
	return values, nil
}

func base64Char(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '+', c == '=', c == safeChar[0]:
		return true
	}
	return false
}
