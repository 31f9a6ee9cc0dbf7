package txscript

import "fmt"

// maxScriptNumLen is the maximum number of bytes data being interpreted
// as an integer may be.
const maxScriptNumLen = 4

// scriptNum represents a numeric value used in script execution, encoded
// as a minimally-sized, sign-magnitude, little-endian byte string.
type scriptNum int64

// makeScriptNum interprets b as a script number: little-endian,
// sign-magnitude, minimally encoded.
func makeScriptNum(b []byte, requireMinimal bool, scriptNumLen int) (scriptNum, error) {
	if len(b) > scriptNumLen {
		return 0, scriptError(ErrInvalidStackOperation, fmt.Sprintf("numeric value encoded as %d bytes, max %d", len(b), scriptNumLen))
	}
	if requireMinimal && len(b) > 0 {
		if b[len(b)-1]&0x7f == 0 {
			if len(b) == 1 || b[len(b)-2]&0x80 == 0 {
				return 0, scriptError(ErrInvalidStackOperation, "numeric value is not minimally encoded")
			}
		}
	}
	if len(b) == 0 {
		return 0, nil
	}

	var result int64
	for i, val := range b {
		result |= int64(val) << uint8(8*i)
	}

	if b[len(b)-1]&0x80 != 0 {
		result &= ^(int64(0x80) << uint8(8*(len(b)-1)))
		return scriptNum(-result), nil
	}
	return scriptNum(result), nil
}

// Bytes returns the minimally encoded byte representation of n.
func (n scriptNum) Bytes() []byte {
	if n == 0 {
		return nil
	}

	isNegative := n < 0
	absValue := n
	if isNegative {
		absValue = -n
	}

	var result []byte
	for absValue > 0 {
		result = append(result, byte(absValue&0xff))
		absValue >>= 8
	}

	if result[len(result)-1]&0x80 != 0 {
		extraByte := byte(0x00)
		if isNegative {
			extraByte = 0x80
		}
		result = append(result, extraByte)
	} else if isNegative {
		result[len(result)-1] |= 0x80
	}

	return result
}

// Int32 returns n clamped to the int32 range.
func (n scriptNum) Int32() int32 {
	if n > 2147483647 {
		return 2147483647
	}
	if n < -2147483648 {
		return -2147483648
	}
	return int32(n)
}
