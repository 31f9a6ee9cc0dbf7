package txscript

import "fmt"

// stack represents the data stack used during script execution. Each
// element is an arbitrary byte string bounded to MaxScriptElementSize
// bytes (spec §4.C).
type stack struct {
	stk [][]byte
}

// Depth returns the number of items on the stack.
func (s *stack) Depth() int32 {
	return int32(len(s.stk))
}

// PushByteArray pushes the given byte slice onto the stack.
func (s *stack) PushByteArray(so []byte) {
	s.stk = append(s.stk, so)
}

// PushBool pushes bitcoin's bool representation of val onto the stack:
// an empty array is false, a single non-zero byte 0x01 is true.
func (s *stack) PushBool(val bool) {
	if val {
		s.PushByteArray([]byte{1})
	} else {
		s.PushByteArray(nil)
	}
}

// PushInt pushes a minimally-encoded scriptNum.
func (s *stack) PushInt(val scriptNum) {
	s.PushByteArray(val.Bytes())
}

func (s *stack) nthFromTop(n int32) (int32, error) {
	if n < 0 || n >= s.Depth() {
		return 0, scriptError(ErrInvalidStackOperation, fmt.Sprintf("index %d out of range for stack size %d", n, s.Depth()))
	}
	return s.Depth() - n - 1, nil
}

// PopByteArray pops the top item off the stack and returns it.
func (s *stack) PopByteArray() ([]byte, error) {
	idx, err := s.nthFromTop(0)
	if err != nil {
		return nil, err
	}
	item := s.stk[idx]
	s.stk = s.stk[:idx]
	return item, nil
}

// PopBool pops the top item and interprets it as a bitcoin boolean: all
// zero bytes (including the empty array), ignoring a single permissible
// trailing 0x80 sign byte, is false; anything else is true.
func (s *stack) PopBool() (bool, error) {
	so, err := s.PopByteArray()
	if err != nil {
		return false, err
	}
	return asBool(so), nil
}

func asBool(so []byte) bool {
	for i := range so {
		if so[i] != 0 {
			if i == len(so)-1 && so[i] == 0x80 {
				return false
			}
			return true
		}
	}
	return false
}

// PeekByteArray returns the Nth item on the stack without removing it.
func (s *stack) PeekByteArray(n int32) ([]byte, error) {
	idx, err := s.nthFromTop(n)
	if err != nil {
		return nil, err
	}
	return s.stk[idx], nil
}

// DropN removes the top n items from the stack.
func (s *stack) DropN(n int32) error {
	if n < 0 || n > s.Depth() {
		return scriptError(ErrInvalidStackOperation, "DropN n out of range")
	}
	s.stk = s.stk[:s.Depth()-n]
	return nil
}

// DupN duplicates the top n items on the stack, in order.
func (s *stack) DupN(n int32) error {
	if n < 1 {
		return scriptError(ErrInvalidStackOperation, "DupN n must be >= 1")
	}
	for i := n; i > 0; i-- {
		value, err := s.PeekByteArray(n - 1)
		if err != nil {
			return err
		}
		s.PushByteArray(value)
	}
	return nil
}

// RotN rotates the top 3*n items on the stack left by n.
func (s *stack) RotN(n int32) error {
	if n < 1 {
		return scriptError(ErrInvalidStackOperation, "RotN n must be >= 1")
	}
	entry := 3*n - 1
	for i := int32(0); i < n; i++ {
		nth, err := s.nthFromTop(entry)
		if err != nil {
			return err
		}
		atIdx := s.stk[nth]
		s.stk = append(s.stk[:nth], s.stk[nth+1:]...)
		s.PushByteArray(atIdx)
	}
	return nil
}

// SwapN swaps the top n items on the stack with the n items below them.
func (s *stack) SwapN(n int32) error {
	if n < 1 {
		return scriptError(ErrInvalidStackOperation, "SwapN n must be >= 1")
	}
	for i := int32(0); i < n; i++ {
		nth, err := s.nthFromTop(2*n - 1 - i)
		if err != nil {
			return err
		}
		otherIdx, err := s.nthFromTop(n - 1 - i)
		if err != nil {
			return err
		}
		s.stk[nth], s.stk[otherIdx] = s.stk[otherIdx], s.stk[nth]
	}
	return nil
}

// OverN copies the n items n items back to the top of the stack.
func (s *stack) OverN(n int32) error {
	if n < 1 {
		return scriptError(ErrInvalidStackOperation, "OverN n must be >= 1")
	}
	for i := int32(0); i < n; i++ {
		val, err := s.PeekByteArray(2*n - 1)
		if err != nil {
			return err
		}
		s.PushByteArray(val)
	}
	return nil
}

// PickN copies the item n positions back to the top of the stack.
func (s *stack) PickN(n int32) error {
	val, err := s.PeekByteArray(n)
	if err != nil {
		return err
	}
	s.PushByteArray(val)
	return nil
}

// RollN moves the item n positions back to the top of the stack.
func (s *stack) RollN(n int32) error {
	idx, err := s.nthFromTop(n)
	if err != nil {
		return err
	}
	val := s.stk[idx]
	s.stk = append(s.stk[:idx], s.stk[idx+1:]...)
	s.PushByteArray(val)
	return nil
}

// Tuck inserts a copy of the top stack item before the second item.
func (s *stack) Tuck() error {
	idx2, err := s.nthFromTop(1)
	if err != nil {
		return err
	}
	top, err := s.PeekByteArray(0)
	if err != nil {
		return err
	}
	tucked := make([][]byte, 0, len(s.stk)+1)
	tucked = append(tucked, s.stk[:idx2]...)
	tucked = append(tucked, top)
	tucked = append(tucked, s.stk[idx2:]...)
	s.stk = tucked
	return nil
}

// NipN removes the item n positions back without touching the top.
func (s *stack) NipN(n int32) error {
	idx, err := s.nthFromTop(n)
	if err != nil {
		return err
	}
	s.stk = append(s.stk[:idx], s.stk[idx+1:]...)
	return nil
}

// String returns a human-readable rendering of the stack, top first.
func (s *stack) String() string {
	result := ""
	for i := range s.stk {
		result += fmt.Sprintf("%02d: %x\n", i, s.stk[len(s.stk)-i-1])
	}
	return result
}
