package permission

// MaxBits is the width of a [Mask].
const MaxBits = 64

// Mask is a 64-bit permission set.
type Mask uint64

// Has reports whether bit is set. When rootBit is non-negative and set, Has
// returns true for every bit.
func (m Mask) Has(bit, rootBit int) bool {
	if bit < 0 || bit >= MaxBits {
		return false
	}
	if rootBit >= 0 && m&(1<<rootBit) != 0 {
		return true
	}
	return m&(1<<bit) != 0
}

// Set returns m with bit set.
func (m Mask) Set(bit int) Mask {
	if bit < 0 || bit >= MaxBits {
		return m
	}
	return m | 1<<bit
}

// Clear returns m with bit cleared.
func (m Mask) Clear(bit int) Mask {
	if bit < 0 || bit >= MaxBits {
		return m
	}
	return m &^ (1 << bit)
}

// Bits returns the set bit positions in ascending order.
func (m Mask) Bits() []int {
	var out []int
	for bit := 0; bit < MaxBits; bit++ {
		if m&(1<<bit) != 0 {
			out = append(out, bit)
		}
	}
	return out
}
