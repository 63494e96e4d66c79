package cpu

// Flags holds the result of the last CMP instruction.
type Flags uint8

const (
	FLAG_E = Flags(1 << 0) // Equal
	FLAG_G = Flags(1 << 1) // Greater
	FLAG_L = Flags(1 << 2) // Less
)

func (fl Flags) Equal() bool {
	return fl&FLAG_E != 0
}

func (fl Flags) Greater() bool {
	return fl&FLAG_G != 0
}

func (fl Flags) Less() bool {
	return fl&FLAG_L != 0
}

// String returns the flags in L, G, E order, '-' for a clear flag.
func (fl Flags) String() string {
	out := []byte("---")
	if fl.Less() {
		out[0] = 'L'
	}
	if fl.Greater() {
		out[1] = 'G'
	}
	if fl.Equal() {
		out[2] = 'E'
	}
	return string(out)
}
