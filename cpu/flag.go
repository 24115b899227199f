package cpu

// Flag is a status register (SREG) bit position.
type Flag int

//go:generate go tool stringer -linecomment -type=Flag
const (
	FLAG_C = Flag(0) // C
	FLAG_Z = Flag(1) // Z
	FLAG_N = Flag(2) // N
	FLAG_V = Flag(3) // V
	FLAG_S = Flag(4) // S
	FLAG_H = Flag(5) // H
	FLAG_T = Flag(6) // T
	FLAG_I = Flag(7) // I
)

// Mask returns the SREG bit mask of the flag.
func (fl Flag) Mask() uint8 {
	return 1 << uint(fl)
}

// SregString renders an SREG value as ITHSVNZC, with '-' for clear flags.
func SregString(sreg uint8) string {
	text := []byte("--------")
	for fl := FLAG_I; fl >= FLAG_C; fl-- {
		if sreg&fl.Mask() != 0 {
			text[FLAG_I-fl] = fl.String()[0]
		}
	}
	return string(text)
}
