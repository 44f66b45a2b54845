package tone

import "fmt"

// Symbol is one of the 16 DTMF keypad symbols.
type Symbol rune

// Keypad symbols, laid out row by row as on a 4x4 telephone keypad.
const (
	Tone1        Symbol = '1'
	Tone2        Symbol = '2'
	Tone3        Symbol = '3'
	ToneA        Symbol = 'A'
	Tone4        Symbol = '4'
	Tone5        Symbol = '5'
	Tone6        Symbol = '6'
	ToneB        Symbol = 'B'
	Tone7        Symbol = '7'
	Tone8        Symbol = '8'
	Tone9        Symbol = '9'
	ToneC        Symbol = 'C'
	ToneAsterisk Symbol = '*'
	Tone0        Symbol = '0'
	TonePound    Symbol = '#'
	ToneD        Symbol = 'D'
)

// LowGroup and HighGroup hold the DTMF frequency components in Hz.
var (
	LowGroup  = [4]float64{697, 770, 852, 941}
	HighGroup = [4]float64{1209, 1336, 1477, 1633}
)

var keypad = [4][4]Symbol{
	{Tone1, Tone2, Tone3, ToneA},
	{Tone4, Tone5, Tone6, ToneB},
	{Tone7, Tone8, Tone9, ToneC},
	{ToneAsterisk, Tone0, TonePound, ToneD},
}

// Pair is the low and high frequency, in Hz, that make up a dual tone.
type Pair struct {
	Low  float64
	High float64
}

// Symbols returns all 16 symbols in keypad order.
func Symbols() []Symbol {
	out := make([]Symbol, 0, 16)
	for _, row := range keypad {
		out = append(out, row[:]...)
	}
	return out
}

// ParseSymbol converts a one-character label into a Symbol.
// Letter tones are accepted in either case.
func ParseSymbol(s string) (Symbol, error) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("dtmf symbol must be a single character, got %q", s)
	}
	sym := Symbol(r[0])
	if sym >= 'a' && sym <= 'd' {
		sym -= 'a' - 'A'
	}
	if !sym.Valid() {
		return 0, fmt.Errorf("unknown dtmf symbol %q", s)
	}
	return sym, nil
}

// Valid reports whether s is one of the 16 keypad symbols.
func (s Symbol) Valid() bool {
	_, _, ok := s.position()
	return ok
}

func (s Symbol) String() string {
	return string(rune(s))
}

// Pair returns the frequency pair of the symbol. The keypad column picks the
// low group component and the keypad row picks the high group component.
// An invalid symbol yields the zero Pair, which synthesizes silence.
//
// Complexity: O(1)
func (s Symbol) Pair() Pair {
	row, col, ok := s.position()
	if !ok {
		return Pair{}
	}
	return Pair{Low: LowGroup[col], High: HighGroup[row]}
}

func (s Symbol) position() (row, col int, ok bool) {
	switch s {
	case Tone1:
		return 0, 0, true
	case Tone2:
		return 0, 1, true
	case Tone3:
		return 0, 2, true
	case ToneA:
		return 0, 3, true
	case Tone4:
		return 1, 0, true
	case Tone5:
		return 1, 1, true
	case Tone6:
		return 1, 2, true
	case ToneB:
		return 1, 3, true
	case Tone7:
		return 2, 0, true
	case Tone8:
		return 2, 1, true
	case Tone9:
		return 2, 2, true
	case ToneC:
		return 2, 3, true
	case ToneAsterisk:
		return 3, 0, true
	case Tone0:
		return 3, 1, true
	case TonePound:
		return 3, 2, true
	case ToneD:
		return 3, 3, true
	}
	return 0, 0, false
}
