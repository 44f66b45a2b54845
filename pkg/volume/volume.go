package volume

import (
	"errors"
	"fmt"
	"strconv"
)

// MaxCoefficient is half the signed 16-bit ceiling. Two unit sine waves summed
// at full volume stay within int16 range when both peaks coincide.
const MaxCoefficient = 32767.0 / 2.0

// ErrInvalidLevel is returned for a level outside [0.0, 1.0].
var ErrInvalidLevel = errors.New("volume level must be between 0.0 and 1.0")

// LevelError reports the rejected level.
type LevelError struct {
	Level float32
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("%v, got %v", ErrInvalidLevel, e.Level)
}

func (e *LevelError) Unwrap() error {
	return ErrInvalidLevel
}

// Volume is a normalized level in [0.0, 1.0] together with the amplitude
// coefficient derived from it. The zero value is silence.
type Volume struct {
	level       float32
	coefficient float64
}

// New returns a Volume for level, or a *LevelError if level is outside
// [0.0, 1.0] or NaN.
func New(level float32) (Volume, error) {
	var v Volume
	if err := v.SetLevel(level); err != nil {
		return Volume{}, err
	}
	return v, nil
}

// MustNew is like New but panics on an invalid level.
func MustNew(level float32) Volume {
	v, err := New(level)
	if err != nil {
		panic(err)
	}
	return v
}

// Level returns the normalized level.
func (v Volume) Level() float32 {
	return v.level
}

// Coefficient returns the multiplier applied to a dual tone wave sum.
func (v Volume) Coefficient() float64 {
	return v.coefficient
}

// SetLevel updates the level and its coefficient together. An invalid level
// leaves v unchanged.
func (v *Volume) SetLevel(level float32) error {
	if !(level >= 0.0 && level <= 1.0) {
		return &LevelError{Level: level}
	}
	v.level = level
	v.coefficient = coefficient(level)
	return nil
}

func (v Volume) String() string {
	return strconv.FormatFloat(float64(v.level), 'g', -1, 32)
}

func coefficient(level float32) float64 {
	return MaxCoefficient * float64(level)
}
