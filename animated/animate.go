package animated

import (
	"errors"
	"math"
)

// ErrIncompatible reports that two values cannot be combined under a
// procedure: they are different variants, a variant marked as an error, or
// a field required to be equal differs.
var ErrIncompatible = errors.New("animated: values cannot be animated")

// Animator is implemented by every type that can be combined with another
// value of the same type.
type Animator[T any] interface {
	Animate(other T, procedure Procedure) (T, error)
}

// Animate calls this.Animate(other, procedure).
func Animate[T Animator[T]](this, other T, procedure Procedure) (T, error) {
	return this.Animate(other, procedure)
}

// Float combines two floating point values.
func Float[T ~float32 | ~float64](this, other T, procedure Procedure) (T, error) {
	tw, ow := procedure.Weights()

	return T(float64(this)*tw + float64(other)*ow), nil
}

// Integer combines two integers through float64, rounding half up.
func Integer[T ~int | ~int8 | ~int16 | ~int32 | ~int64 |
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](this, other T, procedure Procedure) (T, error) {
	tw, ow := procedure.Weights()

	return T(math.Floor(float64(this)*tw + float64(other)*ow + 0.5)), nil
}
