package animated

//go:generate go tool stringer -type=ProcedureKind -trimprefix=Procedure -output=procedurekind_string.go

// ProcedureKind selects the algorithm used to combine two values.
type ProcedureKind int

const (
	// ProcedureInterpolate blends this and other by Progress.
	ProcedureInterpolate ProcedureKind = iota
	// ProcedureAdd sums both values.
	ProcedureAdd
	// ProcedureAccumulate adds other to this repeated Count times.
	ProcedureAccumulate
)

// Procedure is threaded unchanged through every nested Animate call.
type Procedure struct {
	Kind     ProcedureKind
	Progress float64 // used by ProcedureInterpolate
	Count    uint64  // used by ProcedureAccumulate
}

// Interpolate returns a procedure blending two values at progress p.
func Interpolate(progress float64) Procedure {
	return Procedure{Kind: ProcedureInterpolate, Progress: progress}
}

// Add returns the additive procedure.
func Add() Procedure {
	return Procedure{Kind: ProcedureAdd}
}

// Accumulate returns the accumulative procedure for the given iteration count.
func Accumulate(count uint64) Procedure {
	return Procedure{Kind: ProcedureAccumulate, Count: count}
}

// Weights returns the factors applied to this and other respectively.
func (p Procedure) Weights() (float64, float64) {
	switch p.Kind {
	case ProcedureAdd:
		return 1, 1
	case ProcedureAccumulate:
		return float64(p.Count), 1
	default:
		return 1 - p.Progress, p.Progress
	}
}
