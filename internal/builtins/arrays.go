package builtins

import (
	"basic/internal/arrays"
	"basic/internal/rterr"
)

// LBound/UBound implement §4.5's LBOUND(a[,dim])/UBOUND(a[,dim]): dim
// defaults to 1 and is 1-based.
func LBound(a *arrays.Array, dim int) (int, error) {
	if a == nil {
		return 0, rterr.New(rterr.TypeMismatch, "LBOUND requires an array")
	}
	return a.LBound(dim)
}

func UBound(a *arrays.Array, dim int) (int, error) {
	if a == nil {
		return 0, rterr.New(rterr.TypeMismatch, "UBOUND requires an array")
	}
	return a.UBound(dim)
}
