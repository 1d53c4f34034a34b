package builtins

import (
	"basic/internal/context"
	"basic/internal/ifaces"
	"basic/internal/rterr"
	"basic/internal/variables"
)

// indicatorKeysSeg/Addr is the magic PEEK(1047) in segment 0 mapping to
// the terminal's indicator-keys register (§6.4).
const (
	indicatorKeysSeg  = 0
	indicatorKeysAddr = 1047
)

// Peek implements PEEK(addr) against the current DEF SEG, special-casing
// the magic indicator-keys address (§4.5, §6.4).
func Peek(ctx *context.Context, screen ifaces.Screen, seg, addr int) (byte, error) {
	if seg == indicatorKeysSeg && addr == indicatorKeysAddr {
		return screen.IndicatorKeysRegister(), nil
	}
	return ctx.Peek(seg, addr)
}

// Poke implements POKE addr, value against the current DEF SEG.
func Poke(ctx *context.Context, seg, addr int, b byte) error {
	return ctx.Poke(seg, addr, b)
}

// VarPtr/VarSeg implement VARPTR(path)/VARSEG(path).
func VarPtr(ctx *context.Context, path variables.Path) (int, error) {
	return ctx.CalculateVarPtr(path)
}

func VarSeg(ctx *context.Context, path variables.Path) (int, error) {
	return ctx.CalculateVarSeg(path)
}

// ResolveDefSeg implements DEF SEG [=seg]: seg must be in 0...65535; no
// argument resets to the default (VAR_SEG_BASE) (§4.5).
func ResolveDefSeg(seg int, hasArg bool) (int, error) {
	if !hasArg {
		return context.VarSegBase, nil
	}
	if seg < 0 || seg > 65535 {
		return 0, rterr.New(rterr.IllegalFunctionCall, "DEF SEG value %d out of range", seg)
	}
	return seg, nil
}
