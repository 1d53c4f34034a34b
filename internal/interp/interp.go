// Package interp implements the fetch-decode-execute loop over a
// bytecode.Program (§4.4): the register-stack core, the value/var-path
// construction stacks, the call stack, and the ON ERROR dispatch layered
// on top of internal/context's memory-block stack.
//
// Grounded structurally on the teacher's EnhancedVM.Run in
// internal/vm/vm.go: a preallocated program counter walking a flat
// instruction array inside a `for pc < len(instructions)` loop, a runaway
// guard on total instructions executed, and a TryFrame-shaped error
// context pushed/popped around ON ERROR handling.
package interp

import (
	"basic/internal/arrays"
	"basic/internal/bytecode"
	"basic/internal/context"
	"basic/internal/printer"
	"basic/internal/rterr"
	"basic/internal/rtypes"
	"basic/internal/store"
	"basic/internal/variables"
	"basic/internal/variant"
)

// maxInstructions bounds a runaway program the way teacher's VM.Run caps
// instrCount at 100000000 before aborting with a recognizable error
// instead of hanging the host process forever.
const maxInstructions = 100_000_000

// Interpreter executes one Program to completion against a Host.
type Interpreter struct {
	prog *bytecode.Program
	ctx  *context.Context
	host *Host

	regs          Registers
	registerStack []Registers
	valueStack    []store.Value
	varPathStack  []variables.Path
	callStack     []int
	returnQueue   []store.Value

	functionResult store.Value
	hasResult      bool

	handler     activeHandler
	lastErr     *rterr.RuntimeError
	lastErrAddr int
	finder      NearestStatementFinder

	dataCursor int
	defSeg     int
}

// New builds an Interpreter ready to Run prog against host.
func New(prog *bytecode.Program, host *Host) *Interpreter {
	return &Interpreter{
		prog:   prog,
		ctx:    context.New(host.Types),
		host:   host,
		finder: NewNearestStatementFinder(prog.StatementAddresses),
		defSeg: context.VarSegBase,
	}
}

// Run executes the program from instruction 0 until OpHalt or the end of
// the instruction stream, dispatching any error through the active ON
// ERROR handler (§4.4, §7).
func (ip *Interpreter) Run() error {
	pc := 0
	count := 0
	for pc < ip.prog.Len() {
		count++
		if count > maxInstructions {
			return rterr.New(rterr.Other, "program exceeded %d instructions without halting", maxInstructions)
		}
		instr := ip.prog.Instructions[pc]
		if instr.Op == bytecode.OpHalt {
			return nil
		}
		jumped, err := ip.execute(instr, &pc)
		if err != nil {
			handled, err2 := ip.dispatchError(err, pc, &pc)
			if err2 != nil {
				return err2
			}
			if !handled {
				re, ok := err.(*rterr.RuntimeError)
				if !ok {
					return err
				}
				return re.WithPosition(rterr.Position{InstrAddr: pc})
			}
			continue
		}
		if !jumped {
			pc++
		}
	}
	return nil
}

// dispatchError applies the currently active ON ERROR mode to a failing
// instruction at faultAddr (§4.4 "Error dispatch", §7). handled reports
// whether execution should continue at *pc; when false, the caller
// propagates err to its own caller (an uncaught runtime error halts the
// program, matching QBasic's behavior with no active handler).
func (ip *Interpreter) dispatchError(err error, faultAddr int, pc *int) (bool, error) {
	if ip.handler.mode == handlerNone {
		return false, nil
	}
	re, ok := err.(*rterr.RuntimeError)
	if !ok {
		re = rterr.Wrap(err, rterr.Other, "%v", err)
	}
	ip.lastErr = re
	ip.lastErrAddr = faultAddr
	ip.ctx.PushErrorHandlerContext()
	switch ip.handler.mode {
	case handlerAddress:
		*pc = ip.handler.addr
	case handlerResumeNext:
		*pc = ip.finder.FindNext(faultAddr, ip.prog.Len())
	}
	return true, nil
}

func asScalar(v store.Value) (variant.Variant, error) {
	if !v.IsScalar() {
		return variant.Variant{}, rterr.New(rterr.TypeMismatch, "expected a scalar value, got %s", v.Kind())
	}
	return v.AsScalar(), nil
}

func boolVariant(b bool) variant.Variant {
	if b {
		return variant.Int(-1)
	}
	return variant.Int(0)
}

// popScalars pops n values off the value stack (pushed low-index-first),
// restoring source order — the shared tail of OpVarPathIndex and
// OpAllocateArrayIntoA, both of which push one scalar per dimension in
// declaration order and need them back in that same order.
func (ip *Interpreter) popScalars(n int) ([]variant.Variant, error) {
	if len(ip.valueStack) < n {
		return nil, rterr.New(rterr.Other, "value stack underflow")
	}
	start := len(ip.valueStack) - n
	chunk := ip.valueStack[start:]
	ip.valueStack = ip.valueStack[:start]
	out := make([]variant.Variant, n)
	for i, v := range chunk {
		sv, err := asScalar(v)
		if err != nil {
			return nil, err
		}
		out[i] = sv
	}
	return out, nil
}

func (ip *Interpreter) peekVarPath() (variables.Path, error) {
	if len(ip.varPathStack) == 0 {
		return variables.Path{}, rterr.New(rterr.Other, "var-path stack is empty")
	}
	return ip.varPathStack[len(ip.varPathStack)-1], nil
}

func (ip *Interpreter) popVarPath() (variables.Path, error) {
	p, err := ip.peekVarPath()
	if err != nil {
		return p, err
	}
	ip.varPathStack = ip.varPathStack[:len(ip.varPathStack)-1]
	return p, nil
}

// execute runs one instruction, advancing *pc itself only when it jumps;
// the caller increments pc for every non-jumping opcode.
func (ip *Interpreter) execute(instr bytecode.Instruction, pc *int) (jumped bool, err error) {
	switch instr.Op {

	// --- Jump family ---
	case bytecode.OpJump:
		*pc = instr.Addr
		return true, nil
	case bytecode.OpJumpIfFalse:
		s, err := asScalar(ip.regs.A)
		if err != nil {
			return false, err
		}
		b, err := s.Bool()
		if err != nil {
			return false, err
		}
		if !b {
			*pc = instr.Addr
			return true, nil
		}
		return false, nil
	case bytecode.OpGoSub:
		ip.callStack = append(ip.callStack, *pc+1)
		*pc = instr.Addr
		return true, nil
	case bytecode.OpReturn:
		if len(ip.callStack) == 0 {
			return false, rterr.New(rterr.ReturnWithoutGoSub, "RETURN without GOSUB")
		}
		n := len(ip.callStack) - 1
		*pc = ip.callStack[n]
		ip.callStack = ip.callStack[:n]
		return true, nil
	case bytecode.OpPushRet:
		ip.callStack = append(ip.callStack, instr.Addr)
		return false, nil
	case bytecode.OpPopRet:
		if len(ip.callStack) == 0 {
			return false, rterr.New(rterr.Other, "return-address stack is empty")
		}
		n := len(ip.callStack) - 1
		*pc = ip.callStack[n]
		ip.callStack = ip.callStack[:n]
		return true, nil

	// --- Register family ---
	case bytecode.OpLoadIntoA:
		ip.regs.A = store.Scalar(instr.Literal)
		return false, nil
	case bytecode.OpCopyAToB:
		ip.regs.B = ip.regs.A
		return false, nil
	case bytecode.OpCopyAToC:
		ip.regs.C = ip.regs.A
		return false, nil
	case bytecode.OpCopyAToD:
		ip.regs.D = ip.regs.A
		return false, nil
	case bytecode.OpCopyCToB:
		ip.regs.B = ip.regs.C
		return false, nil
	case bytecode.OpCopyDToA:
		ip.regs.A = ip.regs.D
		return false, nil
	case bytecode.OpCopyDToB:
		ip.regs.B = ip.regs.D
		return false, nil
	case bytecode.OpPushRegisters:
		ip.registerStack = append(ip.registerStack, ip.regs)
		return false, nil
	case bytecode.OpPopRegisters:
		if len(ip.registerStack) == 0 {
			return false, rterr.New(rterr.Other, "register stack is empty")
		}
		n := len(ip.registerStack) - 1
		ip.regs = ip.registerStack[n]
		ip.registerStack = ip.registerStack[:n]
		return false, nil
	case bytecode.OpPushAToValueStack:
		ip.valueStack = append(ip.valueStack, ip.regs.A)
		return false, nil
	case bytecode.OpPopValueStackIntoA:
		if len(ip.valueStack) == 0 {
			return false, rterr.New(rterr.Other, "value stack is empty")
		}
		n := len(ip.valueStack) - 1
		ip.regs.A = ip.valueStack[n]
		ip.valueStack = ip.valueStack[:n]
		return false, nil

	// --- Arithmetic / logical / compare ---
	case bytecode.OpAdd:
		return false, ip.binArith(variant.Variant.Plus)
	case bytecode.OpSub:
		return false, ip.binArith(variant.Variant.Minus)
	case bytecode.OpMul:
		return false, ip.binArith(variant.Variant.Multiply)
	case bytecode.OpDiv:
		return false, ip.binArith(variant.Variant.Divide)
	case bytecode.OpMod:
		return false, ip.binArith(variant.Variant.Modulo)
	case bytecode.OpAnd:
		return false, ip.binArith(variant.Variant.And)
	case bytecode.OpOr:
		return false, ip.binArith(variant.Variant.Or)
	case bytecode.OpNegate:
		return false, ip.unaryArith(func(a variant.Variant) (variant.Variant, error) { return a.Negate() })
	case bytecode.OpNot:
		return false, ip.unaryArith(func(a variant.Variant) (variant.Variant, error) { return a.UnaryNot() })
	case bytecode.OpEqual:
		return false, ip.compare(func(c int) bool { return c == 0 })
	case bytecode.OpNotEqual:
		return false, ip.compare(func(c int) bool { return c != 0 })
	case bytecode.OpLess:
		return false, ip.compare(func(c int) bool { return c < 0 })
	case bytecode.OpLessEqual:
		return false, ip.compare(func(c int) bool { return c <= 0 })
	case bytecode.OpGreater:
		return false, ip.compare(func(c int) bool { return c > 0 })
	case bytecode.OpGreaterEqual:
		return false, ip.compare(func(c int) bool { return c >= 0 })

	// --- Scope management ---
	case bytecode.OpBeginCollectArguments:
		ip.ctx.BeginCollectingArguments()
		return false, nil
	case bytecode.OpPushStack:
		return false, ip.ctx.StopCollectingArguments()
	case bytecode.OpPushStaticStack:
		return false, ip.ctx.StopCollectingArgumentsStatic(instr.Name)
	case bytecode.OpPopStack:
		return false, ip.ctx.Pop()
	case bytecode.OpStashFunctionReturnValue:
		ip.functionResult = ip.regs.A
		ip.hasResult = true
		return false, nil
	case bytecode.OpUnStashFunctionReturnValue:
		if !ip.hasResult {
			return false, rterr.New(rterr.Other, "no stashed function result")
		}
		ip.regs.A = ip.functionResult
		ip.hasResult = false
		return false, nil
	case bytecode.OpEnqueueToReturnStack:
		ip.returnQueue = append(ip.returnQueue, ip.regs.A)
		return false, nil
	case bytecode.OpDequeueFromReturnStack:
		if len(ip.returnQueue) == 0 {
			return false, rterr.New(rterr.Other, "return-value queue is empty")
		}
		ip.regs.A = ip.returnQueue[0]
		ip.returnQueue = ip.returnQueue[1:]
		return false, nil
	case bytecode.OpPushUnnamedByVal:
		args, err := ip.ctx.CurrentArguments()
		if err != nil {
			return false, err
		}
		args.PushUnnamedByVal(ip.regs.A)
		return false, nil
	case bytecode.OpPushUnnamedByRef:
		path, err := ip.popVarPath()
		if err != nil {
			return false, err
		}
		val, err := ip.ctx.ReadPath(path)
		if err != nil {
			return false, err
		}
		args, err := ip.ctx.CurrentArguments()
		if err != nil {
			return false, err
		}
		args.PushUnnamedByRef(val, path)
		return false, nil
	case bytecode.OpPushNamed:
		args, err := ip.ctx.CurrentArguments()
		if err != nil {
			return false, err
		}
		args.PushNamed(instr.Param.Name, ip.regs.A)
		return false, nil

	// --- Allocation ---
	case bytecode.OpAllocateBuiltIn:
		z, err := variant.Zero(instr.Qual)
		if err != nil {
			return false, rterr.New(rterr.Other, "%v", err)
		}
		ip.regs.A = store.Scalar(z)
		return false, nil
	case bytecode.OpAllocateFixedLengthString:
		ip.regs.A = store.Scalar(variant.FixedStr("", instr.Addr))
		return false, nil
	case bytecode.OpAllocateArrayIntoA:
		return false, ip.allocateArray(instr)
	case bytecode.OpAllocateUserDefined:
		layout, ok := ip.host.Types.Lookup(instr.Name)
		if !ok {
			return false, rterr.New(rterr.ElementNotDefined, "undefined type %q", instr.Name)
		}
		rec, err := rtypes.NewRecord(ip.host.Types, &layout)
		if err != nil {
			return false, err
		}
		ip.regs.A = store.FromRecord(rec)
		return false, nil

	// --- Path construction ---
	case bytecode.OpVarPathName:
		ip.varPathStack = append(ip.varPathStack, variables.Root(instr.Name, instr.Addr != 0))
		return false, nil
	case bytecode.OpVarPathIndex:
		parent, err := ip.popVarPath()
		if err != nil {
			return false, err
		}
		indices, err := ip.popScalars(instr.Addr)
		if err != nil {
			return false, err
		}
		ip.varPathStack = append(ip.varPathStack, variables.ArrayElement(parent, indices))
		return false, nil
	case bytecode.OpVarPathProperty:
		parent, err := ip.popVarPath()
		if err != nil {
			return false, err
		}
		ip.varPathStack = append(ip.varPathStack, variables.Property(parent, instr.Name))
		return false, nil
	case bytecode.OpCopyAToVarPath:
		path, err := ip.peekVarPath()
		if err != nil {
			return false, err
		}
		return false, ip.ctx.WritePath(path, ip.regs.A)
	case bytecode.OpCopyVarPathToA:
		path, err := ip.peekVarPath()
		if err != nil {
			return false, err
		}
		v, err := ip.ctx.ReadPath(path)
		if err != nil {
			return false, err
		}
		ip.regs.A = v
		return false, nil
	case bytecode.OpPopVarPath:
		_, err := ip.popVarPath()
		return false, err

	// --- Error handling ---
	case bytecode.OpOnErrorGoTo:
		ip.handler = activeHandler{mode: handlerAddress, addr: instr.Addr}
		return false, nil
	case bytecode.OpOnErrorResumeNext:
		ip.handler = activeHandler{mode: handlerResumeNext}
		return false, nil
	case bytecode.OpOnErrorGoToZero:
		ip.handler = activeHandler{mode: handlerNone}
		return false, nil
	case bytecode.OpResume:
		if ip.lastErr == nil {
			return false, rterr.New(rterr.ResumeWithoutError, "RESUME without error")
		}
		if err := ip.ctx.Pop(); err != nil {
			return false, err
		}
		*pc = ip.finder.FindCurrent(ip.lastErrAddr)
		ip.lastErr = nil
		return true, nil
	case bytecode.OpResumeNext:
		if ip.lastErr == nil {
			return false, rterr.New(rterr.ResumeWithoutError, "RESUME NEXT without error")
		}
		if err := ip.ctx.Pop(); err != nil {
			return false, err
		}
		*pc = ip.finder.FindNext(ip.lastErrAddr, ip.prog.Len())
		ip.lastErr = nil
		return true, nil
	case bytecode.OpResumeLabel:
		if ip.lastErr == nil {
			return false, rterr.New(rterr.ResumeWithoutError, "RESUME without error")
		}
		if err := ip.ctx.Pop(); err != nil {
			return false, err
		}
		*pc = instr.Addr
		ip.lastErr = nil
		return true, nil

	// --- Built-in dispatch ---
	case bytecode.OpBuiltInSub, bytecode.OpBuiltInFunction:
		return false, ip.dispatchBuiltIn(instr)

	default:
		return false, rterr.New(rterr.Other, "unimplemented opcode %s", instr.Op)
	}
}

func (ip *Interpreter) binArith(f func(a, b variant.Variant) (variant.Variant, error)) error {
	a, err := asScalar(ip.regs.A)
	if err != nil {
		return err
	}
	b, err := asScalar(ip.regs.B)
	if err != nil {
		return err
	}
	r, err := f(a, b)
	if err != nil {
		return err
	}
	ip.regs.A = store.Scalar(r)
	return nil
}

func (ip *Interpreter) unaryArith(f func(a variant.Variant) (variant.Variant, error)) error {
	a, err := asScalar(ip.regs.A)
	if err != nil {
		return err
	}
	r, err := f(a)
	if err != nil {
		return err
	}
	ip.regs.A = store.Scalar(r)
	return nil
}

func (ip *Interpreter) compare(pred func(c int) bool) error {
	a, err := asScalar(ip.regs.A)
	if err != nil {
		return err
	}
	b, err := asScalar(ip.regs.B)
	if err != nil {
		return err
	}
	c, err := a.TryCmp(b)
	if err != nil {
		return err
	}
	ip.regs.A = store.Scalar(boolVariant(pred(c)))
	return nil
}

func (ip *Interpreter) allocateArray(instr bytecode.Instruction) error {
	bounds, err := ip.popScalars(instr.Addr * 2)
	if err != nil {
		return err
	}
	dims := make([]arrays.Dim, instr.Addr)
	for i := range dims {
		lo, err := bounds[2*i].Cast(variant.QualLong)
		if err != nil {
			return err
		}
		hi, err := bounds[2*i+1].Cast(variant.QualLong)
		if err != nil {
			return err
		}
		dims[i] = arrays.Dim{Lower: int(lo.LongVal()), Upper: int(hi.LongVal())}
	}
	zero, err := variant.Zero(instr.Qual)
	if err != nil {
		return rterr.New(rterr.TypeMismatch, "cannot build an array of this element type: %v", err)
	}
	arr, err := arrays.New(dims, zero, instr.Qual)
	if err != nil {
		return err
	}
	ip.regs.A = store.FromArray(arr)
	return nil
}

// printerFormat renders a value the way PRINT would, delegating to the
// package every numeric/string PRINT default-format rule already lives in.
func printerFormat(v variant.Variant) string { return printer.FormatDefault(v) }
