// Package bytecode defines the flat instruction array the interpreter
// core executes (§3.8, §6.2) and the opaque opcode taxonomy the compiler
// (an external collaborator, out of scope for this repo) emits into it.
package bytecode

// OpCode enumerates every instruction family from spec.md §4.4/§6.2.
// Grounded on the teacher's flat `OpCode byte` iota block in
// internal/bytecode/opcodes.go, generalized from a stack-VM scripting
// language's opcode set to the register-stack/Path/Context model this
// core requires.
type OpCode byte

const (
	// Jump family
	OpJump OpCode = iota
	OpJumpIfFalse
	OpGoSub
	OpReturn
	OpPushRet
	OpPopRet
	OpHalt

	// Register family
	OpLoadIntoA
	OpCopyAToB
	OpCopyAToC
	OpCopyAToD
	OpCopyCToB
	OpCopyDToA
	OpCopyDToB
	OpPushRegisters
	OpPopRegisters
	OpPushAToValueStack
	OpPopValueStackIntoA

	// Arithmetic / logical / compare (binary: consume A,B write A; unary: A)
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNegate
	OpNot
	OpAnd
	OpOr
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual

	// Scope management
	OpBeginCollectArguments
	OpPushStack
	OpPushStaticStack
	OpPopStack
	OpStashFunctionReturnValue
	OpUnStashFunctionReturnValue
	OpEnqueueToReturnStack
	OpDequeueFromReturnStack
	OpPushUnnamedByVal
	OpPushUnnamedByRef
	OpPushNamed

	// Allocation
	OpAllocateBuiltIn
	OpAllocateFixedLengthString
	OpAllocateArrayIntoA
	OpAllocateUserDefined

	// Path construction
	OpVarPathName
	OpVarPathIndex
	OpVarPathProperty
	OpCopyAToVarPath
	OpCopyVarPathToA
	OpPopVarPath

	// Error handling
	OpOnErrorGoTo
	OpOnErrorResumeNext
	OpOnErrorGoToZero
	OpResume
	OpResumeNext
	OpResumeLabel

	// Built-in dispatch
	OpBuiltInSub
	OpBuiltInFunction

	// opCodeCount is not a real opcode; it bounds the name table String() uses.
	opCodeCount
)

var names = [opCodeCount]string{
	OpJump: "Jump", OpJumpIfFalse: "JumpIfFalse", OpGoSub: "GoSub",
	OpReturn: "Return", OpPushRet: "PushRet", OpPopRet: "PopRet", OpHalt: "Halt",
	OpLoadIntoA: "LoadIntoA", OpCopyAToB: "CopyAToB", OpCopyAToC: "CopyAToC",
	OpCopyAToD: "CopyAToD", OpCopyCToB: "CopyCToB", OpCopyDToA: "CopyDToA",
	OpCopyDToB: "CopyDToB", OpPushRegisters: "PushRegisters",
	OpPopRegisters: "PopRegisters", OpPushAToValueStack: "PushAToValueStack",
	OpPopValueStackIntoA: "PopValueStackIntoA",
	OpAdd:                "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div",
	OpMod: "Mod", OpNegate: "Negate", OpNot: "Not", OpAnd: "And", OpOr: "Or",
	OpEqual: "Equal", OpNotEqual: "NotEqual", OpLess: "Less",
	OpLessEqual: "LessEqual", OpGreater: "Greater", OpGreaterEqual: "GreaterEqual",
	OpBeginCollectArguments:      "BeginCollectArguments",
	OpPushStack:                  "PushStack",
	OpPushStaticStack:            "PushStaticStack",
	OpPopStack:                   "PopStack",
	OpStashFunctionReturnValue:   "StashFunctionReturnValue",
	OpUnStashFunctionReturnValue: "UnStashFunctionReturnValue",
	OpEnqueueToReturnStack:       "EnqueueToReturnStack",
	OpDequeueFromReturnStack:     "DequeueFromReturnStack",
	OpPushUnnamedByVal:           "PushUnnamedByVal",
	OpPushUnnamedByRef:           "PushUnnamedByRef",
	OpPushNamed:                  "PushNamed",
	OpAllocateBuiltIn:            "AllocateBuiltIn",
	OpAllocateFixedLengthString:  "AllocateFixedLengthString",
	OpAllocateArrayIntoA:         "AllocateArrayIntoA",
	OpAllocateUserDefined:        "AllocateUserDefined",
	OpVarPathName:                "VarPathName",
	OpVarPathIndex:               "VarPathIndex",
	OpVarPathProperty:            "VarPathProperty",
	OpCopyAToVarPath:             "CopyAToVarPath",
	OpCopyVarPathToA:             "CopyVarPathToA",
	OpPopVarPath:                 "PopVarPath",
	OpOnErrorGoTo:                "OnErrorGoTo",
	OpOnErrorResumeNext:          "OnErrorResumeNext",
	OpOnErrorGoToZero:            "OnErrorGoToZero",
	OpResume:                     "Resume",
	OpResumeNext:                 "ResumeNext",
	OpResumeLabel:                "ResumeLabel",
	OpBuiltInSub:                 "BuiltInSub",
	OpBuiltInFunction:            "BuiltInFunction",
}

// String renders an opcode name for debug output (debugger, panics).
func (op OpCode) String() string {
	if int(op) < len(names) && names[op] != "" {
		return names[op]
	}
	return "Unknown"
}
