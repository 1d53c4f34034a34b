package interp

import (
	"basic/internal/builtins"
	"basic/internal/bytecode"
	"basic/internal/filemanager"
	"basic/internal/rterr"
	"basic/internal/store"
	"basic/internal/variant"
)

// dispatchBuiltIn implements OpBuiltInSub/OpBuiltInFunction (§4.5): the
// instruction names one intrinsic, its actual arguments were collected
// the same way a subprogram call's are (BeginCollectArguments followed by
// a run of PushUnnamed*/PushNamed), and — unlike a subprogram call — a
// built-in consumes that Arguments buffer directly instead of turning it
// into a callee scope, writing its result (if any) into register A.
func (ip *Interpreter) dispatchBuiltIn(instr bytecode.Instruction) error {
	args, err := ip.ctx.DiscardCollectedArguments()
	if err != nil {
		return err
	}

	scalarAt := func(i int) (variant.Variant, error) {
		v, ok := args.ValueAt(i)
		if !ok {
			return variant.Variant{}, rterr.New(rterr.Other, "%s: missing argument %d", instr.Name, i)
		}
		return asScalar(v)
	}
	intAt := func(i int) (int, error) {
		s, err := scalarAt(i)
		if err != nil {
			return 0, err
		}
		lv, err := s.Cast(variant.QualLong)
		if err != nil {
			return 0, err
		}
		return int(lv.LongVal()), nil
	}
	strAt := func(i int) (string, error) {
		s, err := scalarAt(i)
		if err != nil {
			return "", err
		}
		return s.StringVal(), nil
	}
	setResult := func(v variant.Variant) { ip.regs.A = store.Scalar(v) }
	writeBack := func(i int, v variant.Variant) error {
		path, ok := args.PathAt(i)
		if !ok {
			return rterr.New(rterr.VariableRequired, "%s: argument %d is not a variable", instr.Name, i)
		}
		return ip.ctx.WritePath(path, store.Scalar(v))
	}

	switch instr.Name {
	case "VARPTR":
		path, err := ip.peekVarPath()
		if err != nil {
			return err
		}
		ptr, err := builtins.VarPtr(ip.ctx, path)
		if err != nil {
			return err
		}
		setResult(variant.Int(int32(ptr)))
		return nil
	case "VARSEG":
		path, err := ip.peekVarPath()
		if err != nil {
			return err
		}
		seg, err := builtins.VarSeg(ip.ctx, path)
		if err != nil {
			return err
		}
		setResult(variant.Int(int32(seg)))
		return nil
	case "DEFSEG":
		seg := 0
		hasArg := args.Len() > 0
		if hasArg {
			v, err := intAt(0)
			if err != nil {
				return err
			}
			seg = v
		}
		resolved, err := builtins.ResolveDefSeg(seg, hasArg)
		if err != nil {
			return err
		}
		ip.defSeg = resolved
		return nil
	case "PEEK":
		addr, err := intAt(0)
		if err != nil {
			return err
		}
		b, err := builtins.Peek(ip.ctx, ip.host.Screen, ip.defSeg, addr)
		if err != nil {
			return err
		}
		setResult(variant.Int(int32(b)))
		return nil
	case "POKE":
		addr, err := intAt(0)
		if err != nil {
			return err
		}
		val, err := intAt(1)
		if err != nil {
			return err
		}
		return builtins.Poke(ip.ctx, ip.defSeg, addr, byte(val))

	case "CHR$":
		n, err := intAt(0)
		if err != nil {
			return err
		}
		s, err := builtins.Chr(n)
		if err != nil {
			return err
		}
		setResult(variant.Str(s))
		return nil
	case "ASC":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		n, err := builtins.Asc(s)
		if err != nil {
			return err
		}
		setResult(variant.Int(int32(n)))
		return nil
	case "LCASE$":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		setResult(variant.Str(builtins.LCase(s)))
		return nil
	case "UCASE$":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		setResult(variant.Str(builtins.UCase(s)))
		return nil
	case "LEFT$":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		n, err := intAt(1)
		if err != nil {
			return err
		}
		r, err := builtins.Left(s, n)
		if err != nil {
			return err
		}
		setResult(variant.Str(r))
		return nil
	case "RIGHT$":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		n, err := intAt(1)
		if err != nil {
			return err
		}
		r, err := builtins.Right(s, n)
		if err != nil {
			return err
		}
		setResult(variant.Str(r))
		return nil
	case "MID$":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		start, err := intAt(1)
		if err != nil {
			return err
		}
		hasLength := args.Len() > 2
		length := 0
		if hasLength {
			length, err = intAt(2)
			if err != nil {
				return err
			}
		}
		r, err := builtins.Mid(s, start, length, hasLength)
		if err != nil {
			return err
		}
		setResult(variant.Str(r))
		return nil
	case "LTRIM$":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		setResult(variant.Str(builtins.LTrim(s)))
		return nil
	case "RTRIM$":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		setResult(variant.Str(builtins.RTrim(s)))
		return nil
	case "INSTR":
		start := 1
		hayIdx, needleIdx := 0, 1
		if args.Len() > 2 {
			var err error
			start, err = intAt(0)
			if err != nil {
				return err
			}
			hayIdx, needleIdx = 1, 2
		}
		hay, err := strAt(hayIdx)
		if err != nil {
			return err
		}
		needle, err := strAt(needleIdx)
		if err != nil {
			return err
		}
		n, err := builtins.Instr(start, hay, needle)
		if err != nil {
			return err
		}
		setResult(variant.Int(int32(n)))
		return nil
	case "LEN":
		v, ok := args.ValueAt(0)
		if !ok {
			return rterr.New(rterr.Other, "LEN: missing argument")
		}
		if v.IsScalar() && v.AsScalar().Kind == variant.KindString {
			setResult(variant.Int(int32(builtins.Len(v.AsScalar().StringVal()))))
			return nil
		}
		sz, err := v.ByteSize(ip.host.Types)
		if err != nil {
			return err
		}
		setResult(variant.Int(int32(sz)))
		return nil
	case "SPACE$":
		n, err := intAt(0)
		if err != nil {
			return err
		}
		s, err := builtins.Space(n)
		if err != nil {
			return err
		}
		setResult(variant.Str(s))
		return nil
	case "STRING$":
		n, err := intAt(0)
		if err != nil {
			return err
		}
		fill, err := scalarAt(1)
		if err != nil {
			return err
		}
		s, err := builtins.StringDollar(n, fill)
		if err != nil {
			return err
		}
		setResult(variant.Str(s))
		return nil
	case "VAL":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		setResult(builtins.Val(s))
		return nil

	case "CVI":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		v, err := builtins.CVI(s)
		if err != nil {
			return err
		}
		setResult(v)
		return nil
	case "MKI$":
		v, err := scalarAt(0)
		if err != nil {
			return err
		}
		s, err := builtins.MKI(v)
		if err != nil {
			return err
		}
		setResult(variant.Str(s))
		return nil
	case "CVL":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		v, err := builtins.CVL(s)
		if err != nil {
			return err
		}
		setResult(v)
		return nil
	case "MKL$":
		v, err := scalarAt(0)
		if err != nil {
			return err
		}
		s, err := builtins.MKL(v)
		if err != nil {
			return err
		}
		setResult(variant.Str(s))
		return nil
	case "CVS":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		v, err := builtins.CVS(s)
		if err != nil {
			return err
		}
		setResult(v)
		return nil
	case "MKS$":
		v, err := scalarAt(0)
		if err != nil {
			return err
		}
		s, err := builtins.MKS(v)
		if err != nil {
			return err
		}
		setResult(variant.Str(s))
		return nil
	case "CVD":
		s, err := strAt(0)
		if err != nil {
			return err
		}
		v, err := builtins.CVD(s)
		if err != nil {
			return err
		}
		setResult(v)
		return nil
	case "MKD$":
		v, err := scalarAt(0)
		if err != nil {
			return err
		}
		s, err := builtins.MKD(v)
		if err != nil {
			return err
		}
		setResult(variant.Str(s))
		return nil

	case "LBOUND":
		v, ok := args.ValueAt(0)
		if !ok || !v.IsArray() {
			return rterr.New(rterr.TypeMismatch, "LBOUND requires an array")
		}
		dim := 1
		if args.Len() > 1 {
			var err error
			dim, err = intAt(1)
			if err != nil {
				return err
			}
		}
		n, err := builtins.LBound(v.AsArray(), dim)
		if err != nil {
			return err
		}
		setResult(variant.Int(int32(n)))
		return nil
	case "UBOUND":
		v, ok := args.ValueAt(0)
		if !ok || !v.IsArray() {
			return rterr.New(rterr.TypeMismatch, "UBOUND requires an array")
		}
		dim := 1
		if args.Len() > 1 {
			var err error
			dim, err = intAt(1)
			if err != nil {
				return err
			}
		}
		n, err := builtins.UBound(v.AsArray(), dim)
		if err != nil {
			return err
		}
		setResult(variant.Int(int32(n)))
		return nil

	case "ENVIRON$":
		name, err := strAt(0)
		if err != nil {
			return err
		}
		setResult(variant.Str(builtins.EnvironDollar(ip.host.Stdlib, name)))
		return nil
	case "ENVIRON":
		assignment, err := strAt(0)
		if err != nil {
			return err
		}
		return builtins.Environ(ip.host.Stdlib, assignment)
	case "COMMAND$":
		setResult(variant.Str(builtins.Command()))
		return nil
	case "TIMER":
		setResult(variant.Single(builtins.Timer(ip.host.Clock)))
		return nil
	case "INKEY$":
		s, err := builtins.InkeyDollar(ip.host.Keyboard)
		if err != nil {
			return err
		}
		setResult(variant.Str(s))
		return nil
	case "BEEP":
		builtins.Beep(ip.host.Output)
		return nil
	case "SYSTEM":
		ip.host.Stdlib.System()
		return nil

	case "CLS":
		builtins.Cls(ip.host.Screen)
		return nil
	case "LOCATE":
		row, err := intAt(0)
		if err != nil {
			return err
		}
		col, err := intAt(1)
		if err != nil {
			return err
		}
		hasCursor := args.Len() > 2
		cursorOn := false
		if hasCursor {
			c, err := intAt(2)
			if err != nil {
				return err
			}
			cursorOn = c != 0
		}
		builtins.Locate(ip.host.Screen, row, col, hasCursor, cursorOn)
		return nil
	case "VIEWPRINT":
		hasArgs := args.Len() > 0
		start, end := 0, 0
		if hasArgs {
			var err error
			start, err = intAt(0)
			if err != nil {
				return err
			}
			end, err = intAt(1)
			if err != nil {
				return err
			}
		}
		return builtins.ViewPrint(ip.host.Screen, start, end, hasArgs)
	case "WIDTH":
		builtins.Width(0, 0)
		return nil

	case "LSET", "RSET":
		name, err := strAt(0)
		if err != nil {
			return err
		}
		val, err := scalarAt(1)
		if err != nil {
			return err
		}
		var fixed variant.Variant
		if instr.Name == "LSET" {
			fixed, err = builtins.LSet(ip.host.Files, name, val)
		} else {
			fixed, err = builtins.RSet(ip.host.Files, name, val)
		}
		if err != nil {
			return err
		}
		return writeBack(0, fixed)

	case "SWAP":
		pathA, okA := args.PathAt(0)
		pathB, okB := args.PathAt(1)
		if !okA || !okB {
			return rterr.New(rterr.VariableRequired, "SWAP requires two variables")
		}
		a, err := scalarAt(0)
		if err != nil {
			return err
		}
		b, err := scalarAt(1)
		if err != nil {
			return err
		}
		newA, newB, err := builtins.Swap(a, b)
		if err != nil {
			return err
		}
		if err := ip.ctx.WritePath(pathA, store.Scalar(newA)); err != nil {
			return err
		}
		return ip.ctx.WritePath(pathB, store.Scalar(newB))

	case "READ":
		v, err := builtins.ReadNext(ip.prog.Data.Values, &ip.dataCursor)
		if err != nil {
			return err
		}
		return writeBack(0, v)
	case "RESTORE":
		hasLabel := args.Len() > 0
		label := ""
		if hasLabel {
			label, err = strAt(0)
			if err != nil {
				return err
			}
		}
		return builtins.Restore(ip.prog.Data.Labels, label, hasLabel, &ip.dataCursor)

	case "PRINT", "LPRINT":
		sink := ip.host.Output
		for i := 0; i < args.Len(); i++ {
			v, err := scalarAt(i)
			if err != nil {
				return err
			}
			sink.Print(printerFormat(v))
		}
		sink.Println()
		return nil

	case "OPEN":
		handle, err := intAt(0)
		if err != nil {
			return err
		}
		path, err := strAt(1)
		if err != nil {
			return err
		}
		modeName, err := strAt(2)
		if err != nil {
			return err
		}
		recLen := 0
		if args.Len() > 3 {
			recLen, err = intAt(3)
			if err != nil {
				return err
			}
		}
		mode, err := builtins.ParseOpenMode(modeName)
		if err != nil {
			return err
		}
		return ip.host.Files.Open(handle, path, mode, recLen)
	case "CLOSE":
		if args.Len() == 0 {
			return ip.host.Files.CloseAll()
		}
		handle, err := intAt(0)
		if err != nil {
			return err
		}
		return ip.host.Files.Close(handle)
	case "FIELD":
		handle, err := intAt(0)
		if err != nil {
			return err
		}
		var fields []filemanager.FieldDef
		for i := 1; i+1 < args.Len(); i += 2 {
			width, err := intAt(i)
			if err != nil {
				return err
			}
			name, err := strAt(i + 1)
			if err != nil {
				return err
			}
			fields = append(fields, filemanager.FieldDef{Name: name, Width: width})
		}
		return ip.host.Files.AddFieldList(handle, fields)
	case "GET":
		handle, err := intAt(0)
		if err != nil {
			return err
		}
		rec, err := intAt(1)
		if err != nil {
			return err
		}
		values, err := builtins.GetRecord(ip.host.Files, handle, rec)
		if err != nil {
			return err
		}
		globals := ip.ctx.GlobalVariables()
		for name, v := range values {
			if idx, ok := globals.IndexOf(name); ok {
				globals.SetByIndex(idx, store.Scalar(v))
			}
		}
		return nil
	case "PUT":
		handle, err := intAt(0)
		if err != nil {
			return err
		}
		rec, err := intAt(1)
		if err != nil {
			return err
		}
		fl, err := ip.host.Files.CurrentFieldList(handle)
		if err != nil {
			return err
		}
		globals := ip.ctx.GlobalVariables()
		values := make(map[string]variant.Variant, len(fl.Fields))
		for _, f := range fl.Fields {
			if v, ok := globals.Get(f.Name); ok && v.IsScalar() {
				values[f.Name] = v.AsScalar()
			}
		}
		return builtins.PutRecord(ip.host.Files, handle, rec, values)
	case "EOF":
		handle, err := intAt(0)
		if err != nil {
			return err
		}
		eof, err := ip.host.Files.EOF(handle)
		if err != nil {
			return err
		}
		setResult(boolVariant(eof))
		return nil
	case "INPUT$FILE":
		handle, err := intAt(0)
		if err != nil {
			return err
		}
		s, err := ip.host.Files.Input(handle)
		if err != nil {
			return err
		}
		return writeBack(1, variant.Str(s))
	case "LINEINPUT$FILE":
		handle, err := intAt(0)
		if err != nil {
			return err
		}
		s, err := ip.host.Files.LineInput(handle)
		if err != nil {
			return err
		}
		return writeBack(1, variant.Str(s))
	case "NAME":
		oldPath, err := strAt(0)
		if err != nil {
			return err
		}
		newPath, err := strAt(1)
		if err != nil {
			return err
		}
		return ip.host.Files.Name(oldPath, newPath)
	case "KILL":
		path, err := strAt(0)
		if err != nil {
			return err
		}
		return ip.host.Files.Kill(path)

	case "INPUT":
		s, err := ip.host.Input.Input()
		if err != nil {
			return err
		}
		return writeBack(0, variant.Str(s))
	case "LINEINPUT":
		s, err := ip.host.Input.LineInput()
		if err != nil {
			return err
		}
		return writeBack(0, variant.Str(s))

	default:
		return rterr.New(rterr.Other, "unrecognized built-in %q", instr.Name)
	}
}
