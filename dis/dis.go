// Package dis supports analysis of compiled luax modules by rendering
// their bytecode in a readable text form. Output is organized the way the
// compiler organizes code: per function, then per basic block.
package dis

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/luax-lang/luax/bytecode"
	"github.com/luax-lang/luax/op"
)

var (
	headerColor = color.New(color.FgMagenta)
	opcodeColor = color.New(color.Bold)
	numberColor = color.New(color.FgYellow)
	stringColor = color.New(color.FgGreen)
)

// Fprint writes a disassembly of every function in the module, entry
// function last, matching function-table order.
func Fprint(w io.Writer, module *bytecode.Module) {
	for i := 0; i < module.FunctionCount(); i++ {
		if i > 0 {
			fmt.Fprintln(w)
		}
		FprintFunction(w, module.FunctionAt(i))
	}
}

// Sprint returns the module disassembly as a string.
func Sprint(module *bytecode.Module) string {
	var buf bytes.Buffer
	Fprint(&buf, module)
	return buf.String()
}

// FprintFunction writes a disassembly of a single function: a header
// line, its upvalue captures and then each basic block's instructions.
func FprintFunction(w io.Writer, fn *bytecode.Function) {
	name := fn.Name()
	if name == "" {
		name = "<anonymous>"
	}
	fmt.Fprintf(w, "%s %s (id=%s, params=%d, locals=%d)\n",
		headerColor.Sprint("function"), name, fn.ID(),
		fn.ParameterCount(), fn.LocalCount())
	for i := 0; i < fn.UpvalueCount(); i++ {
		uv := fn.UpvalueAt(i)
		kind := "local"
		if uv.Kind == bytecode.UpvalueOuter {
			kind = "upvalue"
		}
		fmt.Fprintf(w, "  upvalue %d: %s %d (%s)\n", i, kind, uv.Index, uv.Name)
	}
	for b := 0; b < fn.BlockCount(); b++ {
		fmt.Fprintf(w, "  block %d:\n", b)
		instrs := fn.BlockAt(b).Instrs()
		for _, instr := range instrs {
			fmt.Fprintf(w, "    %s\n", sprintInstr(instr))
		}
	}
}

func sprintInstr(instr bytecode.Instr) string {
	info := op.GetInfo(instr.Op)
	out := opcodeColor.Sprint(info.Name)
	if info.Immediate {
		switch k := instr.K.(type) {
		case string:
			out += " " + stringColor.Sprint(strconv.Quote(k))
		default:
			out += " " + numberColor.Sprintf("%v", k)
		}
	}
	if info.OperandCount >= 1 {
		out += " " + strconv.Itoa(instr.A)
	}
	if info.OperandCount >= 2 {
		out += " " + strconv.Itoa(instr.B)
	}
	return out
}
