package bytecode

import (
	"bytes"
	"fmt"
	"strings"
)

// UpvalueKind says where a captured variable lives in the enclosing function.
type UpvalueKind int

const (
	// UpvalueLocal captures a local slot of the enclosing function.
	UpvalueLocal UpvalueKind = iota
	// UpvalueOuter captures an upvalue slot of the enclosing function,
	// forwarding a capture from further out.
	UpvalueOuter
)

// Upvalue describes one captured variable of a function.
type Upvalue struct {
	Kind  UpvalueKind
	Index int    // slot in the enclosing function (local or upvalue)
	Name  string // captured identifier, for debugging
}

// Function is an immutable compiled function template. Block 0 is the entry.
type Function struct {
	id         string
	name       string
	parameters []string
	localCount int
	upvalues   []Upvalue
	blocks     []*BasicBlock
}

// FunctionParams contains parameters for creating a new Function.
type FunctionParams struct {
	ID         string
	Name       string
	Parameters []string
	LocalCount int
	Upvalues   []Upvalue
	Blocks     []*BasicBlock
}

// NewFunction creates a new immutable Function from the given parameters.
// Input slices are copied to ensure immutability.
func NewFunction(params FunctionParams) *Function {
	parameters := make([]string, len(params.Parameters))
	copy(parameters, params.Parameters)
	upvalues := make([]Upvalue, len(params.Upvalues))
	copy(upvalues, params.Upvalues)
	blocks := make([]*BasicBlock, len(params.Blocks))
	copy(blocks, params.Blocks)
	return &Function{
		id:         params.ID,
		name:       params.Name,
		parameters: parameters,
		localCount: params.LocalCount,
		upvalues:   upvalues,
		blocks:     blocks,
	}
}

// ID returns the function's identifier within its module.
func (f *Function) ID() string {
	return f.id
}

// Name returns the function name, or empty string for anonymous functions.
func (f *Function) Name() string {
	return f.name
}

// ParameterCount returns the number of declared parameters.
func (f *Function) ParameterCount() int {
	return len(f.parameters)
}

// Parameter returns the name of the parameter at the given index.
func (f *Function) Parameter(index int) string {
	return f.parameters[index]
}

// LocalCount returns the number of local slots the function uses,
// parameters included.
func (f *Function) LocalCount() int {
	return f.localCount
}

// UpvalueCount returns the number of captured variables.
func (f *Function) UpvalueCount() int {
	return len(f.upvalues)
}

// UpvalueAt returns the upvalue descriptor at the given index.
func (f *Function) UpvalueAt(index int) Upvalue {
	return f.upvalues[index]
}

// BlockCount returns the number of basic blocks.
func (f *Function) BlockCount() int {
	return len(f.blocks)
}

// BlockAt returns the basic block at the given index.
func (f *Function) BlockAt(index int) *BasicBlock {
	return f.blocks[index]
}

// String returns a short description of the function.
func (f *Function) String() string {
	var out bytes.Buffer
	if f.name != "" {
		fmt.Fprintf(&out, "function %s(", f.name)
	} else {
		out.WriteString("function(")
	}
	out.WriteString(strings.Join(f.parameters, ", "))
	fmt.Fprintf(&out, ") {%d blocks}", len(f.blocks))
	return out.String()
}
