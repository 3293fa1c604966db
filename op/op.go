// Package op defines the opcodes emitted by the luax compiler. The virtual
// machine that executes them lives outside this module; the compiler treats
// the set as an opaque instruction vocabulary.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint16

const (
	Invalid Code = 0

	// Immediate loads
	LoadNull     Code = 1
	LoadBool     Code = 2
	LoadFloat    Code = 3
	LoadString   Code = 4
	LoadFunction Code = 5 // operand: module function-table slot
	LoadThis     Code = 6 // push the implicit dynamic environment
	GetArgument  Code = 7 // operand: argument index

	// Stack manipulation
	Dup           Code = 10
	Pop           Code = 11
	Rotate2       Code = 12 // swap the top two values
	RotateReverse Code = 13 // operand: reverse the top N values

	// Variable access
	GetLocal   Code = 20 // operand: local slot
	SetLocal   Code = 21
	GetUpvalue Code = 22 // operand: upvalue slot
	SetUpvalue Code = 23

	// Arithmetic
	Add    Code = 30
	Sub    Code = 31
	Mul    Code = 32
	Div    Code = 33
	IntDiv Code = 34
	Mod    Code = 35
	Pow    Code = 36

	// Comparison
	TestEq Code = 40
	TestNe Code = 41
	TestLt Code = 42
	TestGt Code = 43
	TestLe Code = 44
	TestGe Code = 45

	// Logic
	Not Code = 50

	// Strings
	Concat Code = 51

	// Tables
	CreateTable Code = 60
	TableSet    Code = 61 // pops element and table reference
	CreatePair  Code = 62
	IndexGet    Code = 63 // pops base then key, pushes value
	IndexSet    Code = 64 // pops base, key and value

	// Calls
	Call   Code = 70 // operand: argument count
	Return Code = 71

	// Control flow; operands are basic-block ids
	Branch            Code = 80
	ConditionalBranch Code = 81 // operands: true target, false target
)

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int  // integer operands carried by the instruction
	Immediate    bool // true if the instruction carries an immediate value
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
		imm   bool
	}
	ops := []opInfo{
		{LoadNull, "LOAD_NULL", 0, false},
		{LoadBool, "LOAD_BOOL", 0, true},
		{LoadFloat, "LOAD_FLOAT", 0, true},
		{LoadString, "LOAD_STRING", 0, true},
		{LoadFunction, "LOAD_FUNCTION", 1, false},
		{LoadThis, "LOAD_THIS", 0, false},
		{GetArgument, "GET_ARGUMENT", 1, false},
		{Dup, "DUP", 0, false},
		{Pop, "POP", 0, false},
		{Rotate2, "ROTATE2", 0, false},
		{RotateReverse, "ROTATE_REVERSE", 1, false},
		{GetLocal, "GET_LOCAL", 1, false},
		{SetLocal, "SET_LOCAL", 1, false},
		{GetUpvalue, "GET_UPVALUE", 1, false},
		{SetUpvalue, "SET_UPVALUE", 1, false},
		{Add, "ADD", 0, false},
		{Sub, "SUB", 0, false},
		{Mul, "MUL", 0, false},
		{Div, "DIV", 0, false},
		{IntDiv, "INT_DIV", 0, false},
		{Mod, "MOD", 0, false},
		{Pow, "POW", 0, false},
		{TestEq, "TEST_EQ", 0, false},
		{TestNe, "TEST_NE", 0, false},
		{TestLt, "TEST_LT", 0, false},
		{TestGt, "TEST_GT", 0, false},
		{TestLe, "TEST_LE", 0, false},
		{TestGe, "TEST_GE", 0, false},
		{Not, "NOT", 0, false},
		{Concat, "CONCAT", 0, false},
		{CreateTable, "CREATE_TABLE", 0, false},
		{TableSet, "TABLE_SET", 0, false},
		{CreatePair, "CREATE_PAIR", 0, false},
		{IndexGet, "INDEX_GET", 0, false},
		{IndexSet, "INDEX_SET", 0, false},
		{Call, "CALL", 1, false},
		{Return, "RETURN", 0, false},
		{Branch, "BRANCH", 1, false},
		{ConditionalBranch, "CONDITIONAL_BRANCH", 2, false},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:         o.op,
			Name:         o.name,
			OperandCount: o.count,
			Immediate:    o.imm,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(code Code) Info {
	return infos[code]
}

// IsTerminator returns true if the opcode ends a basic block. Control only
// leaves a block through one of these.
func IsTerminator(code Code) bool {
	switch code {
	case Branch, ConditionalBranch, Return:
		return true
	}
	return false
}
