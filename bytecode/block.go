package bytecode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luax-lang/luax/op"
)

// Instr is a single instruction. Integer operands (slots, block ids,
// argument counts, rotation widths) live in A and B; immediate payloads
// for the load instructions live in K as a bool, float64 or string.
type Instr struct {
	Op op.Code
	A  int
	B  int
	K  any
}

// String returns a readable rendering, e.g. "LOAD_FLOAT 1" or "BRANCH 3".
func (i Instr) String() string {
	info := op.GetInfo(i.Op)
	parts := []string{info.Name}
	if info.Immediate {
		switch k := i.K.(type) {
		case string:
			parts = append(parts, strconv.Quote(k))
		default:
			parts = append(parts, fmt.Sprintf("%v", k))
		}
	}
	if info.OperandCount >= 1 {
		parts = append(parts, strconv.Itoa(i.A))
	}
	if info.OperandCount >= 2 {
		parts = append(parts, strconv.Itoa(i.B))
	}
	return strings.Join(parts, " ")
}

// BasicBlock is an immutable straight-line instruction sequence.
type BasicBlock struct {
	instrs []Instr
}

// NewBasicBlock creates a BasicBlock from a copy of the given instructions.
func NewBasicBlock(instrs []Instr) *BasicBlock {
	copied := make([]Instr, len(instrs))
	copy(copied, instrs)
	return &BasicBlock{instrs: copied}
}

// InstrCount returns the number of instructions in the block.
func (b *BasicBlock) InstrCount() int {
	return len(b.instrs)
}

// InstrAt returns the instruction at the given index.
func (b *BasicBlock) InstrAt(index int) Instr {
	return b.instrs[index]
}

// Instrs returns a copy of the block's instructions.
func (b *BasicBlock) Instrs() []Instr {
	copied := make([]Instr, len(b.instrs))
	copy(copied, b.instrs)
	return copied
}

// Terminator returns the block's final instruction. Every block built by
// the compiler ends with a branch, conditional branch or return.
func (b *BasicBlock) Terminator() Instr {
	if len(b.instrs) == 0 {
		return Instr{}
	}
	return b.instrs[len(b.instrs)-1]
}
