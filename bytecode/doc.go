// Package bytecode provides immutable representations of compiled luax code.
//
// This package defines the output of compilation: a Module holding a table
// of Functions, each a list of BasicBlocks containing Instr values. These
// types are created once by the compiler and may then be shared freely; no
// mutation methods exist, all fields are unexported, and constructors copy
// input slices to prevent caller mutation.
//
// A BasicBlock is a straight-line sequence of instructions. Control leaves
// a block only through its final instruction: a branch, a conditional
// branch, or a return.
//
// The runtime layer (outside this module) is responsible for allocating
// function objects from these templates, registering native globals into a
// dynamic environment object, and binding every function's implicit "this"
// to that environment before invocation.
package bytecode
