package compiler

import (
	"strconv"

	"github.com/luax-lang/luax/bytecode"
	"github.com/luax-lang/luax/op"
)

// LoopControlInfo holds the two branch targets active for the innermost
// enclosing loop: where "break" goes and where the next iteration begins.
type LoopControlInfo struct {
	BreakPoint    int // basic-block id of the loop's break target
	ContinuePoint int // basic-block id where an iteration continues
}

// VarKind classifies where a resolved variable lives.
type VarKind int

const (
	// VarLocal is a slot in the current function's locals.
	VarLocal VarKind = iota
	// VarUpvalue is a capture from an enclosing function.
	VarUpvalue
	// VarThis is a field of the implicit dynamic environment. Names that
	// resolve nowhere in the lexical scope chain fall back here, which is
	// how unscoped globals behave as environment lookups.
	VarThis
)

// VarLocation is a resolved storage location for an identifier. It knows
// how to emit its own load and store sequences against a function builder.
type VarLocation struct {
	Kind VarKind
	Slot int    // local or upvalue slot
	Name string // identifier, set for VarThis and for debugging captures
}

// LocalVar returns a location for a function-local slot.
func LocalVar(slot int) VarLocation {
	return VarLocation{Kind: VarLocal, Slot: slot}
}

// UpvalueVar returns a location for a captured variable.
func UpvalueVar(slot int, name string) VarLocation {
	return VarLocation{Kind: VarUpvalue, Slot: slot, Name: name}
}

// ThisVar returns a location reading and writing a field of the dynamic
// environment object.
func ThisVar(name string) VarLocation {
	return VarLocation{Kind: VarThis, Name: name}
}

// EmitLoad emits the opcode sequence that pushes the variable's value.
func (v VarLocation) EmitLoad(fb *FunctionBuilder) {
	switch v.Kind {
	case VarLocal:
		fb.Emit(op.GetLocal, v.Slot)
	case VarUpvalue:
		fb.Emit(op.GetUpvalue, v.Slot)
	case VarThis:
		// Key before base, mirroring the explicit index paths.
		fb.EmitK(op.LoadString, v.Name)
		fb.Emit(op.LoadThis)
		fb.Emit(op.IndexGet)
	}
}

// EmitStore emits the opcode sequence that stores the value currently on
// top of the stack into the variable.
func (v VarLocation) EmitStore(fb *FunctionBuilder) {
	switch v.Kind {
	case VarLocal:
		fb.Emit(op.SetLocal, v.Slot)
	case VarUpvalue:
		fb.Emit(op.SetUpvalue, v.Slot)
	case VarThis:
		fb.EmitK(op.LoadString, v.Name)
		fb.Emit(op.LoadThis)
		fb.Emit(op.IndexSet)
	}
}

// BasicBlockBuilder accumulates the opcode sequence of one basic block.
type BasicBlockBuilder struct {
	opcodes []bytecode.Instr
}

// Push appends an instruction to the block.
func (b *BasicBlockBuilder) Push(instr bytecode.Instr) {
	b.opcodes = append(b.opcodes, instr)
}

// Len returns the number of instructions pushed so far.
func (b *BasicBlockBuilder) Len() int {
	return len(b.opcodes)
}

// Terminated returns true once the block ends in a branch, conditional
// branch or return.
func (b *BasicBlockBuilder) Terminated() bool {
	if len(b.opcodes) == 0 {
		return false
	}
	return op.IsTerminator(b.opcodes[len(b.opcodes)-1].Op)
}

// Build seals the block into its immutable form.
func (b *BasicBlockBuilder) Build() *bytecode.BasicBlock {
	return bytecode.NewBasicBlock(b.opcodes)
}

// ModuleBuilder owns the function table being assembled and the stack of
// function builders currently generating code, innermost last. Identifier
// resolution walks that stack outward, so a nested function can capture
// locals of its enclosing functions as upvalues.
type ModuleBuilder struct {
	functions []*bytecode.Function
	active    []*FunctionBuilder
}

// NewModuleBuilder returns an empty module builder.
func NewModuleBuilder() *ModuleBuilder {
	return &ModuleBuilder{}
}

// NewFunction starts a new function as a child of the innermost active
// function (or as a root function if none is active). The capturable list
// bounds which names the function may resolve from enclosing scopes; nil
// means unbounded. The used-variable analysis of the function literal is
// the usual source of the list. Over-approximating is safe.
func (m *ModuleBuilder) NewFunction(name string, capturable []string) *FunctionBuilder {
	fb := &FunctionBuilder{
		module: m,
		name:   name,
		blocks: []*BasicBlockBuilder{{}},
		scopes: []scope{{}},
	}
	if capturable != nil {
		fb.hints = make(map[string]struct{}, len(capturable))
		for _, name := range capturable {
			fb.hints[name] = struct{}{}
		}
	}
	if n := len(m.active); n > 0 {
		fb.parent = m.active[n-1]
	}
	m.active = append(m.active, fb)
	return fb
}

// LookupVar resolves an identifier against the scope chain of the innermost
// active function: its own locals first, then enclosing functions' locals
// as upvalue captures. Returns false if the name is unresolved everywhere,
// in which case callers fall back to the dynamic environment.
func (m *ModuleBuilder) LookupVar(name string) (VarLocation, bool) {
	if len(m.active) == 0 {
		return VarLocation{}, false
	}
	return m.active[len(m.active)-1].lookup(name)
}

// FunctionCount returns the number of finished functions in the table.
func (m *ModuleBuilder) FunctionCount() int {
	return len(m.functions)
}

// Build finalizes the module with the given entry-point slot.
func (m *ModuleBuilder) Build(entry int) *bytecode.Module {
	return bytecode.NewModule(bytecode.ModuleParams{
		Functions: m.functions,
		Entry:     entry,
	})
}

type binding struct {
	name string
	slot int
}

// scope is one lexical scope: an ordered list of bindings. Later bindings
// shadow earlier ones of the same name.
type scope struct {
	bindings []binding
}

// FunctionBuilder owns one function under construction: its basic-block
// list and cursor, its lexical-scope stack, its loop-control stack and its
// upvalue captures. It is exclusively owned by the single generation pass.
type FunctionBuilder struct {
	module     *ModuleBuilder
	parent     *FunctionBuilder
	name       string
	params     []string
	blocks     []*BasicBlockBuilder
	current    int
	scopes     []scope
	loops      []LoopControlInfo
	upvalues   []bytecode.Upvalue
	localCount int
	hints      map[string]struct{} // nil means any name may be captured
}

// Module returns the module builder this function belongs to.
func (fb *FunctionBuilder) Module() *ModuleBuilder {
	return fb.module
}

// CurrentBlockID returns the id of the block new opcodes are appended to.
func (fb *FunctionBuilder) CurrentBlockID() int {
	return fb.current
}

// CurrentBlock returns the block new opcodes are appended to.
func (fb *FunctionBuilder) CurrentBlock() *BasicBlockBuilder {
	return fb.blocks[fb.current]
}

// BlockAt returns the block with the given id for patching.
func (fb *FunctionBuilder) BlockAt(id int) *BasicBlockBuilder {
	return fb.blocks[id]
}

// BlockCount returns the number of blocks allocated so far.
func (fb *FunctionBuilder) BlockCount() int {
	return len(fb.blocks)
}

// MoveForward starts a new basic block and makes it current, returning its
// id. Ids are allocated sequentially, so a caller that is about to move
// forward knows the next id is CurrentBlockID()+1.
func (fb *FunctionBuilder) MoveForward() int {
	fb.blocks = append(fb.blocks, &BasicBlockBuilder{})
	fb.current = len(fb.blocks) - 1
	return fb.current
}

// Emit appends an instruction with up to two integer operands to the
// current block.
func (fb *FunctionBuilder) Emit(code op.Code, operands ...int) {
	instr := bytecode.Instr{Op: code}
	if len(operands) > 0 {
		instr.A = operands[0]
	}
	if len(operands) > 1 {
		instr.B = operands[1]
	}
	fb.CurrentBlock().Push(instr)
}

// EmitK appends an instruction carrying an immediate value to the current
// block.
func (fb *FunctionBuilder) EmitK(code op.Code, k any) {
	fb.CurrentBlock().Push(bytecode.Instr{Op: code, K: k})
}

// NewLocal creates a fresh local binding in the innermost scope. An
// existing binding of the same name is shadowed, never reused.
func (fb *FunctionBuilder) NewLocal(name string) VarLocation {
	slot := fb.localCount
	fb.localCount++
	s := &fb.scopes[len(fb.scopes)-1]
	s.bindings = append(s.bindings, binding{name: name, slot: slot})
	return LocalVar(slot)
}

// GetVarLocation resolves a name for assignment or reference, falling back
// to a dynamic environment field when the scope chain has no binding.
func (fb *FunctionBuilder) GetVarLocation(name string) VarLocation {
	if loc, ok := fb.module.LookupVar(name); ok {
		return loc
	}
	return ThisVar(name)
}

// Scoped runs f inside a new lexical scope. The scope is popped on every
// exit path, including error returns, so a failed inner lowering cannot
// leak bindings into a sibling statement.
func (fb *FunctionBuilder) Scoped(f func() error) error {
	fb.scopes = append(fb.scopes, scope{})
	defer func() {
		fb.scopes = fb.scopes[:len(fb.scopes)-1]
	}()
	return f()
}

// WithLoopControl runs f with the given loop-control context pushed. The
// context is popped on every exit path.
func (fb *FunctionBuilder) WithLoopControl(lci LoopControlInfo, f func() error) error {
	fb.loops = append(fb.loops, lci)
	defer func() {
		fb.loops = fb.loops[:len(fb.loops)-1]
	}()
	return f()
}

// LoopControl returns the innermost loop-control context, if any.
func (fb *FunctionBuilder) LoopControl() (LoopControlInfo, bool) {
	if len(fb.loops) == 0 {
		return LoopControlInfo{}, false
	}
	return fb.loops[len(fb.loops)-1], true
}

// BuildArgsLoad registers the argument names as locals in declaration order
// and emits the preamble that moves each argument into its slot. Parameters
// therefore resolve exactly like ordinary locals inside the body.
func (fb *FunctionBuilder) BuildArgsLoad(names []string) error {
	for i, name := range names {
		fb.Emit(op.GetArgument, i)
		loc := fb.NewLocal(name)
		loc.EmitStore(fb)
	}
	fb.params = append(fb.params, names...)
	return nil
}

// Finish seals the function, registers it in the module's function table
// and returns its table slot. Any block left without a terminator gets an
// implicit "return null", matching the runtime's behavior for functions
// that fall off the end.
func (fb *FunctionBuilder) Finish() (int, error) {
	n := len(fb.module.active)
	if n == 0 || fb.module.active[n-1] != fb {
		return 0, errorf("function builder finished out of order")
	}
	fb.module.active = fb.module.active[:n-1]

	blocks := make([]*bytecode.BasicBlock, 0, len(fb.blocks))
	for _, b := range fb.blocks {
		if !b.Terminated() {
			b.Push(bytecode.Instr{Op: op.LoadNull})
			b.Push(bytecode.Instr{Op: op.Return})
		}
		blocks = append(blocks, b.Build())
	}

	slot := len(fb.module.functions)
	fn := bytecode.NewFunction(bytecode.FunctionParams{
		ID:         strconv.Itoa(slot),
		Name:       fb.name,
		Parameters: fb.params,
		LocalCount: fb.localCount,
		Upvalues:   fb.upvalues,
		Blocks:     blocks,
	})
	fb.module.functions = append(fb.module.functions, fn)
	return slot, nil
}

func (fb *FunctionBuilder) lookup(name string) (VarLocation, bool) {
	if slot, ok := fb.findLocal(name); ok {
		return LocalVar(slot), true
	}
	if idx, ok := fb.captureUpvalue(name); ok {
		return UpvalueVar(idx, name), true
	}
	return VarLocation{}, false
}

func (fb *FunctionBuilder) findLocal(name string) (int, bool) {
	for i := len(fb.scopes) - 1; i >= 0; i-- {
		bindings := fb.scopes[i].bindings
		for j := len(bindings) - 1; j >= 0; j-- {
			if bindings[j].name == name {
				return bindings[j].slot, true
			}
		}
	}
	return 0, false
}

func (fb *FunctionBuilder) capturable(name string) bool {
	if fb.hints == nil {
		return true
	}
	_, ok := fb.hints[name]
	return ok
}

// captureUpvalue resolves name in an enclosing function and records the
// capture, reusing an existing descriptor for repeated references.
// Captures across multiple nesting levels are forwarded through each
// intermediate function.
func (fb *FunctionBuilder) captureUpvalue(name string) (int, bool) {
	if fb.parent == nil || !fb.capturable(name) {
		return 0, false
	}
	for i, uv := range fb.upvalues {
		if uv.Name == name {
			return i, true
		}
	}
	if slot, ok := fb.parent.findLocal(name); ok {
		fb.upvalues = append(fb.upvalues, bytecode.Upvalue{
			Kind:  bytecode.UpvalueLocal,
			Index: slot,
			Name:  name,
		})
		return len(fb.upvalues) - 1, true
	}
	if idx, ok := fb.parent.captureUpvalue(name); ok {
		fb.upvalues = append(fb.upvalues, bytecode.Upvalue{
			Kind:  bytecode.UpvalueOuter,
			Index: idx,
			Name:  name,
		})
		return len(fb.upvalues) - 1, true
	}
	return 0, false
}
