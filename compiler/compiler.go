// Package compiler lowers a syntax tree into bytecode. Generation is a
// single front-to-back pass: expressions compile in a restricted mode that
// appends straight-line code leaving exactly one value on the stack, while
// statements compile in an unrestricted mode that may allocate and
// terminate basic blocks. Control flow is stitched by patching branch
// instructions into earlier blocks once their targets are known.
package compiler

import (
	"github.com/luax-lang/luax/ast"
	"github.com/luax-lang/luax/bytecode"
	"github.com/luax-lang/luax/op"
)

// MainFunctionName is the name given to the synthetic top-level function.
const MainFunctionName = "__main__"

// Compiler compiles one syntax tree into one module.
type Compiler struct {
	module *ModuleBuilder
}

// New creates a compiler with an empty module under construction.
func New() *Compiler {
	return &Compiler{module: NewModuleBuilder()}
}

// Compile is a convenience that compiles a block with a fresh compiler.
func Compile(block *ast.Block) (*bytecode.Module, error) {
	return New().Compile(block)
}

// Compile lowers the given top-level block and returns the finished
// module. The top-level code becomes a synthetic function named __main__
// which is the module entry point. Compile returns on the first error
// with no partial module.
func (c *Compiler) Compile(block *ast.Block) (*bytecode.Module, error) {
	fb := c.module.NewFunction(MainFunctionName, nil)
	if err := c.compileBlock(fb, block); err != nil {
		return nil, err
	}
	entry, err := fb.Finish()
	if err != nil {
		return nil, err
	}
	return c.module.Build(entry), nil
}

func (c *Compiler) compileBlock(fb *FunctionBuilder, block *ast.Block) error {
	for _, stmt := range block.Stmts {
		if err := c.compileStmt(fb, stmt); err != nil {
			return err
		}
	}
	return nil
}

// compileStmt lowers one statement. On return the current basic block is
// always open, so the next statement has somewhere to append code.
func (c *Compiler) compileStmt(fb *FunctionBuilder, node ast.Stmt) error {
	switch stmt := node.(type) {
	case *ast.Do:
		// a pure grouping construct: locals declared inside stay bound
		// for the statements that follow
		for _, s := range stmt.Stmts {
			if err := c.compileStmt(fb, s); err != nil {
				return err
			}
		}
		return nil
	case *ast.Set:
		return c.compileSet(fb, stmt)
	case *ast.Local:
		return c.compileLocal(fb, stmt)
	case *ast.Localrec:
		return c.compileLocalrec(fb, stmt)
	case *ast.While:
		return c.compileWhile(fb, stmt)
	case *ast.Repeat:
		return c.compileRepeat(fb, stmt)
	case *ast.If:
		return c.compileIf(fb, stmt)
	case *ast.Fornum:
		return c.compileFornum(fb, stmt)
	case *ast.Forin:
		return errorf("generic for loops are not supported")
	case *ast.Goto:
		return errorf("goto is not supported")
	case *ast.Label:
		return errorf("labels are not supported")
	case *ast.Return:
		return c.compileReturn(fb, stmt)
	case *ast.Break:
		return c.compileBreak(fb)
	case *ast.CallStmt:
		if err := c.compileCall(fb, stmt.Target, stmt.Args); err != nil {
			return err
		}
		fb.Emit(op.Pop)
		return nil
	default:
		return errorf("unknown statement type %T", node)
	}
}

func (c *Compiler) compileSet(fb *FunctionBuilder, stmt *ast.Set) error {
	if len(stmt.Targets) != len(stmt.Values) {
		return errorf("assignment has %d targets but %d values",
			len(stmt.Targets), len(stmt.Values))
	}
	for i, target := range stmt.Targets {
		if err := c.compileExpr(fb, stmt.Values[i]); err != nil {
			return err
		}
		if err := c.compileStore(fb, target); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileLocal(fb *FunctionBuilder, stmt *ast.Local) error {
	if len(stmt.Targets) != len(stmt.Values) {
		return errorf("local declaration has %d names but %d values",
			len(stmt.Targets), len(stmt.Values))
	}
	for i, target := range stmt.Targets {
		ident, ok := target.(*ast.Ident)
		if !ok {
			return errorf("local declaration target must be a name, got %T", target)
		}
		if err := c.compileExpr(fb, stmt.Values[i]); err != nil {
			return err
		}
		loc := fb.NewLocal(ident.Name)
		loc.EmitStore(fb)
	}
	return nil
}

// compileLocalrec binds the name before compiling the value, so a function
// expression on the right-hand side can refer to itself.
func (c *Compiler) compileLocalrec(fb *FunctionBuilder, stmt *ast.Localrec) error {
	ident, ok := stmt.Name.(*ast.Ident)
	if !ok {
		return errorf("recursive declaration target must be a name, got %T", stmt.Name)
	}
	loc := fb.NewLocal(ident.Name)
	if err := c.compileExpr(fb, stmt.Value); err != nil {
		return err
	}
	loc.EmitStore(fb)
	return nil
}

// compileWhile emits the loop as four regions: a check block holding the
// condition, a trampoline block that break statements branch to, the body,
// and the block after the loop. The check's conditional branch and the
// trampoline's branch are patched in once the after-loop block exists.
func (c *Compiler) compileWhile(fb *FunctionBuilder, stmt *ast.While) error {
	checkID := fb.CurrentBlockID() + 1
	fb.Emit(op.Branch, checkID)
	fb.MoveForward()
	if err := c.compileExpr(fb, stmt.Cond); err != nil {
		return err
	}
	breakID := fb.MoveForward()
	bodyID := fb.MoveForward()
	lci := LoopControlInfo{BreakPoint: breakID, ContinuePoint: checkID}
	err := fb.WithLoopControl(lci, func() error {
		return fb.Scoped(func() error {
			return c.compileBlock(fb, stmt.Body)
		})
	})
	if err != nil {
		return err
	}
	fb.Emit(op.Branch, checkID)
	endID := fb.MoveForward()
	fb.BlockAt(breakID).Push(bytecode.Instr{Op: op.Branch, A: endID})
	fb.BlockAt(checkID).Push(bytecode.Instr{Op: op.ConditionalBranch, A: bodyID, B: endID})
	return nil
}

// compileRepeat lowers repeat/until. The condition is evaluated after each
// iteration and still sees the body's local bindings, so it is compiled
// inside the body scope. A true condition exits the loop.
func (c *Compiler) compileRepeat(fb *FunctionBuilder, stmt *ast.Repeat) error {
	bodyID := fb.CurrentBlockID() + 3
	fb.Emit(op.Branch, bodyID)
	contID := fb.MoveForward()
	breakID := fb.MoveForward()
	fb.MoveForward()
	var endID int
	lci := LoopControlInfo{BreakPoint: breakID, ContinuePoint: contID}
	err := fb.WithLoopControl(lci, func() error {
		return fb.Scoped(func() error {
			if err := c.compileBlock(fb, stmt.Body); err != nil {
				return err
			}
			checkID := fb.CurrentBlockID() + 1
			fb.Emit(op.Branch, checkID)
			fb.MoveForward()
			if err := c.compileExpr(fb, stmt.Cond); err != nil {
				return err
			}
			endID = fb.CurrentBlockID() + 1
			fb.Emit(op.ConditionalBranch, endID, bodyID)
			fb.BlockAt(contID).Push(bytecode.Instr{Op: op.Branch, A: checkID})
			return nil
		})
	})
	if err != nil {
		return err
	}
	fb.MoveForward()
	fb.BlockAt(breakID).Push(bytecode.Instr{Op: op.Branch, A: endID})
	return nil
}

// compileIf lowers an if/elseif/else chain. Each arm gets a check block
// and a body block; bodies branch to a shared exit trampoline which is
// patched to the block following the whole statement.
func (c *Compiler) compileIf(fb *FunctionBuilder, stmt *ast.If) error {
	fb.Emit(op.Branch, fb.CurrentBlockID()+2)
	exitID := fb.MoveForward()
	fb.MoveForward()
	for _, arm := range stmt.Arms {
		// the false target of the previous arm is this arm's check block
		checkID := fb.CurrentBlockID()
		if err := c.compileExpr(fb, arm.Cond); err != nil {
			return err
		}
		bodyID := fb.MoveForward()
		err := fb.Scoped(func() error {
			return c.compileBlock(fb, arm.Body)
		})
		if err != nil {
			return err
		}
		fb.Emit(op.Branch, exitID)
		nextID := fb.MoveForward()
		fb.BlockAt(checkID).Push(bytecode.Instr{
			Op: op.ConditionalBranch, A: bodyID, B: nextID,
		})
	}
	if stmt.Else != nil {
		err := fb.Scoped(func() error {
			return c.compileBlock(fb, stmt.Else)
		})
		if err != nil {
			return err
		}
		fb.Emit(op.Branch, fb.CurrentBlockID()+1)
		fb.MoveForward()
	}
	fb.BlockAt(exitID).Push(bytecode.Instr{Op: op.Branch, A: fb.CurrentBlockID()})
	return nil
}

// compileFornum lowers a numeric for loop. The start, limit and step
// expressions are evaluated once into hidden locals. Because the loop
// direction depends on the step's sign, a dispatch block routes each
// iteration to an ascending or a descending bounds check.
func (c *Compiler) compileFornum(fb *FunctionBuilder, stmt *ast.Fornum) error {
	ident, ok := stmt.Var.(*ast.Ident)
	if !ok {
		return errorf("numeric for loop variable must be a name, got %T", stmt.Var)
	}
	return fb.Scoped(func() error {
		if err := c.compileExpr(fb, stmt.Start); err != nil {
			return err
		}
		idx := fb.NewLocal("(for index)")
		idx.EmitStore(fb)
		if err := c.compileExpr(fb, stmt.Stop); err != nil {
			return err
		}
		limit := fb.NewLocal("(for limit)")
		limit.EmitStore(fb)
		if stmt.Step != nil {
			if err := c.compileExpr(fb, stmt.Step); err != nil {
				return err
			}
		} else {
			fb.EmitK(op.LoadFloat, 1.0)
		}
		step := fb.NewLocal("(for step)")
		step.EmitStore(fb)

		dispatchID := fb.CurrentBlockID() + 1
		fb.Emit(op.Branch, dispatchID)
		fb.MoveForward()
		step.EmitLoad(fb)
		fb.EmitK(op.LoadFloat, 0.0)
		fb.Emit(op.Rotate2)
		fb.Emit(op.TestGe)

		posID := fb.MoveForward()
		idx.EmitLoad(fb)
		limit.EmitLoad(fb)
		fb.Emit(op.Rotate2)
		fb.Emit(op.TestLe)

		negID := fb.MoveForward()
		idx.EmitLoad(fb)
		limit.EmitLoad(fb)
		fb.Emit(op.Rotate2)
		fb.Emit(op.TestGe)

		breakID := fb.MoveForward()
		bodyID := fb.MoveForward()
		fb.BlockAt(dispatchID).Push(bytecode.Instr{
			Op: op.ConditionalBranch, A: posID, B: negID,
		})

		lci := LoopControlInfo{BreakPoint: breakID, ContinuePoint: dispatchID}
		err := fb.WithLoopControl(lci, func() error {
			return fb.Scoped(func() error {
				idx.EmitLoad(fb)
				loc := fb.NewLocal(ident.Name)
				loc.EmitStore(fb)
				return c.compileBlock(fb, stmt.Body)
			})
		})
		if err != nil {
			return err
		}

		// advance the hidden index and loop back to the dispatch
		idx.EmitLoad(fb)
		step.EmitLoad(fb)
		fb.Emit(op.Rotate2)
		fb.Emit(op.Add)
		idx.EmitStore(fb)
		fb.Emit(op.Branch, dispatchID)

		endID := fb.MoveForward()
		fb.BlockAt(posID).Push(bytecode.Instr{Op: op.ConditionalBranch, A: bodyID, B: endID})
		fb.BlockAt(negID).Push(bytecode.Instr{Op: op.ConditionalBranch, A: bodyID, B: endID})
		fb.BlockAt(breakID).Push(bytecode.Instr{Op: op.Branch, A: endID})
		return nil
	})
}

func (c *Compiler) compileReturn(fb *FunctionBuilder, stmt *ast.Return) error {
	switch len(stmt.Values) {
	case 0:
		fb.Emit(op.LoadNull)
	case 1:
		if err := c.compileExpr(fb, stmt.Values[0]); err != nil {
			return err
		}
	default:
		return errorf("multiple return values are not supported")
	}
	fb.Emit(op.Return)
	fb.MoveForward()
	return nil
}

func (c *Compiler) compileBreak(fb *FunctionBuilder) error {
	lci, ok := fb.LoopControl()
	if !ok {
		return errorf("break outside of a loop")
	}
	fb.Emit(op.Branch, lci.BreakPoint)
	fb.MoveForward()
	return nil
}

// compileExpr lowers one expression, leaving exactly one value on the
// stack. Expression code is straight-line: it never allocates or
// terminates a basic block in the current function.
func (c *Compiler) compileExpr(fb *FunctionBuilder, node ast.Expr) error {
	switch expr := node.(type) {
	case *ast.Nil:
		fb.Emit(op.LoadNull)
		return nil
	case *ast.Bool:
		fb.EmitK(op.LoadBool, expr.Value)
		return nil
	case *ast.Number:
		fb.EmitK(op.LoadFloat, expr.Value)
		return nil
	case *ast.String:
		fb.EmitK(op.LoadString, expr.Value)
		return nil
	case *ast.Dots:
		return errorf("varargs are not supported")
	case *ast.Ident:
		fb.GetVarLocation(expr.Name).EmitLoad(fb)
		return nil
	case *ast.Infix:
		return c.compileInfix(fb, expr)
	case *ast.Prefix:
		return c.compilePrefix(fb, expr)
	case *ast.Function:
		return c.compileFunction(fb, expr)
	case *ast.Table:
		return c.compileTable(fb, expr)
	case *ast.Pair:
		return c.compilePair(fb, expr)
	case *ast.Call:
		return c.compileCall(fb, expr.Fun, expr.Args)
	case *ast.Index:
		if err := c.compileExpr(fb, expr.Key); err != nil {
			return err
		}
		if err := c.compileExpr(fb, expr.X); err != nil {
			return err
		}
		fb.Emit(op.IndexGet)
		return nil
	default:
		return errorf("unknown expression type %T", node)
	}
}

var infixOps = map[string]op.Code{
	"+":  op.Add,
	"-":  op.Sub,
	"*":  op.Mul,
	"/":  op.Div,
	"//": op.IntDiv,
	"%":  op.Mod,
	"^":  op.Pow,
	"==": op.TestEq,
	"~=": op.TestNe,
	"<":  op.TestLt,
	">":  op.TestGt,
	"<=": op.TestLe,
	">=": op.TestGe,
	"..": op.Concat,
}

// compileInfix pushes both operands and swaps, since binary opcodes take
// their left operand from the top of the stack.
func (c *Compiler) compileInfix(fb *FunctionBuilder, expr *ast.Infix) error {
	code, ok := infixOps[expr.Op]
	if !ok {
		return errorf("unsupported binary operator %q", expr.Op)
	}
	if err := c.compileExpr(fb, expr.X); err != nil {
		return err
	}
	if err := c.compileExpr(fb, expr.Y); err != nil {
		return err
	}
	fb.Emit(op.Rotate2)
	fb.Emit(code)
	return nil
}

func (c *Compiler) compilePrefix(fb *FunctionBuilder, expr *ast.Prefix) error {
	if expr.Op != "not" {
		return errorf("unsupported unary operator %q", expr.Op)
	}
	if err := c.compileExpr(fb, expr.X); err != nil {
		return err
	}
	fb.Emit(op.Not)
	return nil
}

// compileFunction compiles a function literal into its own entry in the
// module's function table and loads a closure over it. The names used by
// the literal bound which outer locals it may capture.
func (c *Compiler) compileFunction(fb *FunctionBuilder, expr *ast.Function) error {
	names := make([]string, len(expr.Params))
	for i, param := range expr.Params {
		ident, ok := param.(*ast.Ident)
		if !ok {
			return errorf("function parameter must be a name, got %T", param)
		}
		names[i] = ident.Name
	}
	child := c.module.NewFunction("", ast.UsedVars(expr))
	if err := child.BuildArgsLoad(names); err != nil {
		return err
	}
	if err := c.compileBlock(child, expr.Body); err != nil {
		return err
	}
	slot, err := child.Finish()
	if err != nil {
		return err
	}
	fb.Emit(op.LoadFunction, slot)
	return nil
}

// compileTable builds the table first and keeps it on the stack, adding
// one element per TableSet. Pair items insert under their key, other
// items append at the next array index.
func (c *Compiler) compileTable(fb *FunctionBuilder, expr *ast.Table) error {
	fb.Emit(op.CreateTable)
	for _, item := range expr.Items {
		fb.Emit(op.Dup)
		if err := c.compileExpr(fb, item); err != nil {
			return err
		}
		fb.Emit(op.Rotate2)
		fb.Emit(op.TableSet)
	}
	return nil
}

func (c *Compiler) compilePair(fb *FunctionBuilder, expr *ast.Pair) error {
	if err := c.compileExpr(fb, expr.Key); err != nil {
		return err
	}
	if err := c.compileExpr(fb, expr.Value); err != nil {
		return err
	}
	fb.Emit(op.Rotate2)
	fb.Emit(op.CreatePair)
	return nil
}

// compileCall pushes the arguments, reverses them so the callee pops them
// in declaration order, pushes null as the receiver slot and then the
// callee itself.
func (c *Compiler) compileCall(fb *FunctionBuilder, fun ast.Expr, args []ast.Expr) error {
	for _, arg := range args {
		if err := c.compileExpr(fb, arg); err != nil {
			return err
		}
	}
	fb.Emit(op.RotateReverse, len(args))
	fb.Emit(op.LoadNull)
	if err := c.compileExpr(fb, fun); err != nil {
		return err
	}
	fb.Emit(op.Call, len(args))
	return nil
}

// compileStore assigns the value on top of the stack to the target.
func (c *Compiler) compileStore(fb *FunctionBuilder, target ast.Lhs) error {
	switch lhs := target.(type) {
	case *ast.Ident:
		fb.GetVarLocation(lhs.Name).EmitStore(fb)
		return nil
	case *ast.Index:
		if err := c.compileExpr(fb, lhs.Key); err != nil {
			return err
		}
		if err := c.compileExpr(fb, lhs.X); err != nil {
			return err
		}
		fb.Emit(op.IndexSet)
		return nil
	default:
		return errorf("unknown assignment target type %T", target)
	}
}
