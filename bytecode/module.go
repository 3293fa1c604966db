package bytecode

import "github.com/gofrs/uuid"

// Module is the finished output of one compilation pass: a table of
// functions plus the id of the module's entry point. The runtime invokes
// the entry function with the dynamic globals object bound as "this".
type Module struct {
	id        string
	functions []*Function
	entry     int
}

// ModuleParams contains parameters for creating a new Module.
type ModuleParams struct {
	ID        string // generated if empty
	Functions []*Function
	Entry     int // function-table slot of the entry point
}

// NewModule creates a new immutable Module from the given parameters.
func NewModule(params ModuleParams) *Module {
	id := params.ID
	if id == "" {
		id = uuid.Must(uuid.NewV4()).String()
	}
	functions := make([]*Function, len(params.Functions))
	copy(functions, params.Functions)
	return &Module{
		id:        id,
		functions: functions,
		entry:     params.Entry,
	}
}

// ID returns the module's unique identifier.
func (m *Module) ID() string {
	return m.id
}

// FunctionCount returns the number of functions in the module table.
func (m *Module) FunctionCount() int {
	return len(m.functions)
}

// FunctionAt returns the function at the given table slot.
func (m *Module) FunctionAt(slot int) *Function {
	return m.functions[slot]
}

// Entry returns the function-table slot of the module entry point.
func (m *Module) Entry() int {
	return m.entry
}

// EntryFunction returns the module's entry function.
func (m *Module) EntryFunction() *Function {
	return m.functions[m.entry]
}
