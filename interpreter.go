// interpreter.go — public surface of the IdzeyKL runtime.
//
// The Interpreter walks an owned AST for effect. It holds the current
// environment and the globals (initially the same frame); program output is
// written to Out, which the host may redirect before running.
//
// Scoping: environments form a chain of frames up to the single global.
// Function bodies, loop frames, if/else arms and nested blocks each execute
// in a fresh child frame. Function calls parent the callee frame to the
// caller's *current* environment — dynamic enclosure, kept faithful to the
// language's reference behavior.
//
// Errors: Eval*/Run return *RuntimeError (message-only, no position) as a Go
// error. Parse errors from EvalSource come back as a plain error whose message
// is the caret snippet built by errors.go; errors.As does not recover a
// *ParseError from it. Return and break are control-flow signals, never
// errors, and are consumed by the nearest function call or loop; a break that
// reaches the top level is a runtime error.
package idzeykl

import (
	"fmt"
	"io"
	"os"
)

// Version is the interpreter release tag reported by the CLI.
const Version = "0.4.1"

// RuntimeError represents an execution-time failure. Runtime diagnostics
// carry a message only; positions exist for parse errors alone.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return "RUNTIME ERROR: " + e.Msg }

func rtErrf(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// NativeImpl is the implementation signature for host callables installed
// with RegisterNative. A returned error surfaces as a runtime error.
type NativeImpl func(ip *Interpreter, args []Value) (Value, error)

// Env is an environment frame: a name→Value table with an optional parent.
// Lookups and assignments walk parent-ward.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name in this frame unconditionally; a redeclaration
// overwrites.
func (e *Env) Define(name string, v Value) { e.table[name] = v }

// Get retrieves the nearest visible binding, walking parents.
func (e *Env) Get(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Assign updates the nearest existing binding. It reports false when no
// visible frame binds the name; it never implicitly defines.
func (e *Env) Assign(name string, v Value) bool {
	for f := e; f != nil; f = f.parent {
		if _, ok := f.table[name]; ok {
			f.table[name] = v
			return true
		}
	}
	return false
}

// Interpreter executes IdzeyKL programs. Construct with NewInterpreter.
type Interpreter struct {
	// Globals is the root environment shared by every run of this instance.
	Globals *Env
	// Out receives all print/println output. Defaults to os.Stdout; hosts
	// redirect it by assigning before Run. Writes are not buffered, matching
	// the flush-after-every-print contract.
	Out io.Writer

	env *Env // current frame
}

// NewInterpreter returns a ready interpreter with an empty global frame.
func NewInterpreter() *Interpreter {
	g := NewEnv(nil)
	return &Interpreter{Globals: g, env: g, Out: os.Stdout}
}

// RegisterNative installs a host callable under name in the globals.
func (ip *Interpreter) RegisterNative(name string, impl NativeImpl) {
	ip.Globals.Define(name, NativeVal(&Native{Name: name, Impl: impl}))
}

// Run executes a parsed program in the global environment. The top-level
// block runs in the globals themselves; nested blocks get child frames. A
// top-level return ends the program normally; a top-level break is a runtime
// error.
func (ip *Interpreter) Run(program *BlockStmt) error {
	_, err := ip.runTop(program)
	return err
}

// EvalSource parses and runs src in the global environment, persistently
// (REPL-style). It returns the value left by the last top-level statement:
// an expression statement yields its value, a block or if statement passes on
// the value of the last statement it ran, a top-level return yields its
// value, and every other statement kind yields null. Parse errors come back
// as the caret snippet text.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	program, err := Parse(src)
	if err != nil {
		return Null, WrapErrorWithSource(err, src)
	}
	return ip.runTop(program)
}

func (ip *Interpreter) runTop(program *BlockStmt) (Value, error) {
	fl := ip.execBlock(program, ip.Globals)
	switch {
	case fl.err != nil:
		return Null, fl.err
	case fl.kind == flowBreak:
		return Null, rtErrf("'break' outside of a loop")
	case fl.kind == flowReturn:
		return fl.val, nil
	default:
		return fl.val, nil
	}
}
