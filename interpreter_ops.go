// interpreter_ops.go — expression evaluation.
//
// Evaluation order is deterministic and matches source order: left operand
// before right, call arguments strictly left to right. The exceptions are
// assignment (the target is inspected, not evaluated) and the short-circuit
// operators, whose right operand only runs when required. The right-hand side
// of an assignment is evaluated exactly once.
package idzeykl

func (ip *Interpreter) evalExpr(expr Expr) (Value, *RuntimeError) {
	switch e := expr.(type) {
	case *Literal:
		return evalLiteral(e), nil
	case *Ident:
		v, ok := ip.env.Get(e.Name)
		if !ok {
			return Null, rtErrf("Undefined variable '%s'", e.Name)
		}
		return v, nil
	case *BinaryExpr:
		return ip.evalBinary(e)
	case *UnaryExpr:
		return ip.evalUnary(e)
	case *CallExpr:
		return ip.evalCall(e)
	case *ArrayLit:
		return ip.evalArrayLit(e)
	case *IndexExpr:
		return ip.evalIndex(e)
	case *PropertyExpr:
		return ip.evalProperty(e)
	default:
		return Null, rtErrf("unknown expression type %T", expr)
	}
}

// evalLiteral narrows numeric literals whose double value equals their
// truncation to Integer.
func evalLiteral(e *Literal) Value {
	switch v := e.Value.(type) {
	case float64:
		return narrow(v)
	case string:
		return Str(v)
	case bool:
		return Bool(v)
	default:
		return Null
	}
}

func (ip *Interpreter) evalBinary(e *BinaryExpr) (Value, *RuntimeError) {
	switch e.Op {
	case ASSIGN:
		return ip.evalAssign(e)
	case AND:
		left, err := ip.evalExpr(e.Left)
		if err != nil {
			return Null, err
		}
		if !left.Truthy() {
			return Bool(false), nil
		}
		right, err := ip.evalExpr(e.Right)
		if err != nil {
			return Null, err
		}
		return Bool(right.Truthy()), nil
	case OR:
		left, err := ip.evalExpr(e.Left)
		if err != nil {
			return Null, err
		}
		if left.Truthy() {
			return Bool(true), nil
		}
		right, err := ip.evalExpr(e.Right)
		if err != nil {
			return Null, err
		}
		return Bool(right.Truthy()), nil
	}

	left, err := ip.evalExpr(e.Left)
	if err != nil {
		return Null, err
	}
	right, err := ip.evalExpr(e.Right)
	if err != nil {
		return Null, err
	}

	switch e.Op {
	case PLUS:
		return valueAdd(left, right), nil
	case MINUS:
		return valueSub(left, right), nil
	case MULT:
		return valueMul(left, right), nil
	case DIV:
		return valueDiv(left, right), nil
	case MOD:
		return valueMod(left, right), nil
	case EQ:
		return Bool(valueEqual(left, right)), nil
	case NEQ:
		return Bool(!valueEqual(left, right)), nil
	case LESS:
		return Bool(valueLess(left, right)), nil
	case LESS_EQ:
		return Bool(valueLessEq(left, right)), nil
	case GREATER:
		return Bool(valueGreater(left, right)), nil
	case GREATER_EQ:
		return Bool(valueGreaterEq(left, right)), nil
	default:
		return Null, rtErrf("Unknown binary operator: %s", e.Op)
	}
}

// evalAssign handles both assignment targets: a plain identifier, updated in
// the nearest enclosing frame that binds it, and an index into a named array
// variable, where the array is read out, a mutated copy is produced and the
// copy is written back (arrays keep value semantics).
func (ip *Interpreter) evalAssign(e *BinaryExpr) (Value, *RuntimeError) {
	right, err := ip.evalExpr(e.Right)
	if err != nil {
		return Null, err
	}

	switch target := e.Left.(type) {
	case *Ident:
		if !ip.env.Assign(target.Name, right) {
			return Null, rtErrf("Undefined variable '%s'", target.Name)
		}
		return right, nil

	case *IndexExpr:
		arrayIdent, ok := target.Array.(*Ident)
		if !ok {
			return Null, rtErrf("Cannot assign to an element of a non-variable array")
		}
		array, found := ip.env.Get(arrayIdent.Name)
		if !found {
			return Null, rtErrf("Undefined variable '%s'", arrayIdent.Name)
		}
		indexValue, err := ip.evalExpr(target.Index)
		if err != nil {
			return Null, err
		}
		updated := setArrayElement(array, int64(indexValue.AsNumber()), right)
		if !ip.env.Assign(arrayIdent.Name, updated) {
			return Null, rtErrf("Undefined variable '%s'", arrayIdent.Name)
		}
		return right, nil

	default:
		return Null, rtErrf("Invalid assignment target")
	}
}

func (ip *Interpreter) evalUnary(e *UnaryExpr) (Value, *RuntimeError) {
	operand, err := ip.evalExpr(e.X)
	if err != nil {
		return Null, err
	}
	switch e.Op {
	case MINUS:
		return Num(-operand.AsNumber()), nil
	case BANG:
		return Bool(!operand.Truthy()), nil
	default:
		return Null, rtErrf("Unknown unary operator: %s", e.Op)
	}
}

func (ip *Interpreter) evalCall(e *CallExpr) (Value, *RuntimeError) {
	var callee Value
	if ident, ok := e.Callee.(*Ident); ok {
		v, found := ip.env.Get(ident.Name)
		if !found {
			return Null, rtErrf("Undefined variable '%s'", ident.Name)
		}
		callee = v
	} else {
		v, err := ip.evalExpr(e.Callee)
		if err != nil {
			return Null, err
		}
		callee = v
	}

	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v, err := ip.evalExpr(arg)
		if err != nil {
			return Null, err
		}
		args = append(args, v)
	}
	return ip.callValue(callee, args)
}

// callValue invokes a function or native value. A user function executes its
// body in a fresh frame parented to the caller's current environment
// (dynamic enclosure); the nearest call consumes the return signal and a
// fall-through body yields null.
func (ip *Interpreter) callValue(callee Value, args []Value) (Value, *RuntimeError) {
	switch callee.Tag {
	case VTNative:
		n := callee.Data.(*Native)
		res, err := n.Impl(ip, args)
		if err != nil {
			return Null, &RuntimeError{Msg: err.Error()}
		}
		return res, nil

	case VTFun:
		f := callee.Data.(*Fun)
		if len(args) != len(f.Params) {
			return Null, rtErrf("Expected %d arguments but got %d", len(f.Params), len(args))
		}

		callEnv := NewEnv(ip.env)
		for i, p := range f.Params {
			callEnv.Define(p, args[i])
		}

		if f.Body == nil {
			return Null, nil
		}
		fl := ip.execBlock(f.Body, callEnv)
		switch {
		case fl.err != nil:
			return Null, fl.err
		case fl.kind == flowReturn:
			return fl.val, nil
		case fl.kind == flowBreak:
			return Null, rtErrf("'break' outside of a loop")
		default:
			return Null, nil
		}

	default:
		return Null, rtErrf("Can only call functions")
	}
}

func (ip *Interpreter) evalArrayLit(e *ArrayLit) (Value, *RuntimeError) {
	elems := make([]Value, 0, len(e.Elems))
	for _, el := range e.Elems {
		v, err := ip.evalExpr(el)
		if err != nil {
			return Null, err
		}
		elems = append(elems, v)
	}
	return Arr(elems), nil
}

func (ip *Interpreter) evalIndex(e *IndexExpr) (Value, *RuntimeError) {
	array, err := ip.evalExpr(e.Array)
	if err != nil {
		return Null, err
	}
	indexValue, err := ip.evalExpr(e.Index)
	if err != nil {
		return Null, err
	}
	return getArrayElement(array, int64(indexValue.AsNumber())), nil
}

func (ip *Interpreter) evalProperty(e *PropertyExpr) (Value, *RuntimeError) {
	object, err := ip.evalExpr(e.Object)
	if err != nil {
		return Null, err
	}
	return getProperty(object, e.Name), nil
}
