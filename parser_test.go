// parser_test.go
package idzeykl

import (
	"strings"
	"testing"
)

func parseProgram(t *testing.T, src string) *BlockStmt {
	t.Helper()
	program, err := Parse(src)
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	return program
}

func parseExprFrom(t *testing.T, src string) Expr {
	t.Helper()
	program := parseProgram(t, src)
	if len(program.Stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(program.Stmts))
	}
	es, ok := program.Stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("want ExprStmt, got %T", program.Stmts[0])
	}
	return es.X
}

func wantParseError(t *testing.T, src, substr string) *ParseError {
	t.Helper()
	_, err := Parse(src)
	if err == nil {
		t.Fatalf("want parse error for %q, got none", src)
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("want *ParseError, got %T: %v", err, err)
	}
	if !strings.Contains(pe.Msg, substr) {
		t.Fatalf("error %q does not mention %q", pe.Msg, substr)
	}
	return pe
}

func Test_Parser_Precedence(t *testing.T) {
	expr := parseExprFrom(t, `1 + 2 * 3;`)
	add, ok := expr.(*BinaryExpr)
	if !ok || add.Op != PLUS {
		t.Fatalf("want Binary(+) at root, got %#v", expr)
	}
	mul, ok := add.Right.(*BinaryExpr)
	if !ok || mul.Op != MULT {
		t.Fatalf("want Binary(*) as right child, got %#v", add.Right)
	}
}

func Test_Parser_AssignmentRightAssociative(t *testing.T) {
	expr := parseExprFrom(t, `a = b = 1;`)
	outer, ok := expr.(*BinaryExpr)
	if !ok || outer.Op != ASSIGN {
		t.Fatalf("want Assign at root, got %#v", expr)
	}
	if id, ok := outer.Left.(*Ident); !ok || id.Name != "a" {
		t.Fatalf("want Ident a on the left, got %#v", outer.Left)
	}
	inner, ok := outer.Right.(*BinaryExpr)
	if !ok || inner.Op != ASSIGN {
		t.Fatalf("want nested Assign on the right, got %#v", outer.Right)
	}
	if id, ok := inner.Left.(*Ident); !ok || id.Name != "b" {
		t.Fatalf("want Ident b inside, got %#v", inner.Left)
	}
}

func Test_Parser_SubtractionLeftAssociative(t *testing.T) {
	expr := parseExprFrom(t, `1 - 2 - 3;`)
	outer, ok := expr.(*BinaryExpr)
	if !ok || outer.Op != MINUS {
		t.Fatalf("want Binary(-), got %#v", expr)
	}
	if _, ok := outer.Left.(*BinaryExpr); !ok {
		t.Fatalf("left-assoc: left child must be the nested Binary, got %#v", outer.Left)
	}
}

func Test_Parser_ElseIf_NestsInSyntheticBlock(t *testing.T) {
	program := parseProgram(t, `if (a) {} else if (b) {} else {}`)
	top, ok := program.Stmts[0].(*IfStmt)
	if !ok {
		t.Fatalf("want IfStmt, got %T", program.Stmts[0])
	}
	if top.Else == nil || len(top.Else.Stmts) != 1 {
		t.Fatalf("else-if must wrap in a single-statement block, got %#v", top.Else)
	}
	nested, ok := top.Else.Stmts[0].(*IfStmt)
	if !ok {
		t.Fatalf("want nested IfStmt, got %T", top.Else.Stmts[0])
	}
	if nested.Else == nil {
		t.Fatalf("nested if must carry the final else")
	}
}

func Test_Parser_VarDeclForms(t *testing.T) {
	program := parseProgram(t, `var a; var b = 1; var c[]; var d[] = [1, 2];`)

	if d := program.Stmts[0].(*VarDecl); d.Init != nil {
		t.Fatalf("plain var must have nil initializer")
	}
	if d := program.Stmts[1].(*VarDecl); d.Init == nil {
		t.Fatalf("var with '=' must have an initializer")
	}
	if d := program.Stmts[2].(*VarDecl); d.Init == nil {
		t.Fatalf("var c[] must default to an empty array literal")
	} else if lit, ok := d.Init.(*ArrayLit); !ok || len(lit.Elems) != 0 {
		t.Fatalf("var c[] initializer must be empty ArrayLit, got %#v", d.Init)
	}
	if d := program.Stmts[3].(*VarDecl); d.Init == nil {
		t.Fatalf("var d[] = [...] must keep its initializer")
	} else if lit, ok := d.Init.(*ArrayLit); !ok || len(lit.Elems) != 2 {
		t.Fatalf("want 2-element ArrayLit, got %#v", d.Init)
	}
}

func Test_Parser_FuncDecl(t *testing.T) {
	program := parseProgram(t, `func add(a, b) { return a + b; } func proto();`)

	fn := program.Stmts[0].(*FuncDecl)
	if fn.Name != "add" || len(fn.Params) != 2 || fn.Body == nil {
		t.Fatalf("unexpected FuncDecl: %#v", fn)
	}
	proto := program.Stmts[1].(*FuncDecl)
	if proto.Name != "proto" || proto.Body != nil {
		t.Fatalf("prototype must have nil body: %#v", proto)
	}
}

func Test_Parser_LoopHeads(t *testing.T) {
	// no head: infinite loop
	loop := parseProgram(t, `loop { break; }`).Stmts[0].(*LoopStmt)
	if loop.Init != nil || loop.Cond != nil || loop.Incr != nil {
		t.Fatalf("headless loop must have empty head")
	}

	// condition only
	loop = parseProgram(t, `var i = 0; loop(i < 3) { break; }`).Stmts[1].(*LoopStmt)
	if loop.Init != nil || loop.Cond == nil || loop.Incr != nil {
		t.Fatalf("condition-only head wrong: %#v", loop)
	}

	// full triple
	loop = parseProgram(t, `loop(var k = 0; k < 3; k = k + 1) {}`).Stmts[0].(*LoopStmt)
	if loop.Init == nil || loop.Cond == nil || loop.Incr == nil {
		t.Fatalf("full head wrong: %#v", loop)
	}

	// bare ';' initializer with condition and increment
	loop = parseProgram(t, `var k = 0; loop(; k < 3; k = k + 1) {}`).Stmts[1].(*LoopStmt)
	if loop.Init != nil || loop.Cond == nil || loop.Incr == nil {
		t.Fatalf("';' head wrong: %#v", loop)
	}

	// initializer only
	loop = parseProgram(t, `loop(var k = 0;) {}`).Stmts[0].(*LoopStmt)
	if loop.Init == nil || loop.Cond != nil || loop.Incr != nil {
		t.Fatalf("init-only head wrong: %#v", loop)
	}

	// empty parens
	loop = parseProgram(t, `loop() { break; }`).Stmts[0].(*LoopStmt)
	if loop.Init != nil || loop.Cond != nil || loop.Incr != nil {
		t.Fatalf("empty () head must be fully absent")
	}
}

func Test_Parser_PrintForms(t *testing.T) {
	// println string form: '+' chain, optional ';'
	program := parseProgram(t, `println "hello";`)
	ps := program.Stmts[0].(*PrintStmt)
	if !ps.Println || len(ps.Args) != 1 {
		t.Fatalf("println string form wrong: %#v", ps)
	}

	program = parseProgram(t, `println "n = " + n`)
	ps = program.Stmts[0].(*PrintStmt)
	if len(ps.Args) != 1 {
		t.Fatalf("want single chained arg, got %d", len(ps.Args))
	}
	if b, ok := ps.Args[0].(*BinaryExpr); !ok || b.Op != PLUS {
		t.Fatalf("string form must fold '+' into a Binary, got %#v", ps.Args[0])
	}

	// print string form requires the ';'
	wantParseError(t, `print "x"`, "Expected ';' after print statement")
	program = parseProgram(t, `print "x";`)
	if ps = program.Stmts[0].(*PrintStmt); ps.Println {
		t.Fatalf("print must not set the println flag")
	}

	// parenthesised form, multiple args, ';' required
	program = parseProgram(t, `println(a, b, 1 + 2);`)
	ps = program.Stmts[0].(*PrintStmt)
	if len(ps.Args) != 3 {
		t.Fatalf("want 3 args, got %d", len(ps.Args))
	}
	wantParseError(t, `println(a)`, "Expected ';' after print statement")
}

func Test_Parser_PostfixChains(t *testing.T) {
	expr := parseExprFrom(t, `a[0].length;`)
	prop, ok := expr.(*PropertyExpr)
	if !ok || prop.Name != "length" {
		t.Fatalf("want Property(length) at root, got %#v", expr)
	}
	if _, ok := prop.Object.(*IndexExpr); !ok {
		t.Fatalf("want Index under Property, got %#v", prop.Object)
	}

	expr = parseExprFrom(t, `m.rows[1][2];`)
	idx, ok := expr.(*IndexExpr)
	if !ok {
		t.Fatalf("want Index at root, got %#v", expr)
	}
	inner, ok := idx.Array.(*IndexExpr)
	if !ok {
		t.Fatalf("want nested Index, got %#v", idx.Array)
	}
	if _, ok := inner.Array.(*PropertyExpr); !ok {
		t.Fatalf("want Property under the chain, got %#v", inner.Array)
	}

	expr = parseExprFrom(t, `f(1)(2);`)
	call, ok := expr.(*CallExpr)
	if !ok {
		t.Fatalf("want Call at root, got %#v", expr)
	}
	if _, ok := call.Callee.(*CallExpr); !ok {
		t.Fatalf("calls must chain, got %#v", call.Callee)
	}
}

func Test_Parser_ErrorCarriesPosition(t *testing.T) {
	pe := wantParseError(t, "var x = 1;\nvar = 2;", "Expected variable name")
	if pe.Line != 2 {
		t.Fatalf("want error on line 2, got %d", pe.Line)
	}
	if !strings.Contains(pe.Msg, "ASSIGN") {
		t.Fatalf("error must name the observed token kind, got %q", pe.Msg)
	}
}

func Test_Parser_SurfacesLexerErrors(t *testing.T) {
	pe := wantParseError(t, `var x = 1 & 2;`, "Expected '&' after '&'")
	if pe.Line != 1 {
		t.Fatalf("want line 1, got %d", pe.Line)
	}
}

func Test_Parser_FuncBodyDeepClone(t *testing.T) {
	program := parseProgram(t, `func f() { return 1; }`)
	decl := program.Stmts[0].(*FuncDecl)

	captured := decl.Body.Clone()

	// Mutate the parsed declaration after the clone was taken.
	decl.Body.Stmts[0].(*ReturnStmt).Value = &Literal{Value: 2.0}

	ret := captured.Stmts[0].(*ReturnStmt)
	if ret.Value.(*Literal).Value.(float64) != 1.0 {
		t.Fatalf("clone must be independent of later AST mutation")
	}
}

func Test_Parser_CloneCoversAllNodeKinds(t *testing.T) {
	src := `
var a[] = [1, "two", true, null];
func f(n) { if (n <= 1) { return n; } else { return f(n - 1); } }
loop(var i = 0; i < a.length; i = i + 1) {
	{ a[i] = -a[i]; }
	if (!a[0] && a[1] || false) { break; }
	print(a[i], f(2));
}
println "done";
x;
`
	program := parseProgram(t, src)
	clone := program.Clone()
	if len(clone.Stmts) != len(program.Stmts) {
		t.Fatalf("clone dropped statements: %d vs %d", len(clone.Stmts), len(program.Stmts))
	}
	// The clone must not share any statement nodes with the original.
	for i := range program.Stmts {
		if program.Stmts[i] == clone.Stmts[i] {
			t.Fatalf("statement %d is shared between clone and original", i)
		}
	}
}
