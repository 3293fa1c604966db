package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeJSONStatements(t *testing.T) {
	input := `[
		{"type": "local",
		 "targets": [{"type": "ident", "name": "x"}],
		 "values": [{"type": "number", "value": 1}]},
		{"type": "set",
		 "targets": [{"type": "index",
			"target": {"type": "ident", "name": "t"},
			"key": {"type": "string", "value": "k"}}],
		 "values": [{"type": "infix", "op": "+",
			"left": {"type": "ident", "name": "x"},
			"right": {"type": "number", "value": 2}}]},
		{"type": "call",
		 "target": {"type": "ident", "name": "print"},
		 "args": [{"type": "string", "value": "hi"}]},
		{"type": "return", "values": [{"type": "nil"}]}
	]`
	block, err := DecodeJSON([]byte(input))
	require.Nil(t, err)
	require.Equal(t, &Block{Stmts: []Stmt{
		&Local{
			Targets: []Lhs{&Ident{Name: "x"}},
			Values:  []Expr{&Number{Value: 1}},
		},
		&Set{
			Targets: []Lhs{&Index{
				X:   &Ident{Name: "t"},
				Key: &String{Value: "k"},
			}},
			Values: []Expr{&Infix{
				X:  &Ident{Name: "x"},
				Op: "+",
				Y:  &Number{Value: 2},
			}},
		},
		&CallStmt{
			Target: &Ident{Name: "print"},
			Args:   []Expr{&String{Value: "hi"}},
		},
		&Return{Values: []Expr{&Nil{}}},
	}}, block)
}

func TestDecodeJSONControlFlow(t *testing.T) {
	input := `[
		{"type": "while",
		 "cond": {"type": "bool", "value": true},
		 "body": [{"type": "break"}]},
		{"type": "repeat",
		 "body": [{"type": "break"}],
		 "cond": {"type": "ident", "name": "done"}},
		{"type": "if",
		 "arms": [
			{"cond": {"type": "ident", "name": "a"}, "body": [{"type": "break"}]},
			{"cond": {"type": "ident", "name": "b"}, "body": []}
		 ],
		 "else": [{"type": "return", "values": []}]},
		{"type": "fornum",
		 "var": {"type": "ident", "name": "i"},
		 "start": {"type": "number", "value": 1},
		 "stop": {"type": "number", "value": 10},
		 "body": []}
	]`
	block, err := DecodeJSON([]byte(input))
	require.Nil(t, err)
	require.Len(t, block.Stmts, 4)

	loop, ok := block.Stmts[0].(*While)
	require.True(t, ok)
	require.Equal(t, &Bool{Value: true}, loop.Cond)
	require.Equal(t, []Stmt{&Break{}}, loop.Body.Stmts)

	until, ok := block.Stmts[1].(*Repeat)
	require.True(t, ok)
	require.Equal(t, &Ident{Name: "done"}, until.Cond)

	cond, ok := block.Stmts[2].(*If)
	require.True(t, ok)
	require.Len(t, cond.Arms, 2)
	require.Equal(t, &Ident{Name: "a"}, cond.Arms[0].Cond)
	require.NotNil(t, cond.Else)
	require.Equal(t, []Stmt{&Return{Values: []Expr{}}}, cond.Else.Stmts)

	forloop, ok := block.Stmts[3].(*Fornum)
	require.True(t, ok)
	require.Equal(t, &Ident{Name: "i"}, forloop.Var)
	require.Nil(t, forloop.Step)
}

func TestDecodeJSONFornumNullStep(t *testing.T) {
	// an explicit null step means the same as an absent one
	input := `[
		{"type": "fornum",
		 "var": {"type": "ident", "name": "i"},
		 "start": {"type": "number", "value": 1},
		 "stop": {"type": "number", "value": 10},
		 "step": null,
		 "body": []}
	]`
	block, err := DecodeJSON([]byte(input))
	require.Nil(t, err)
	forloop, ok := block.Stmts[0].(*Fornum)
	require.True(t, ok)
	require.Nil(t, forloop.Step)
}

func TestDecodeJSONFunctions(t *testing.T) {
	input := `[
		{"type": "localrec",
		 "name": {"type": "ident", "name": "f"},
		 "value": {"type": "function",
			"params": [{"type": "ident", "name": "n"}],
			"body": [
				{"type": "return", "values": [
					{"type": "call",
					 "fun": {"type": "ident", "name": "f"},
					 "args": [{"type": "ident", "name": "n"}]}
				]}
			]}}
	]`
	block, err := DecodeJSON([]byte(input))
	require.Nil(t, err)
	require.Len(t, block.Stmts, 1)

	rec, ok := block.Stmts[0].(*Localrec)
	require.True(t, ok)
	require.Equal(t, &Ident{Name: "f"}, rec.Name)

	fn, ok := rec.Value.(*Function)
	require.True(t, ok)
	require.Equal(t, []Lhs{&Ident{Name: "n"}}, fn.Params)
	require.Len(t, fn.Body.Stmts, 1)
}

func TestDecodeJSONTable(t *testing.T) {
	input := `[
		{"type": "local",
		 "targets": [{"type": "ident", "name": "t"}],
		 "values": [{"type": "table", "items": [
			{"type": "number", "value": 1},
			{"type": "pair",
			 "key": {"type": "string", "value": "k"},
			 "value": {"type": "bool", "value": false}}
		 ]}]}
	]`
	block, err := DecodeJSON([]byte(input))
	require.Nil(t, err)
	decl := block.Stmts[0].(*Local)
	require.Equal(t, &Table{Items: []Expr{
		&Number{Value: 1},
		&Pair{Key: &String{Value: "k"}, Value: &Bool{Value: false}},
	}}, decl.Values[0])
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "not an array",
			input: `{"type": "break"}`,
			want:  "decode ast",
		},
		{
			name:  "missing type",
			input: `[{"stmts": []}]`,
			want:  "missing a type",
		},
		{
			name:  "unknown statement",
			input: `[{"type": "switch"}]`,
			want:  `unknown statement type "switch"`,
		},
		{
			name: "unknown expression",
			input: `[{"type": "return",
				"values": [{"type": "lambda"}]}]`,
			want: `unknown expression type "lambda"`,
		},
		{
			name: "invalid assignment target",
			input: `[{"type": "set",
				"targets": [{"type": "number", "value": 1}],
				"values": [{"type": "number", "value": 2}]}]`,
			want: "not an assignable target",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := DecodeJSON([]byte(tt.input))
			require.Nil(t, block)
			require.NotNil(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeJSONRoundtripsThroughCompileShapes(t *testing.T) {
	// a decoded tree renders back to plausible source text
	input := `[
		{"type": "while",
		 "cond": {"type": "ident", "name": "c"},
		 "body": [{"type": "break"}]}
	]`
	block, err := DecodeJSON([]byte(input))
	require.Nil(t, err)
	require.Equal(t, "while c do\nbreak\nend", block.String())
}
