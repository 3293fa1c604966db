package ast

import (
	"encoding/json"
	"fmt"
)

// DecodeJSON decodes a JSON-encoded syntax tree into a Block. The top level
// value is an array of statement objects; every node is an object carrying a
// "type" field. This is the transport format emitted by the external parser.
func DecodeJSON(data []byte) (*Block, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode ast: %w", err)
	}
	return decodeBlockList(raw)
}

func decodeBlockList(raw []json.RawMessage) (*Block, error) {
	stmts := make([]Stmt, 0, len(raw))
	for _, r := range raw {
		stmt, err := decodeStmt(r)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &Block{Stmts: stmts}, nil
}

func nodeType(raw json.RawMessage) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", fmt.Errorf("decode ast: %w", err)
	}
	if head.Type == "" {
		return "", fmt.Errorf("decode ast: node is missing a type")
	}
	return head.Type, nil
}

func decodeStmt(raw json.RawMessage) (Stmt, error) {
	typ, err := nodeType(raw)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "do":
		var v struct {
			Stmts []json.RawMessage `json:"stmts"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		blk, err := decodeBlockList(v.Stmts)
		if err != nil {
			return nil, err
		}
		return &Do{Stmts: blk.Stmts}, nil
	case "set", "local":
		var v struct {
			Targets []json.RawMessage `json:"targets"`
			Values  []json.RawMessage `json:"values"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		targets, err := decodeLhsList(v.Targets)
		if err != nil {
			return nil, err
		}
		values, err := decodeExprList(v.Values)
		if err != nil {
			return nil, err
		}
		if typ == "set" {
			return &Set{Targets: targets, Values: values}, nil
		}
		return &Local{Targets: targets, Values: values}, nil
	case "localrec":
		var v struct {
			Name  json.RawMessage `json:"name"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		name, err := decodeLhs(v.Name)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return &Localrec{Name: name, Value: value}, nil
	case "while":
		var v struct {
			Cond json.RawMessage   `json:"cond"`
			Body []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		cond, err := decodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlockList(v.Body)
		if err != nil {
			return nil, err
		}
		return &While{Cond: cond, Body: body}, nil
	case "repeat":
		var v struct {
			Body []json.RawMessage `json:"body"`
			Cond json.RawMessage   `json:"cond"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		body, err := decodeBlockList(v.Body)
		if err != nil {
			return nil, err
		}
		cond, err := decodeExpr(v.Cond)
		if err != nil {
			return nil, err
		}
		return &Repeat{Body: body, Cond: cond}, nil
	case "if":
		var v struct {
			Arms []struct {
				Cond json.RawMessage   `json:"cond"`
				Body []json.RawMessage `json:"body"`
			} `json:"arms"`
			Else []json.RawMessage `json:"else"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		stmt := &If{}
		for _, arm := range v.Arms {
			cond, err := decodeExpr(arm.Cond)
			if err != nil {
				return nil, err
			}
			body, err := decodeBlockList(arm.Body)
			if err != nil {
				return nil, err
			}
			stmt.Arms = append(stmt.Arms, IfArm{Cond: cond, Body: body})
		}
		if v.Else != nil {
			blk, err := decodeBlockList(v.Else)
			if err != nil {
				return nil, err
			}
			stmt.Else = blk
		}
		return stmt, nil
	case "fornum":
		var v struct {
			Var   json.RawMessage   `json:"var"`
			Start json.RawMessage   `json:"start"`
			Stop  json.RawMessage   `json:"stop"`
			Step  json.RawMessage   `json:"step"`
			Body  []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		loopVar, err := decodeLhs(v.Var)
		if err != nil {
			return nil, err
		}
		start, err := decodeExpr(v.Start)
		if err != nil {
			return nil, err
		}
		stop, err := decodeExpr(v.Stop)
		if err != nil {
			return nil, err
		}
		var step Expr
		if len(v.Step) > 0 && string(v.Step) != "null" {
			if step, err = decodeExpr(v.Step); err != nil {
				return nil, err
			}
		}
		body, err := decodeBlockList(v.Body)
		if err != nil {
			return nil, err
		}
		return &Fornum{Var: loopVar, Start: start, Stop: stop, Step: step, Body: body}, nil
	case "forin":
		var v struct {
			Names []json.RawMessage `json:"names"`
			Exprs []json.RawMessage `json:"exprs"`
			Body  []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		names, err := decodeLhsList(v.Names)
		if err != nil {
			return nil, err
		}
		exprs, err := decodeExprList(v.Exprs)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlockList(v.Body)
		if err != nil {
			return nil, err
		}
		return &Forin{Names: names, Exprs: exprs, Body: body}, nil
	case "goto":
		var v struct {
			Label string `json:"label"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &Goto{Label: v.Label}, nil
	case "label":
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &Label{Name: v.Name}, nil
	case "return":
		var v struct {
			Values []json.RawMessage `json:"values"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		values, err := decodeExprList(v.Values)
		if err != nil {
			return nil, err
		}
		return &Return{Values: values}, nil
	case "break":
		return &Break{}, nil
	case "call":
		var v struct {
			Target json.RawMessage   `json:"target"`
			Args   []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		target, err := decodeExpr(v.Target)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprList(v.Args)
		if err != nil {
			return nil, err
		}
		return &CallStmt{Target: target, Args: args}, nil
	}
	return nil, fmt.Errorf("decode ast: unknown statement type %q", typ)
}

func decodeExpr(raw json.RawMessage) (Expr, error) {
	typ, err := nodeType(raw)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "nil":
		return &Nil{}, nil
	case "dots":
		return &Dots{}, nil
	case "bool":
		var v struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &Bool{Value: v.Value}, nil
	case "number":
		var v struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &Number{Value: v.Value}, nil
	case "string":
		var v struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &String{Value: v.Value}, nil
	case "ident":
		var v struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return &Ident{Name: v.Name}, nil
	case "infix":
		var v struct {
			Op    string          `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		left, err := decodeExpr(v.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(v.Right)
		if err != nil {
			return nil, err
		}
		return &Infix{X: left, Op: v.Op, Y: right}, nil
	case "prefix":
		var v struct {
			Op    string          `json:"op"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		x, err := decodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return &Prefix{Op: v.Op, X: x}, nil
	case "function":
		var v struct {
			Params []json.RawMessage `json:"params"`
			Body   []json.RawMessage `json:"body"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		params, err := decodeLhsList(v.Params)
		if err != nil {
			return nil, err
		}
		body, err := decodeBlockList(v.Body)
		if err != nil {
			return nil, err
		}
		return &Function{Params: params, Body: body}, nil
	case "table":
		var v struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		items, err := decodeExprList(v.Items)
		if err != nil {
			return nil, err
		}
		return &Table{Items: items}, nil
	case "pair":
		var v struct {
			Key   json.RawMessage `json:"key"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		key, err := decodeExpr(v.Key)
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(v.Value)
		if err != nil {
			return nil, err
		}
		return &Pair{Key: key, Value: value}, nil
	case "call":
		var v struct {
			Fun  json.RawMessage   `json:"fun"`
			Args []json.RawMessage `json:"args"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		fun, err := decodeExpr(v.Fun)
		if err != nil {
			return nil, err
		}
		args, err := decodeExprList(v.Args)
		if err != nil {
			return nil, err
		}
		return &Call{Fun: fun, Args: args}, nil
	case "index":
		var v struct {
			Target json.RawMessage `json:"target"`
			Key    json.RawMessage `json:"key"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		target, err := decodeExpr(v.Target)
		if err != nil {
			return nil, err
		}
		key, err := decodeExpr(v.Key)
		if err != nil {
			return nil, err
		}
		return &Index{X: target, Key: key}, nil
	}
	return nil, fmt.Errorf("decode ast: unknown expression type %q", typ)
}

func decodeLhs(raw json.RawMessage) (Lhs, error) {
	expr, err := decodeExpr(raw)
	if err != nil {
		return nil, err
	}
	lhs, ok := expr.(Lhs)
	if !ok {
		return nil, fmt.Errorf("decode ast: %T is not an assignable target", expr)
	}
	return lhs, nil
}

func decodeExprList(raw []json.RawMessage) ([]Expr, error) {
	exprs := make([]Expr, 0, len(raw))
	for _, r := range raw {
		e, err := decodeExpr(r)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func decodeLhsList(raw []json.RawMessage) ([]Lhs, error) {
	targets := make([]Lhs, 0, len(raw))
	for _, r := range raw {
		l, err := decodeLhs(r)
		if err != nil {
			return nil, err
		}
		targets = append(targets, l)
	}
	return targets, nil
}
