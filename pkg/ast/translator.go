// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package ast

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/consensys/go-regc/pkg/util/source"
	"github.com/consensys/go-regc/pkg/util/source/sexp"
)

var keywords = map[string]bool{
	"defun": true, "let": true, "set": true, "if": true, "while": true, "do": true, "fn": true, "not": true,
}

// IsKeyword determines whether the given symbol is reserved by the language
// (i.e. is a keyword or a built-in operator) and cannot be used as a name.
func IsKeyword(symbol string) bool {
	_, isOperator := LookupOperator(symbol)
	return keywords[symbol] || isOperator
}

// Parse a given source file into zero or more top-level function declarations.
// A source map is returned which identifies the originating span of every node
// constructed.  If the file is malformed, one or more syntax errors are
// returned instead.
func Parse(srcfile *source.File) ([]*Function, *source.Map[Node], []source.SyntaxError) {
	terms, srcmap, err := sexp.ParseAll(srcfile)
	//
	if err != nil {
		return nil, nil, []source.SyntaxError{*err}
	}
	//
	t := translator{srcmap, source.NewSourceMap[Node](srcfile), nil}
	functions := make([]*Function, 0, len(terms))
	//
	for _, term := range terms {
		if fn := t.translateFunction(term); fn != nil {
			functions = append(functions, fn)
		}
	}
	//
	if len(t.errors) > 0 {
		return nil, nil, t.errors
	}
	//
	return functions, t.nodes, nil
}

// translator converts S-Expressions into syntax tree nodes, whilst recording
// their spans and accumulating any errors encountered.
type translator struct {
	srcmap *source.Map[sexp.SExp]
	nodes  *source.Map[Node]
	errors []source.SyntaxError
}

func (p *translator) translateFunction(term sexp.SExp) *Function {
	list := term.AsList()
	//
	if list == nil || !list.MatchSymbols(1, "defun") {
		p.error(term, "expected function declaration (defun name (params...) body...)")
		return nil
	} else if list.Len() < 4 {
		p.error(term, "function declaration requires name, parameters and body")
		return nil
	}
	//
	name, nameOk := p.translateName(list.Get(1))
	params, paramsOk := p.translateParams(list.Get(2))
	body := p.translateExprs(list.Elements[3:])
	//
	if !nameOk || !paramsOk || body == nil {
		return nil
	}
	//
	return register(p, term, NewFunction(name, params, body...))
}

func (p *translator) translateName(term sexp.SExp) (string, bool) {
	symbol := term.AsSymbol()
	//
	if symbol == nil {
		p.error(term, "expected name")
		return "", false
	} else if IsKeyword(symbol.Value) {
		p.error(term, fmt.Sprintf("reserved word \"%s\" cannot be used as a name", symbol.Value))
		return "", false
	} else if isNumeric(symbol.Value) {
		p.error(term, fmt.Sprintf("invalid name \"%s\"", symbol.Value))
		return "", false
	}
	//
	return symbol.Value, true
}

func (p *translator) translateParams(term sexp.SExp) ([]string, bool) {
	var (
		list   = term.AsList()
		params []string
		ok     = true
		seen   = make(map[string]bool)
	)
	//
	if list == nil {
		p.error(term, "expected parameter list")
		return nil, false
	}
	//
	for _, e := range list.Elements {
		if name, nameOk := p.translateName(e); !nameOk {
			ok = false
		} else if seen[name] {
			p.error(e, fmt.Sprintf("duplicate parameter \"%s\"", name))
			ok = false
		} else {
			seen[name] = true
			params = append(params, name)
		}
	}
	//
	return params, ok
}

// Translate a non-empty sequence of expressions, returning nil if any of them
// failed to translate.
func (p *translator) translateExprs(terms []sexp.SExp) []Expr {
	var (
		exprs = make([]Expr, len(terms))
		ok    = true
	)
	//
	for i, t := range terms {
		exprs[i] = p.translateExpr(t)
		ok = ok && exprs[i] != nil
	}
	//
	if !ok {
		return nil
	}
	//
	return exprs
}

func (p *translator) translateExpr(term sexp.SExp) Expr {
	if symbol := term.AsSymbol(); symbol != nil {
		return p.translateSymbol(symbol)
	}
	//
	list := term.AsList()
	//
	if list.Len() == 0 {
		p.error(term, "empty expression")
		return nil
	}
	//
	switch head := list.Head(); head {
	case "let":
		return p.translateLet(list)
	case "set":
		return p.translateAssign(list)
	case "if":
		return p.translateIf(list)
	case "while":
		return p.translateWhile(list)
	case "do":
		return p.translateBlock(list)
	case "fn":
		return p.translateLambda(list)
	case "not":
		return p.translateNot(list)
	case "defun":
		p.error(term, "function declarations are only permitted at the top level")
		return nil
	default:
		if op, ok := LookupOperator(head); ok {
			return p.translateBinary(op, list)
		}
		//
		return p.translateCall(list)
	}
}

func (p *translator) translateSymbol(symbol *sexp.Symbol) Expr {
	if isNumeric(symbol.Value) {
		value, err := strconv.ParseInt(symbol.Value, 0, 64)
		//
		if err != nil {
			p.error(symbol, fmt.Sprintf("invalid integer literal \"%s\"", symbol.Value))
			return nil
		}
		//
		return register(p, symbol, &Const{value})
	} else if IsKeyword(symbol.Value) {
		p.error(symbol, fmt.Sprintf("unexpected keyword \"%s\"", symbol.Value))
		return nil
	}
	//
	return register(p, symbol, &Var{symbol.Value})
}

func (p *translator) translateLet(list *sexp.List) Expr {
	if list.Len() < 3 || list.Get(1).AsList() == nil {
		p.error(list, "expected (let ((name expr)...) body...)")
		return nil
	}
	//
	var (
		bindings []Binding
		ok       = true
	)
	//
	for _, b := range list.Get(1).AsList().Elements {
		pair := b.AsList()
		//
		if pair == nil || pair.Len() != 2 {
			p.error(b, "expected binding (name expr)")
			ok = false
			//
			continue
		}
		//
		name, nameOk := p.translateName(pair.Get(0))
		value := p.translateExpr(pair.Get(1))
		//
		if nameOk && value != nil {
			bindings = append(bindings, Binding{name, value})
		} else {
			ok = false
		}
	}
	//
	body := p.translateExprs(list.Elements[2:])
	//
	if !ok || body == nil {
		return nil
	}
	//
	return register(p, list, &Let{bindings, body})
}

func (p *translator) translateAssign(list *sexp.List) Expr {
	if list.Len() != 3 {
		p.error(list, "expected (set name expr)")
		return nil
	}
	//
	name, ok := p.translateName(list.Get(1))
	value := p.translateExpr(list.Get(2))
	//
	if !ok || value == nil {
		return nil
	}
	//
	return register(p, list, &Assign{name, value})
}

func (p *translator) translateIf(list *sexp.List) Expr {
	if list.Len() != 3 && list.Len() != 4 {
		p.error(list, "expected (if cond then [else])")
		return nil
	}
	//
	exprs := p.translateExprs(list.Elements[1:])
	//
	if exprs == nil {
		return nil
	} else if len(exprs) == 2 {
		return register(p, list, &If{exprs[0], exprs[1], nil})
	}
	//
	return register(p, list, &If{exprs[0], exprs[1], exprs[2]})
}

func (p *translator) translateWhile(list *sexp.List) Expr {
	if list.Len() < 2 {
		p.error(list, "expected (while cond body...)")
		return nil
	}
	//
	exprs := p.translateExprs(list.Elements[1:])
	//
	if exprs == nil {
		return nil
	}
	//
	return register(p, list, &While{exprs[0], exprs[1:]})
}

func (p *translator) translateBlock(list *sexp.List) Expr {
	if list.Len() < 2 {
		p.error(list, "expected (do expr...)")
		return nil
	}
	//
	body := p.translateExprs(list.Elements[1:])
	//
	if body == nil {
		return nil
	}
	//
	return register(p, list, &Block{body})
}

func (p *translator) translateLambda(list *sexp.List) Expr {
	if list.Len() < 3 {
		p.error(list, "expected (fn (params...) body...)")
		return nil
	}
	//
	params, ok := p.translateParams(list.Get(1))
	body := p.translateExprs(list.Elements[2:])
	//
	if !ok || body == nil {
		return nil
	}
	//
	return register(p, list, &Lambda{params, body})
}

func (p *translator) translateNot(list *sexp.List) Expr {
	if list.Len() != 2 {
		p.error(list, "expected (not expr)")
		return nil
	}
	//
	arg := p.translateExpr(list.Get(1))
	//
	if arg == nil {
		return nil
	}
	//
	return register(p, list, &Not{arg})
}

func (p *translator) translateBinary(op Operator, list *sexp.List) Expr {
	if op.IsComparison() && list.Len() != 3 {
		p.error(list, fmt.Sprintf("operator %s requires exactly two arguments", op))
		return nil
	} else if list.Len() < 3 {
		p.error(list, fmt.Sprintf("operator %s requires at least two arguments", op))
		return nil
	}
	//
	args := p.translateExprs(list.Elements[1:])
	//
	if args == nil {
		return nil
	}
	//
	return register(p, list, &Binary{op, args})
}

func (p *translator) translateCall(list *sexp.List) Expr {
	exprs := p.translateExprs(list.Elements)
	//
	if exprs == nil {
		return nil
	}
	//
	return register(p, list, &Call{exprs[0], exprs[1:]})
}

func (p *translator) error(term sexp.SExp, msg string) {
	p.errors = append(p.errors, *p.srcmap.SyntaxError(term, msg))
}

// Record the span of a newly constructed node, using the span of the term from
// which it was translated.
func register[T Node](p *translator, term sexp.SExp, node T) T {
	p.nodes.Put(node, p.srcmap.Get(term))
	return node
}

// Determine whether a symbol is intended as an integer literal.
func isNumeric(symbol string) bool {
	if len(symbol) > 1 && (symbol[0] == '-' || symbol[0] == '+') {
		symbol = symbol[1:]
	}
	//
	return len(symbol) > 0 && unicode.IsDigit(rune(symbol[0]))
}
