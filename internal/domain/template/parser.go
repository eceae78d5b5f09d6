package template

import (
	"fmt"
)

// operand is a reference or a string literal
type operand struct {
	literal bool
	value   string
}

type pipeline struct {
	operand
	filters []string
}

type expression struct {
	value       pipeline
	conditional bool
	then, els   pipeline
}

// program is a parsed template
type program struct {
	parts []part
}

type part struct {
	text string
	expr *expression
}

func compile(src string) (*program, error) {
	segs, err := split(src)
	if err != nil {
		return nil, err
	}

	prog := &program{parts: make([]part, 0, len(segs))}
	for _, seg := range segs {
		if !seg.isExpr {
			prog.parts = append(prog.parts, part{text: seg.text})
			continue
		}
		expr, err := parseExpression(seg.expr)
		if err != nil {
			return nil, err
		}
		prog.parts = append(prog.parts, part{expr: expr})
	}
	return prog, nil
}

func parseExpression(src string) (*expression, error) {
	if src == "" {
		return nil, fmt.Errorf("empty placeholder")
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &exprParser{toks: toks, src: src}
	expr := &expression{}
	if expr.value, err = p.pipeline(); err != nil {
		return nil, err
	}

	if p.accept(tokQuestion) {
		expr.conditional = true
		if expr.then, err = p.pipeline(); err != nil {
			return nil, err
		}
		if !p.accept(tokColon) {
			return nil, fmt.Errorf("expected ':' in conditional %q", src)
		}
		if expr.els, err = p.pipeline(); err != nil {
			return nil, err
		}
	}

	if !p.done() {
		return nil, fmt.Errorf("unexpected trailing input in %q", src)
	}
	return expr, nil
}

type exprParser struct {
	toks []token
	pos  int
	src  string
}

func (p *exprParser) done() bool {
	return p.pos >= len(p.toks)
}

func (p *exprParser) accept(kind tokenKind) bool {
	if !p.done() && p.toks[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *exprParser) pipeline() (pipeline, error) {
	var pl pipeline
	if p.done() {
		return pl, fmt.Errorf("missing operand in %q", p.src)
	}

	tok := p.toks[p.pos]
	switch tok.kind {
	case tokRef:
		pl.operand = operand{value: tok.value}
	case tokString:
		pl.operand = operand{literal: true, value: tok.value}
	default:
		return pl, fmt.Errorf("expected a reference or string in %q", p.src)
	}
	p.pos++

	for p.accept(tokPipe) {
		if p.done() || p.toks[p.pos].kind != tokRef {
			return pl, fmt.Errorf("expected filter name after '|' in %q", p.src)
		}
		name := p.toks[p.pos].value
		if _, ok := filters[name]; !ok {
			return pl, fmt.Errorf("unknown filter %q", name)
		}
		pl.filters = append(pl.filters, name)
		p.pos++
	}
	return pl, nil
}
