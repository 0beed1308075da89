// Package parser builds a statement tree from a lexer.Token stream.
// It does no symbol resolution and no operand-shape validation against a
// mnemonic table; that is the encoder's job once it knows what an
// instruction's operand positions mean.
package parser

import (
	"fmt"
	"strings"

	"sampo/lexer"
)

// OperandKind distinguishes the four operand shapes source text can name.
type OperandKind int

const (
	OperandRegister OperandKind = iota
	OperandImmediate
	OperandLabel
	OperandIndirect
)

// Operand is one instruction argument.
type Operand struct {
	Kind   OperandKind
	Reg    uint8  // OperandRegister, and the base register of OperandIndirect
	Imm    int32  // OperandImmediate, and the offset of OperandIndirect
	Label  string // OperandLabel
}

// DirectiveArgKind distinguishes the three argument shapes a directive can
// take.
type DirectiveArgKind int

const (
	ArgNumber DirectiveArgKind = iota
	ArgString
	ArgIdent
)

// DirectiveArg is one directive argument.
type DirectiveArg struct {
	Kind DirectiveArgKind
	Num  int32
	Str  string
}

// StatementKind distinguishes the three statement shapes a source line can
// produce.
type StatementKind int

const (
	StmtLabel StatementKind = iota
	StmtInstruction
	StmtDirective
)

// Statement is one parsed source line.
type Statement struct {
	Kind      StatementKind
	Line      int
	Label     string // StmtLabel only
	Mnemonic  string
	Operands  []Operand
	Directive string
	Args      []DirectiveArg
}

// Program is a fully parsed source file, ready for the encoder's two
// passes.
type Program struct {
	Statements []Statement
}

// Parser walks a flat token slice with a single lookahead position. It
// mirrors a classic recursive-descent shape: one method per grammar rule,
// no backtracking.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// New returns a Parser over toks, normally the output of lexer.Tokenize.
func New(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse tokenizes src with lexer.Tokenize and parses the tokens into a
// Program, or returns the first lexical or syntax error encountered.
func Parse(src string) (*Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return New(toks).Parse()
}

// Parse consumes the whole token stream and returns the resulting
// Program.
func (p *Parser) Parse() (*Program, error) {
	var prog Program
	for !p.atEnd() {
		p.skipNewlines()
		if p.atEnd() {
			break
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			prog.Statements = append(prog.Statements, *stmt)
		}
	}
	return &prog, nil
}

func (p *Parser) parseStatement() (*Statement, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.EOF:
		return nil, nil
	case lexer.Newline:
		p.advance()
		return nil, nil
	case lexer.Directive:
		name := tok.Text
		line := tok.Line
		p.advance()
		args, err := p.parseDirectiveArgs()
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: StmtDirective, Line: line, Directive: name, Args: args}, nil
	case lexer.Ident:
		name := tok.Text
		line := tok.Line
		p.advance()
		if p.check(lexer.Colon) {
			p.advance()
			return &Statement{Kind: StmtLabel, Line: line, Label: name}, nil
		}
		operands, err := p.parseOperands()
		if err != nil {
			return nil, err
		}
		return &Statement{Kind: StmtInstruction, Line: line, Mnemonic: strings.ToUpper(name), Operands: operands}, nil
	default:
		return nil, fmt.Errorf("line %d: unexpected token %v", tok.Line, tok.Kind)
	}
}

func (p *Parser) parseDirectiveArgs() ([]DirectiveArg, error) {
	var args []DirectiveArg
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.Newline, lexer.EOF:
			return args, nil
		case lexer.Number:
			args = append(args, DirectiveArg{Kind: ArgNumber, Num: tok.Int})
			p.advance()
		case lexer.StringLit:
			args = append(args, DirectiveArg{Kind: ArgString, Str: tok.Text})
			p.advance()
		case lexer.Ident:
			args = append(args, DirectiveArg{Kind: ArgIdent, Str: tok.Text})
			p.advance()
		case lexer.Comma:
			p.advance()
		default:
			return args, nil
		}
	}
}

func (p *Parser) parseOperands() ([]Operand, error) {
	var operands []Operand
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.Newline, lexer.EOF:
			return operands, nil
		case lexer.Comma:
			p.advance()
			continue
		case lexer.Register:
			reg := uint8(tok.Int)
			p.advance()
			operands = append(operands, Operand{Kind: OperandRegister, Reg: reg})
		case lexer.Number:
			n := tok.Int
			p.advance()
			if p.check(lexer.LParen) {
				p.advance()
				reg := p.peek()
				if reg.Kind != lexer.Register {
					return nil, fmt.Errorf("line %d: expected register in indirect operand", p.peek().Line)
				}
				p.advance()
				if err := p.expect(lexer.RParen); err != nil {
					return nil, err
				}
				operands = append(operands, Operand{Kind: OperandIndirect, Reg: uint8(reg.Int), Imm: n})
			} else {
				operands = append(operands, Operand{Kind: OperandImmediate, Imm: n})
			}
		case lexer.Ident:
			operands = append(operands, Operand{Kind: OperandLabel, Label: tok.Text})
			p.advance()
		case lexer.LParen:
			p.advance()
			reg := p.peek()
			if reg.Kind != lexer.Register {
				return nil, fmt.Errorf("line %d: expected register in indirect operand", p.peek().Line)
			}
			p.advance()
			var offset int32
			switch {
			case p.check(lexer.Plus):
				p.advance()
				if n := p.peek(); n.Kind == lexer.Number {
					offset = n.Int
					p.advance()
				}
			case p.check(lexer.Minus):
				p.advance()
				if n := p.peek(); n.Kind == lexer.Number {
					offset = -n.Int
					p.advance()
				}
			case p.check(lexer.Number):
				// the lexer already folds a leading '-' into the number
				// itself when there's no space before the digit, so
				// "(R6-2)" arrives here as Number(-2), not Minus, Number(2).
				offset = p.peek().Int
				p.advance()
			}
			if err := p.expect(lexer.RParen); err != nil {
				return nil, err
			}
			operands = append(operands, Operand{Kind: OperandIndirect, Reg: uint8(reg.Int), Imm: offset})
		case lexer.Minus:
			p.advance()
			n := p.peek()
			if n.Kind != lexer.Number {
				return nil, fmt.Errorf("line %d: expected number after minus", n.Line)
			}
			p.advance()
			operands = append(operands, Operand{Kind: OperandImmediate, Imm: -n.Int})
		default:
			return operands, nil
		}
	}
}

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == lexer.EOF
}

func (p *Parser) check(k lexer.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) expect(k lexer.Kind) error {
	if p.check(k) {
		p.advance()
		return nil
	}
	return fmt.Errorf("line %d: expected %v, got %v", p.peek().Line, k, p.peek().Kind)
}

func (p *Parser) skipNewlines() {
	for p.check(lexer.Newline) {
		p.advance()
	}
}
