package lambda

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrSyntax is returned for malformed source text.
var ErrSyntax = errors.New("syntax error")

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenColon
	TokenEqual
	TokenSemicolon
	TokenLParen
	TokenRParen
	TokenLet
	TokenIn
	TokenLambda
	TokenDot
)

var punctuation = map[byte]TokenType{
	':':  TokenColon,
	'=':  TokenEqual,
	';':  TokenSemicolon,
	'(':  TokenLParen,
	')':  TokenRParen,
	'.':  TokenDot,
	'\\': TokenLambda,
}

type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Literal)
}

// Parser reads terms written either as `x: body` or as `λx.body` (`\x.body`).
// Abstraction bodies extend as far right as possible and application is
// left associative.
type Parser struct {
	input   string
	pos     int
	current Token
	err     error
}

func NewParser(input string) *Parser {
	p := &Parser{input: input}
	p.next()
	return p
}

func (p *Parser) next() {
	p.skipWhitespace()
	start := p.pos
	if p.pos >= len(p.input) {
		p.current = Token{Type: TokenEOF, Pos: start}
		return
	}

	ch := p.input[p.pos]
	switch {
	case isLetter(ch):
		for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
			p.pos++
		}
		lit := p.input[start:p.pos]
		switch lit {
		case "let":
			p.current = Token{Type: TokenLet, Literal: lit, Pos: start}
		case "in":
			p.current = Token{Type: TokenIn, Literal: lit, Pos: start}
		default:
			p.current = Token{Type: TokenIdent, Literal: lit, Pos: start}
		}
		return
	case strings.HasPrefix(p.input[p.pos:], "λ"):
		p.pos += len("λ")
		p.current = Token{Type: TokenLambda, Literal: "λ", Pos: start}
		return
	}

	if typ, ok := punctuation[ch]; ok {
		p.current = Token{Type: typ, Literal: string(ch), Pos: start}
		p.pos++
		return
	}

	r, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += size
	p.current = Token{Type: TokenEOF, Pos: start}
	p.fail(start, "unexpected character %q", r)
}

func (p *Parser) fail(pos int, format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("%w at offset %d: %s", ErrSyntax, pos, fmt.Sprintf(format, args...))
	}
}

func (p *Parser) skipWhitespace() {
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch {
		case unicode.IsSpace(rune(ch)):
			p.pos++
		case ch == '#':
			for p.pos < len(p.input) && p.input[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '\''
}

// Parse parses one term and requires the input to end after it.
func (p *Parser) Parse() (Term, error) {
	term, err := p.parseTerm()
	if err == nil && p.err == nil && p.current.Type != TokenEOF {
		p.fail(p.current.Pos, "unexpected %s", p.current)
	}
	if p.err != nil {
		return nil, p.err
	}
	return term, err
}

// Term ::= Let | Lambda | Ident ':' Term | App
func (p *Parser) parseTerm() (Term, error) {
	switch p.current.Type {
	case TokenLet:
		return p.parseLet()
	case TokenLambda:
		return p.parseLambda()
	}
	if arg, ok := p.colonBinder(); ok {
		body, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return Abs{Arg: arg, Body: body}, nil
	}
	return p.parseApp()
}

// colonBinder consumes `x:` if the input continues that way and leaves the
// parser untouched otherwise.
func (p *Parser) colonBinder() (string, bool) {
	if p.current.Type != TokenIdent {
		return "", false
	}
	savePos := p.pos
	saveTok := p.current
	p.next()
	if p.current.Type == TokenColon {
		p.next()
		return saveTok.Literal, true
	}
	p.pos = savePos
	p.current = saveTok
	return "", false
}

// Lambda ::= ('λ' | '\') Ident+ '.' Term
func (p *Parser) parseLambda() (Term, error) {
	p.next()
	var args []string
	for p.current.Type == TokenIdent {
		args = append(args, p.current.Literal)
		p.next()
	}
	if len(args) == 0 {
		return nil, p.errorf("expected binder after λ, got %s", p.current)
	}
	if p.current.Type != TokenDot {
		return nil, p.errorf("expected '.', got %s", p.current)
	}
	p.next()
	body, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for i := len(args) - 1; i >= 0; i-- {
		body = Abs{Arg: args[i], Body: body}
	}
	return body, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	p.fail(p.current.Pos, format, args...)
	return p.err
}

func (p *Parser) parseApp() (Term, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch p.current.Type {
		case TokenEOF, TokenRParen, TokenSemicolon, TokenIn:
			return left, nil
		case TokenLambda, TokenLet:
			// an abstraction or let in argument position takes the rest
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			return App{Fun: left, Arg: right}, nil
		}
		if arg, ok := p.colonBinder(); ok {
			body, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			return App{Fun: left, Arg: Abs{Arg: arg, Body: body}}, nil
		}

		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = App{Fun: left, Arg: right}
	}
}

func (p *Parser) parseAtom() (Term, error) {
	if p.err != nil {
		return nil, p.err
	}
	switch p.current.Type {
	case TokenIdent:
		name := p.current.Literal
		p.next()
		return Var{Name: name}, nil
	case TokenLParen:
		p.next()
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if p.current.Type != TokenRParen {
			return nil, p.errorf("expected ')', got %s", p.current)
		}
		p.next()
		return term, nil
	default:
		return nil, p.errorf("unexpected %s", p.current)
	}
}

// Let ::= 'let' (Ident '=' Term ';')+ 'in' Term
// The final ';' before 'in' may be omitted.
func (p *Parser) parseLet() (Term, error) {
	p.next() // consume 'let'

	type binding struct {
		name string
		val  Term
	}
	var bindings []binding

	for {
		if p.current.Type != TokenIdent {
			return nil, p.errorf("expected identifier in let binding, got %s", p.current)
		}
		name := p.current.Literal
		p.next()

		if p.current.Type != TokenEqual {
			return nil, p.errorf("expected '=', got %s", p.current)
		}
		p.next()

		val, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, binding{name, val})

		if p.current.Type == TokenSemicolon {
			p.next()
			if p.current.Type == TokenIn {
				p.next()
				break
			}
			continue
		}
		if p.current.Type == TokenIn {
			p.next()
			break
		}
		return nil, p.errorf("expected ';' or 'in', got %s", p.current)
	}

	body, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	term := body
	for i := len(bindings) - 1; i >= 0; i-- {
		term = Let{Name: bindings[i].name, Val: bindings[i].val, Body: term}
	}
	return term, nil
}

// Parse parses a lambda term from a string.
func Parse(input string) (Term, error) {
	p := NewParser(input)
	return p.Parse()
}
