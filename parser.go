package minilang

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
)

// Parse parses one statement from bytes.
func Parse(data []byte, opt *ParseOptions) (Node, error) {
	return Decode(bytes.NewReader(data), opt)
}

// Decode parses one statement from reader.
func Decode(r io.Reader, opt *ParseOptions) (Node, error) {
	popt := opt.normalize()
	br := bufio.NewReader(r)
	if isBinarySource(br) {
		return nil, ErrBinarySource
	}

	p, err := NewParser(NewLexer(br, &popt), &popt)
	if err != nil {
		return nil, err
	}

	n, err := p.Parse()
	if err != nil {
		return nil, err
	}

	if !popt.DisableTrailingCheck {
		if err := p.expectEnd(); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// DecodeFile parses one statement from a file.
func DecodeFile(path string, opt *ParseOptions) (Node, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b, opt)
}

// Parser is a recursive-descent parser producing one statement per Parse call.
//
// Grammar, loosest to tightest:
//
//	statement   = ifStmt | assignment | expr
//	ifStmt      = "if" conditional "then" statement [ "else" statement ] [ ";" ]
//	assignment  = Name "=" expr ";"
//	conditional = expr [ "==" expr ]
//	expr        = term { ( "+" | "-" ) term }
//	term        = factor { ( "*" | "/" ) factor }
//	factor      = Number | Name | "(" expr ")"
type Parser struct {
	src TokenSource  // Token source, owned by the parser
	log *slog.Logger // Logger, never nil
	cur Token        // Current token
}

// NewParser creates a parser over src and reads the first token.
// A lexical error on the first token is returned as is.
func NewParser(src TokenSource, opt *ParseOptions) (*Parser, error) {
	popt := opt.normalize()
	p := &Parser{src: src, log: popt.logger().With(slog.String("component", "parser"))}
	if err := p.advance(); err != nil {
		return nil, err
	}

	p.log.Debug("parser initialized", slog.String("first", p.cur.Type.String()))
	return p, nil
}

// Parse parses one statement and returns its root node.
// On failure no partial tree is returned.
func (p *Parser) Parse() (Node, error) {
	n, err := p.statement()
	if err != nil {
		p.log.Debug("parse failed", slog.Any("error", err))
		return nil, err
	}

	p.log.Debug("parse complete", slog.String("root", n.Kind().String()))
	return n, nil
}

// statement parses an if-statement, an assignment or a bare expression.
func (p *Parser) statement() (Node, error) {
	switch p.cur.Type {
	case TokenIf:
		return p.ifStatement()
	case TokenName:
		// The only lookahead in the grammar: Name "=" starts an assignment.
		next, err := p.src.LookAhead()
		if err != nil {
			return nil, err
		}
		if next.Type == TokenEquals {
			p.log.Debug("assignment statement", slog.String("target", p.cur.Lit))
			return p.assignment()
		}
	}

	return p.expr()
}

// ifStatement parses if/then/else. The trailing semicolon is optional.
func (p *Parser) ifStatement() (Node, error) {
	if _, err := p.eat(TokenIf); err != nil {
		return nil, err
	}

	cond, err := p.conditional()
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(TokenThen); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}

	var elseBranch Node
	if p.cur.Type == TokenElse {
		if err := p.advance(); err != nil {
			return nil, err
		}

		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}

	if p.cur.Type == TokenSemicolon {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return &If{Cond: cond, Then: thenBranch, Else: elseBranch}, nil
}

// assignment parses Name "=" expr ";".
func (p *Parser) assignment() (Node, error) {
	nameTok, err := p.eat(TokenName)
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(TokenEquals); err != nil {
		return nil, err
	}

	val, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(TokenSemicolon); err != nil {
		return nil, err
	}

	return &Assignment{Target: &Name{Ident: nameTok.Lit}, Value: val}, nil
}

// conditional parses expr with at most one "==".
func (p *Parser) conditional() (Node, error) {
	left, err := p.expr()
	if err != nil {
		return nil, err
	}

	if p.cur.Type != TokenEqualsEquals {
		return left, nil
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	right, err := p.expr()
	if err != nil {
		return nil, err
	}

	return &Conditional{Left: left, Right: right}, nil
}

// expr parses terms joined by + and -, left-associative.
func (p *Parser) expr() (Node, error) {
	node, err := p.term()
	if err != nil {
		return nil, err
	}

	for p.cur.Type == TokenPlus || p.cur.Type == TokenMinus {
		op := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.term()
		if err != nil {
			return nil, err
		}

		node = &BinaryOp{Left: node, Op: operatorOf(op.Type), Right: right}
	}

	return node, nil
}

// term parses factors joined by * and /, left-associative.
func (p *Parser) term() (Node, error) {
	node, err := p.factor()
	if err != nil {
		return nil, err
	}

	for p.cur.Type == TokenMultiply || p.cur.Type == TokenDivide {
		op := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.factor()
		if err != nil {
			return nil, err
		}

		node = &BinaryOp{Left: node, Op: operatorOf(op.Type), Right: right}
	}

	return node, nil
}

// factor parses a number, a name or a parenthesized expression.
func (p *Parser) factor() (Node, error) {
	tok := p.cur
	switch tok.Type {
	case TokenNumber:
		// Literals beyond float64 range parse as +Inf.
		f, err := strconv.ParseFloat(tok.Lit, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, &InvalidFactorError{Token: tok}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Number{Value: f}, nil

	case TokenName:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Name{Ident: tok.Lit}, nil

	case TokenLeftParen:
		if err := p.advance(); err != nil {
			return nil, err
		}

		node, err := p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.eat(TokenRightParen); err != nil {
			return nil, err
		}
		return node, nil

	default:
		return nil, &InvalidFactorError{Token: tok}
	}
}

// advance replaces the current token with the next one from the source.
func (p *Parser) advance() error {
	tok, err := p.src.NextToken()
	if err != nil {
		return err
	}

	p.cur = tok
	return nil
}

// eat consumes the current token if it has type tt.
func (p *Parser) eat(tt TokenType) (Token, error) {
	tok := p.cur
	if tok.Type != tt {
		return tok, &UnexpectedTokenError{Got: tok, Expected: tt}
	}

	if err := p.advance(); err != nil {
		return tok, err
	}

	return tok, nil
}

// expectEnd checks that the whole input was consumed.
func (p *Parser) expectEnd() error {
	if p.cur.Type != TokenEOF {
		return &UnexpectedTokenError{Got: p.cur, Expected: TokenEOF}
	}

	return nil
}

// operatorOf maps an operator token type to its symbol.
func operatorOf(tt TokenType) Operator {
	switch tt {
	case TokenPlus:
		return OpAdd
	case TokenMinus:
		return OpSub
	case TokenMultiply:
		return OpMul
	case TokenDivide:
		return OpDiv
	default:
		return OpEq
	}
}

// isBinarySource checks if the input looks binary.
func isBinarySource(r *bufio.Reader) bool {
	// Binary files contain zero bytes early; source text does not.
	peek, err := r.Peek(4096)
	if err != nil && len(peek) == 0 {
		return false
	}

	for _, b := range peek {
		if b == 0x00 {
			return true
		}
	}

	return false
}
