package minilang

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
)

// Lexer turns source text into tokens on demand.
// It implements TokenSource with a single buffered lookahead token.
type Lexer struct {
	r   *bufio.Reader // Reader for the input
	log *slog.Logger  // Logger, never nil
	buf Token         // Buffered lookahead token
	pos position      // Position of the current character
	opt ParseOptions  // Options for the lexer
	ch  rune          // Current character
	has bool          // Has buffered token
	eof bool          // End of input
}

// position represents a position in the input.
type position struct {
	line int // Line number
	col  int // Column number
}

// NewLexer creates a new lexer reading source text from r.
func NewLexer(r io.Reader, opt *ParseOptions) *Lexer {
	popt := opt.normalize()
	l := &Lexer{
		r:   bufio.NewReader(r),
		opt: popt,
		pos: position{line: 1, col: 0},
		log: popt.logger().With(slog.String("component", "lexer")),
	}
	l.read()
	if l.ch == 0xFEFF {
		// Skip UTF-8 BOM if present.
		l.read()
	}

	return l
}

// Tokenize returns all tokens of data, ending with the EOF token.
func Tokenize(data []byte, opt *ParseOptions) ([]Token, error) {
	if isBinarySource(bufio.NewReader(bytes.NewReader(data))) {
		return nil, ErrBinarySource
	}

	l := NewLexer(bytes.NewReader(data), opt)
	var out []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}

		out = append(out, tok)
		if tok.Type == TokenEOF {
			return out, nil
		}
	}
}

// NextToken returns the next token, consuming the buffered lookahead first.
func (l *Lexer) NextToken() (Token, error) {
	if l.has {
		l.has = false
		return l.buf, nil
	}

	return l.scan()
}

// LookAhead returns the next token without consuming it.
func (l *Lexer) LookAhead() (Token, error) {
	if l.has {
		return l.buf, nil
	}

	tok, err := l.scan()
	if err != nil {
		return tok, err
	}

	l.buf = tok
	l.has = true
	return tok, nil
}

// scan reads one token from the input.
func (l *Lexer) scan() (Token, error) {
	if err := l.skipWhitespace(); err != nil {
		return Token{}, err
	}
	if l.eof {
		return Token{Type: TokenEOF, Line: l.pos.line, Col: l.pos.col}, nil
	}

	startLine, startCol := l.pos.line, l.pos.col
	single := func(tt TokenType) (Token, error) {
		lit := string(l.ch)
		l.read()
		return Token{Type: tt, Lit: lit, Line: startLine, Col: startCol}, nil
	}

	switch l.ch {
	case '+':
		return single(TokenPlus)
	case '-':
		return single(TokenMinus)
	case '*':
		return single(TokenMultiply)
	case '/':
		return single(TokenDivide)
	case '(':
		return single(TokenLeftParen)
	case ')':
		return single(TokenRightParen)
	case ';':
		return single(TokenSemicolon)
	case '=':
		if l.peek() == '=' {
			l.read()
			l.read()
			return Token{Type: TokenEqualsEquals, Lit: "==", Line: startLine, Col: startCol}, nil
		}
		return single(TokenEquals)

	default:
		if isIdentStart(l.ch) {
			lit := l.readIdent()
			if tt, ok := keywords[lit]; ok {
				return Token{Type: tt, Lit: lit, Line: startLine, Col: startCol}, nil
			}

			return Token{Type: TokenName, Lit: lit, Line: startLine, Col: startCol}, nil
		}

		if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peek())) {
			lit, err := l.readNumber()
			return Token{Type: TokenNumber, Lit: lit, Line: startLine, Col: startCol}, err
		}

		return Token{}, l.errorf("unexpected character %q", l.ch)
	}
}

// read reads the next character from the input.
func (l *Lexer) read() {
	ch, _, err := l.r.ReadRune()
	if err != nil {
		l.eof = true
		l.ch = 0
		return
	}

	if ch == '\n' {
		l.pos.line++
		l.pos.col = 0
	} else {
		l.pos.col++
	}

	l.ch = ch
}

// peek returns the character after the current one without consuming it.
func (l *Lexer) peek() rune {
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0
	}

	_ = l.r.UnreadRune()
	return ch
}

// skipWhitespace skips whitespace and comments.
func (l *Lexer) skipWhitespace() error {
	for {
		for unicode.IsSpace(l.ch) {
			l.read()
			if l.eof {
				return nil
			}
		}

		if !l.opt.DisableComments && l.ch == '/' {
			next := l.peek()
			if next == '/' {
				l.read()
				l.read()
				for l.ch != '\n' && !l.eof {
					l.read()
				}
				continue
			}

			if next == '*' {
				line, col := l.pos.line, l.pos.col
				l.read()
				l.read()
				for {
					if l.eof {
						return fmt.Errorf("%w at %d:%d: unterminated comment", ErrLex, line, col)
					}
					if l.ch == '*' && l.peek() == '/' {
						l.read()
						l.read()
						break
					}
					l.read()
				}
				continue
			}
		}

		return nil
	}
}

// readIdent reads an identifier.
func (l *Lexer) readIdent() string {
	var b strings.Builder
	for isIdentPart(l.ch) && !l.eof {
		b.WriteRune(l.ch)
		l.read()
	}

	return b.String()
}

// readNumber reads a decimal number with an optional fractional part.
func (l *Lexer) readNumber() (string, error) {
	var b strings.Builder
	dot := false
	for !l.eof && (isDigit(l.ch) || (l.ch == '.' && !dot)) {
		if l.ch == '.' {
			dot = true
		}
		b.WriteRune(l.ch)
		l.read()
	}

	lit := b.String()
	// Reject "1.2.3" and "12abc" instead of splitting them into several tokens.
	if !l.eof && (l.ch == '.' || isIdentPart(l.ch)) {
		return lit, l.errorf("malformed number %q", lit+string(l.ch))
	}

	return lit, nil
}

// errorf formats an error message and returns an error.
func (l *Lexer) errorf(format string, args ...any) error {
	err := fmt.Errorf("%w at %d:%d: %s", ErrLex, l.pos.line, l.pos.col, fmt.Sprintf(format, args...))
	l.log.Debug("lex failed", slog.Int("line", l.pos.line), slog.Int("col", l.pos.col), slog.Any("error", err))
	return err
}

// isIdentStart checks if a character is a valid start of an identifier.
func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

// isIdentPart checks if a character is a valid part of an identifier.
func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// isDigit checks if a character is an ASCII digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
