package minilang

// TokenType represents a type of a token.
type TokenType int

// Token types.
const (
	TokenEOF          TokenType = iota // End of input
	TokenNumber                        // Numeric literal
	TokenName                          // Identifier
	TokenPlus                          // +
	TokenMinus                         // -
	TokenMultiply                      // *
	TokenDivide                        // /
	TokenEquals                        // =
	TokenEqualsEquals                  // ==
	TokenLeftParen                     // (
	TokenRightParen                    // )
	TokenSemicolon                     // ;
	TokenIf                            // if
	TokenThen                          // then
	TokenElse                          // else
)

// String returns the name of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNumber:
		return "Number"
	case TokenName:
		return "Name"
	case TokenPlus:
		return "Plus"
	case TokenMinus:
		return "Minus"
	case TokenMultiply:
		return "Multiply"
	case TokenDivide:
		return "Divide"
	case TokenEquals:
		return "Equals"
	case TokenEqualsEquals:
		return "EqualsEquals"
	case TokenLeftParen:
		return "LeftParen"
	case TokenRightParen:
		return "RightParen"
	case TokenSemicolon:
		return "Semicolon"
	case TokenIf:
		return "If"
	case TokenThen:
		return "Then"
	case TokenElse:
		return "Else"
	default:
		return "Unknown"
	}
}

// Token is a classified unit of lexical input.
type Token struct {
	Lit  string    // Literal text of the token
	Type TokenType // Type of the token
	Line int       // Line number of the token
	Col  int       // Column number of the token
}

// keywords maps reserved words to their token types.
var keywords = map[string]TokenType{
	"if":   TokenIf,
	"then": TokenThen,
	"else": TokenElse,
}

// TokenSource is the token stream consumed by the parser.
//
// NextToken returns the next token and advances; LookAhead returns the token
// NextToken would return without advancing. Both keep returning an EOF token
// once the input is exhausted.
type TokenSource interface {
	NextToken() (Token, error)
	LookAhead() (Token, error)
}

// TokenStream is a TokenSource over an already tokenized slice.
type TokenStream struct {
	toks []Token
	pos  int
}

// NewTokenStream creates a TokenSource over toks.
// A trailing EOF token is optional; one is synthesized after the last token.
func NewTokenStream(toks []Token) *TokenStream {
	return &TokenStream{toks: toks}
}

// NextToken implements TokenSource.
func (s *TokenStream) NextToken() (Token, error) {
	tok := s.at(s.pos)
	if s.pos < len(s.toks) {
		s.pos++
	}

	return tok, nil
}

// LookAhead implements TokenSource.
func (s *TokenStream) LookAhead() (Token, error) {
	return s.at(s.pos), nil
}

// at returns the token at i or EOF past the end.
func (s *TokenStream) at(i int) Token {
	if i < len(s.toks) {
		return s.toks[i]
	}

	eof := Token{Type: TokenEOF}
	if n := len(s.toks); n > 0 {
		eof.Line, eof.Col = s.toks[n-1].Line, s.toks[n-1].Col
	}

	return eof
}
