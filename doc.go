/*
Package minilang provides lexing, parsing, formatting, and validation for a
minimal imperative expression language with arithmetic, assignment, and
if/then/else statements.

One call parses exactly one statement. The parser is recursive descent with a
single token of lookahead and fails on the first malformed construct; no
partial tree is returned.

Grammar:

	statement   = ifStmt | assignment | expr
	ifStmt      = "if" conditional "then" statement [ "else" statement ] [ ";" ]
	assignment  = Name "=" expr ";"
	conditional = expr [ "==" expr ]
	expr        = term { ( "+" | "-" ) term }
	term        = factor { ( "*" | "/" ) factor }
	factor      = Number | Name | "(" expr ")"

Reader example:

	n, err := minilang.Parse([]byte("if x == 1 then y = 2; else y = 3;"), nil)
	if err != nil {
		// handle error
	}

Error inspection example:

	var ute *minilang.UnexpectedTokenError
	if errors.As(err, &ute) {
		_ = ute.Expected
	}

Custom token source example:

	p, err := minilang.NewParser(minilang.NewTokenStream(tokens), nil)
	if err != nil {
		// handle error
	}
	n, err := p.Parse()

Writer example:

	out, err := minilang.Format(n, &minilang.FormatOptions{Compact: true})
	if err != nil {
		// handle error
	}

Validator example:

	issues := minilang.Validate(n, nil)
	if minilang.HasErrors(issues) {
		// handle validation issues
	}
*/
package minilang
