package parser

import (
	"fmt"
	"strings"
)

// Lexer tokenizes PL/SQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	err *LexError // first lexical error
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// Err returns the first lexical error, if any.
func (l *Lexer) Err() *LexError {
	return l.err
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	prev := byte(0)
	if l.pos < len(l.input) && l.readPos > 0 {
		prev = l.input[l.pos]
	}
	l.pos = l.readPos
	l.readPos++

	if prev == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() Position {
	return Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

func (l *Lexer) setError(pos Position, msg string) {
	if l.err == nil {
		l.err = &LexError{Pos: pos, Message: msg}
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()
	tok := Token{Pos: pos}

	switch l.ch {
	case 0:
		tok.Type = TOKEN_EOF
		tok.End = pos
		return tok
	case '+':
		tok.Type, tok.Literal = TOKEN_PLUS, "+"
	case '-':
		tok.Type, tok.Literal = TOKEN_MINUS, "-"
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			tok.Type, tok.Literal = TOKEN_POWER, "**"
		} else {
			tok.Type, tok.Literal = TOKEN_STAR, "*"
		}
	case '/':
		tok.Type, tok.Literal = TOKEN_SLASH, "/"
	case '%':
		tok.Type, tok.Literal = TOKEN_PERCENT, "%"
	case '@':
		tok.Type, tok.Literal = TOKEN_AT, "@"
	case ';':
		tok.Type, tok.Literal = TOKEN_SEMICOLON, ";"
	case '=':
		if l.peekChar() == '>' {
			l.readChar()
			tok.Type, tok.Literal = TOKEN_ARROW, "=>"
		} else {
			tok.Type, tok.Literal = TOKEN_EQ, "="
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok.Type, tok.Literal = TOKEN_LE, "<="
		case '>':
			l.readChar()
			tok.Type, tok.Literal = TOKEN_NE, "<>"
		default:
			tok.Type, tok.Literal = TOKEN_LT, "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = TOKEN_GE, ">="
		} else {
			tok.Type, tok.Literal = TOKEN_GT, ">"
		}
	case '!', '^', '~':
		if l.peekChar() == '=' {
			lit := string([]byte{l.ch, '='})
			l.readChar()
			tok.Type, tok.Literal = TOKEN_NE, lit
		} else {
			l.illegal(&tok)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok.Type, tok.Literal = TOKEN_DPIPE, "||"
		} else {
			l.illegal(&tok)
		}
	case ':':
		switch {
		case l.peekChar() == '=':
			l.readChar()
			tok.Type, tok.Literal = TOKEN_ASSIGN, ":="
		case isIdentStart(l.peekChar()) || isDigit(l.peekChar()):
			tok.Type = TOKEN_BIND
			tok.Literal = l.readBind()
			tok.End = l.currentPos()
			return tok
		default:
			l.illegal(&tok)
		}
	case '.':
		switch {
		case l.peekChar() == '.':
			l.readChar()
			tok.Type, tok.Literal = TOKEN_DOTDOT, ".."
		case isDigit(l.peekChar()):
			tok.Type = TOKEN_NUMBER
			tok.Literal = l.readNumber()
			tok.End = l.currentPos()
			return tok
		default:
			tok.Type, tok.Literal = TOKEN_DOT, "."
		}
	case ',':
		tok.Type, tok.Literal = TOKEN_COMMA, ","
	case '(':
		tok.Type, tok.Literal = TOKEN_LPAREN, "("
	case ')':
		tok.Type, tok.Literal = TOKEN_RPAREN, ")"
	case '\'':
		tok.Type = TOKEN_STRING
		tok.Literal = l.readString()
		tok.End = l.currentPos()
		return tok
	case '"':
		tok.Type = TOKEN_IDENT
		tok.Literal = l.readQuotedIdentifier()
		tok.End = l.currentPos()
		return tok
	default:
		switch {
		case (l.ch == 'n' || l.ch == 'N' || l.ch == 'q' || l.ch == 'Q') && l.startsPrefixedString():
			tok.Type = TOKEN_STRING
			tok.Literal = l.readPrefixedString()
			tok.End = l.currentPos()
			return tok
		case isIdentStart(l.ch):
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			tok.End = l.currentPos()
			return tok
		case isDigit(l.ch):
			tok.Type = TOKEN_NUMBER
			tok.Literal = l.readNumber()
			tok.End = l.currentPos()
			return tok
		default:
			l.illegal(&tok)
		}
	}

	l.readChar()
	tok.End = l.currentPos()
	return tok
}

func (l *Lexer) illegal(tok *Token) {
	tok.Type = TOKEN_ILLEGAL
	tok.Literal = string(l.ch)
	l.setError(tok.Pos, fmt.Sprintf(ErrIllegalCharacter, l.ch))
}

// skipWhitespaceAndComments skips whitespace, line comments and block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		if l.ch == '/' && l.peekChar() == '*' {
			start := l.currentPos()
			l.readChar() // skip '/'
			l.readChar() // skip '*'
			closed := false
			for l.ch != 0 {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // skip '*'
					l.readChar() // skip '/'
					closed = true
					break
				}
				l.readChar()
			}
			if !closed {
				l.setError(start, ErrUnterminatedBlock)
			}
			continue
		}

		break
	}
}

// readString reads a single-quoted string literal.
// Handles doubled single quotes as escape: 'it''s' -> it's
func (l *Lexer) readString() string {
	start := l.currentPos()
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		if l.ch == 0 && l.pos >= len(l.input) {
			l.setError(start, ErrUnterminatedString)
			return result.String()
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				result.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String()
		}
		result.WriteByte(l.ch)
		l.readChar()
	}
}

// startsPrefixedString reports whether the current char begins N'..', Q'..' or NQ'..'.
func (l *Lexer) startsPrefixedString() bool {
	rest := l.input[l.pos:]
	if len(rest) >= 2 && rest[1] == '\'' {
		return true
	}
	return len(rest) >= 3 && (rest[0] == 'n' || rest[0] == 'N') &&
		(rest[1] == 'q' || rest[1] == 'Q') && rest[2] == '\''
}

// readPrefixedString reads national (N'..') and alternative quoting
// (Q'[..]') string literals.
func (l *Lexer) readPrefixedString() string {
	if l.ch == 'n' || l.ch == 'N' {
		l.readChar()
		if l.ch == '\'' {
			return l.readString()
		}
	}
	start := l.currentPos()
	l.readChar() // skip q
	l.readChar() // skip opening quote
	open := l.ch
	closing := open
	switch open {
	case '[':
		closing = ']'
	case '{':
		closing = '}'
	case '(':
		closing = ')'
	case '<':
		closing = '>'
	}
	l.readChar()

	begin := l.pos
	for {
		if l.ch == 0 && l.pos >= len(l.input) {
			l.setError(start, ErrUnterminatedString)
			return l.input[begin:l.pos]
		}
		if l.ch == closing && l.peekChar() == '\'' {
			lit := l.input[begin:l.pos]
			l.readChar() // skip closing delimiter
			l.readChar() // skip quote
			return lit
		}
		l.readChar()
	}
}

// readQuotedIdentifier reads a double-quoted identifier and keeps the quotes,
// since quoting changes case sensitivity.
func (l *Lexer) readQuotedIdentifier() string {
	start := l.currentPos()
	begin := l.pos
	l.readChar() // skip opening quote
	for l.ch != '"' {
		if l.ch == 0 && l.pos >= len(l.input) {
			l.setError(start, ErrUnterminatedIdent)
			return l.input[begin:l.pos]
		}
		l.readChar()
	}
	l.readChar() // skip closing quote
	return l.input[begin:l.pos]
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readBind reads a bind variable such as :new or :1.
func (l *Lexer) readBind() string {
	start := l.pos
	l.readChar() // skip ':'
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
func (l *Lexer) readNumber() string {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}

	// A second dot means a range operator follows: 1..10
	if l.ch == '.' && l.peekChar() != '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) || l.peekChar() == '+' || l.peekChar() == '-') {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Oracle float/double suffixes
	if l.ch == 'f' || l.ch == 'F' || l.ch == 'd' || l.ch == 'D' {
		if !isIdentPart(l.peekChar()) {
			l.readChar()
		}
	}

	return l.input[start:l.pos]
}

// isIdentStart returns true if ch can begin an identifier. Bytes of
// multi-byte UTF-8 sequences are accepted as letters.
func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= 0x80
}

// isIdentPart returns true if ch can continue an identifier.
func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '$' || ch == '#'
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input, ending with EOF, and the
// first lexical error.
func Tokenize(input string) ([]Token, *LexError) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			break
		}
	}
	return tokens, l.err
}
