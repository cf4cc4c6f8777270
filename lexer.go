package ucum

type tokenKind int

const (
	tokEnd tokenKind = iota
	tokSymbol
	tokNumber
	tokPeriod
	tokSolidus
	tokOpen
	tokClose
	tokAnnotation
)

func (k tokenKind) String() string {
	switch k {
	case tokEnd:
		return "end of expression"
	case tokSymbol:
		return "unit symbol"
	case tokNumber:
		return "number"
	case tokPeriod:
		return "'.'"
	case tokSolidus:
		return "'/'"
	case tokOpen:
		return "'('"
	case tokClose:
		return "')'"
	case tokAnnotation:
		return "annotation"
	}
	return "unknown token"
}

type token struct {
	kind tokenKind
	text string // for annotations, the text between the braces
	pos  int    // byte offset of the first character
}

// lexer splits a unit expression into tokens.
// It works on bytes: UCUM codes are plain ASCII, anything else is only
// accepted inside annotations and square brackets.
type lexer struct {
	src string
	pos int
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isSymbolChar(c byte) bool {
	if isLetter(c) {
		return true
	}
	switch c {
	case '[', ']', '%', '*', '^', '\'', '"', '_':
		return true
	}
	return false
}

// next returns the next token or a syntax error.
func (l *lexer) next() (token, error) {
	if l.pos >= len(l.src) {
		return token{kind: tokEnd, pos: len(l.src)}, nil
	}
	start := l.pos
	c := l.src[l.pos]
	switch {
	case c == '.':
		l.pos++
		return token{kind: tokPeriod, text: ".", pos: start}, nil
	case c == '/':
		l.pos++
		return token{kind: tokSolidus, text: "/", pos: start}, nil
	case c == '(':
		l.pos++
		return token{kind: tokOpen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokClose, text: ")", pos: start}, nil
	case c == '{':
		return l.annotation()
	case c == '}':
		return token{}, syntaxErrorf(l.src, start, nil, "unexpected '}'")
	case c == '+' || c == '-':
		l.pos++
		if l.pos >= len(l.src) || !isDigit(l.src[l.pos]) {
			return token{}, syntaxErrorf(l.src, start, nil, "malformed exponent")
		}
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokNumber, text: l.src[start:l.pos], pos: start}, nil
	case isDigit(c) || isSymbolChar(c):
		return l.symbol()
	}
	return token{}, syntaxErrorf(l.src, start, nil, "unexpected character %q", c)
}

// symbol scans a digit run or a unit symbol.
// Digits are part of a symbol only when every preceding character is a
// digit (e.g. "10*") or inside square brackets (e.g. "m[H2O]").
func (l *lexer) symbol() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == len(l.src) || !isSymbolChar(l.src[l.pos]) {
		return token{kind: tokNumber, text: l.src[start:l.pos], pos: start}, nil
	}
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '[':
			open := l.pos
			l.pos++
			for l.pos < len(l.src) && l.src[l.pos] != ']' {
				l.pos++
			}
			if l.pos == len(l.src) {
				return token{}, syntaxErrorf(l.src, open, nil, "unterminated '['")
			}
			l.pos++
		case c == ']':
			return token{}, syntaxErrorf(l.src, l.pos, nil, "unexpected ']'")
		case isSymbolChar(c):
			l.pos++
		default:
			return token{kind: tokSymbol, text: l.src[start:l.pos], pos: start}, nil
		}
	}
	return token{kind: tokSymbol, text: l.src[start:l.pos], pos: start}, nil
}

func (l *lexer) annotation() (token, error) {
	start := l.pos
	for i := start + 1; i < len(l.src); i++ {
		switch c := l.src[i]; {
		case c == '}':
			l.pos = i + 1
			return token{kind: tokAnnotation, text: l.src[start+1 : i], pos: start}, nil
		case c == '{':
			return token{}, syntaxErrorf(l.src, i, nil, "nested '{' in annotation")
		case c < ' ' || c == 0x7f:
			return token{}, syntaxErrorf(l.src, i, nil, "invalid character in annotation")
		}
	}
	return token{}, syntaxErrorf(l.src, start, nil, "unterminated annotation")
}
