package tsql

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokBatch
	tokIdent
	tokQuoted
	tokVariable
	tokString
	tokUnicode
	tokNumber
	tokBinary
	tokOp
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of script"
	case tokBatch:
		return "GO"
	case tokString, tokUnicode:
		return "'" + t.text + "'"
	case tokQuoted:
		return "[" + t.text + "]"
	}
	return t.text
}

// SyntaxError is a lexical or grammatical error with its 1-based position.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

var twoCharOps = []string{"<=", ">=", "<>", "!=", "!<", "!>", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^="}

type lexer struct {
	src         string
	pos         int
	line        int
	col         int
	firstOnLine bool
	tokens      []token
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src, line: 1, col: 1, firstOnLine: true}
	for {
		if err := l.skipSpace(); err != nil {
			return nil, err
		}
		if l.pos >= len(l.src) {
			l.tokens = append(l.tokens, token{kind: tokEOF, line: l.line, col: l.col})
			return l.tokens, nil
		}
		if err := l.scan(); err != nil {
			return nil, err
		}
	}
}

func (l *lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: l.line, Column: l.col, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) peekRune(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.pos+offset:])
	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
		l.firstOnLine = true
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		r := l.peekRune(0)
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '-' && l.peekRune(1) == '-':
			for l.pos < len(l.src) && l.peekRune(0) != '\n' {
				l.advance()
			}
		case r == '/' && l.peekRune(1) == '*':
			line, col := l.line, l.col
			l.advance()
			l.advance()
			depth := 1
			for depth > 0 {
				if l.pos >= len(l.src) {
					return &SyntaxError{Line: line, Column: col, Msg: "unterminated comment"}
				}
				switch {
				case l.peekRune(0) == '/' && l.peekRune(1) == '*':
					l.advance()
					l.advance()
					depth++
				case l.peekRune(0) == '*' && l.peekRune(1) == '/':
					l.advance()
					l.advance()
					depth--
				default:
					l.advance()
				}
			}
		default:
			return nil
		}
	}
	return nil
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '#' || r == '@' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '#' || r == '@' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *lexer) emit(kind tokenKind, text string, line, col int) {
	l.tokens = append(l.tokens, token{kind: kind, text: text, line: line, col: col})
	l.firstOnLine = false
}

func (l *lexer) scan() error {
	line, col, first := l.line, l.col, l.firstOnLine
	r := l.peekRune(0)
	switch {
	case (r == 'N' || r == 'n') && l.peekRune(1) == '\'':
		l.advance()
		s, err := l.quoted('\'', '\'')
		if err != nil {
			return err
		}
		l.emit(tokUnicode, s, line, col)
	case r == '\'':
		s, err := l.quoted('\'', '\'')
		if err != nil {
			return err
		}
		l.emit(tokString, s, line, col)
	case r == '[':
		s, err := l.quoted('[', ']')
		if err != nil {
			return err
		}
		l.emit(tokQuoted, s, line, col)
	case r == '"':
		s, err := l.quoted('"', '"')
		if err != nil {
			return err
		}
		l.emit(tokQuoted, s, line, col)
	case r == '0' && (l.peekRune(1) == 'x' || l.peekRune(1) == 'X'):
		start := l.pos
		l.advance()
		l.advance()
		for isHex(l.peekRune(0)) {
			l.advance()
		}
		l.emit(tokBinary, l.src[start:l.pos], line, col)
	case unicode.IsDigit(r) || (r == '.' && unicode.IsDigit(l.peekRune(1))):
		l.emit(tokNumber, l.number(), line, col)
	case r == '@':
		start := l.pos
		for l.pos < len(l.src) && isIdentPart(l.peekRune(0)) {
			l.advance()
		}
		l.emit(tokVariable, l.src[start:l.pos], line, col)
	case isIdentStart(r):
		start := l.pos
		for l.pos < len(l.src) && isIdentPart(l.peekRune(0)) {
			l.advance()
		}
		text := l.src[start:l.pos]
		if first && strings.EqualFold(text, "GO") && l.restOfLineIsBatchEnd() {
			l.emit(tokBatch, text, line, col)
			return nil
		}
		l.emit(tokIdent, text, line, col)
	default:
		for _, op := range twoCharOps {
			if strings.HasPrefix(l.src[l.pos:], op) {
				l.advance()
				l.advance()
				l.emit(tokOp, op, line, col)
				return nil
			}
		}
		if strings.ContainsRune("(),.;=<>+-*/%&|^~!", r) {
			l.advance()
			l.emit(tokOp, string(r), line, col)
			return nil
		}
		return l.errorf("unexpected character %q", r)
	}
	return nil
}

// restOfLineIsBatchEnd reports whether only an optional count, blanks or a
// line comment follow on the current line.
func (l *lexer) restOfLineIsBatchEnd() bool {
	rest := l.src[l.pos:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.Index(rest, "--"); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimSpace(rest)
	for _, r := range rest {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isHex(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *lexer) number() string {
	start := l.pos
	for unicode.IsDigit(l.peekRune(0)) {
		l.advance()
	}
	if l.peekRune(0) == '.' {
		l.advance()
		for unicode.IsDigit(l.peekRune(0)) {
			l.advance()
		}
	}
	if r := l.peekRune(0); r == 'e' || r == 'E' {
		next := l.peekRune(1)
		if unicode.IsDigit(next) || ((next == '+' || next == '-') && unicode.IsDigit(l.peekRune(2))) {
			l.advance()
			l.advance()
			for unicode.IsDigit(l.peekRune(0)) {
				l.advance()
			}
		}
	}
	return l.src[start:l.pos]
}

// quoted reads a delimited literal; a doubled closing delimiter stands for
// itself.
func (l *lexer) quoted(open, close rune) (string, error) {
	line, col := l.line, l.col
	l.advance()
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return "", &SyntaxError{Line: line, Column: col, Msg: fmt.Sprintf("unterminated %c", open)}
		}
		r := l.advance()
		if r == close {
			if l.peekRune(0) == close {
				l.advance()
				b.WriteRune(close)
				continue
			}
			return b.String(), nil
		}
		b.WriteRune(r)
	}
}
