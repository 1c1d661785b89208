package formula

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// num is the value of a tokenNum.
	num float64
	// fn is the function named by a tokenFunc.
	fn Func
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal or scientific-notation number.
	tokenNum
	// tokenIdent is a variable name.
	tokenIdent
	// tokenFunc is the name of a known function.
	tokenFunc
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenSep is a comma.
	tokenSep
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenFunc:
		return "Func"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/^%"

type lexer struct {
	src   io.RuneScanner
	funcs map[string]Func
	buf   strings.Builder

	// rune is the column of the next rune to read.
	rune int
	eof  bool
}

// lex creates a lexer. Identifiers present in funcs are scanned as function
// names; all others are variables.
func lex(src io.RuneScanner, funcs map[string]Func) *lexer {
	return &lexer{
		src:   src,
		funcs: funcs,
		rune:  1,
	}
}

// read gets the next rune and advances the column.
func (l *lexer) read() (rune, error) {
	r, n, err := l.src.ReadRune()
	if n > 0 {
		l.rune++
	}
	return r, err
}

// unread backs up one rune. Only the rune just read may be unread.
func (l *lexer) unread() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. The first time the input is
// exhausted, the result is an EOF token with a nil error. Subsequent calls
// return an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	for {
		tok := lexToken{pos: l.rune}
		r, err := l.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case isSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unread()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenNum
			v, err := strconv.ParseFloat(tok.text, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				// Out of range values saturate to ±Inf or 0, like any other
				// float conversion. Everything else is malformed.
				return tok, &NumberError{Col: tok.pos, Text: tok.text}
			}
			tok.num = v
			return tok, nil
		case isIdentStart(r):
			l.unread()
			if err := l.scanIdent(); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			if fn, ok := l.funcs[tok.text]; ok {
				tok.kind = tokenFunc
				tok.fn = fn
			} else {
				tok.kind = tokenIdent
			}
			return tok, nil
		case r == '(':
			tok.text = "("
			tok.kind = tokenOpen
			return tok, nil
		case r == ')':
			tok.text = ")"
			tok.kind = tokenClose
			return tok, nil
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case strings.ContainsRune(Operators, r):
			tok.text = string(r)
			tok.kind = tokenOp
			return tok, nil
		default:
			return tok, &CharError{Col: tok.pos, Char: r}
		}
	}
}

// scanNum greedily collects digits, decimal points, and exponent markers,
// with a sign allowed directly after an exponent marker. Whether the result
// is actually a number is for the caller to decide.
func (l *lexer) scanNum() error {
	var le bool
	for {
		r, err := l.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch {
		case '0' <= r && r <= '9', r == '.':
			le = false
		case r == 'e', r == 'E':
			le = true
		case le && (r == '-' || r == '+'):
			le = false
		default:
			l.unread()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// The first rune was already vetted by next.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unread()
			return nil
		}
	}
}

// tokenize scans the entire input. The last token is always tokenEOF.
func tokenize(src io.RuneScanner, funcs map[string]Func) ([]lexToken, error) {
	l := lex(src, funcs)
	var toks []lexToken
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// isIdentStart reports whether r can begin an identifier: an ASCII letter,
// an underscore, or a Greek letter.
func isIdentStart(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', r == '_':
		return true
	case 'α' <= r && r <= 'ω', 'Α' <= r && r <= 'Ω':
		return true
	}
	return false
}
