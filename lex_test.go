package formula

import (
	"errors"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
	}{
		// spaces
		{"", nil},
		{" \t \r\n ", nil},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1, num: 0}}},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1, num: 9876543210}}},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1, num: 1}, {text: "0", kind: tokenNum, pos: 3, num: 0}}},
		{"1.5", []lexToken{{text: "1.5", kind: tokenNum, pos: 1, num: 1.5}}},
		{".5", []lexToken{{text: ".5", kind: tokenNum, pos: 1, num: 0.5}}},
		{"5.", []lexToken{{text: "5.", kind: tokenNum, pos: 1, num: 5}}},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenNum, pos: 2, num: 1}}},
		{"1e3", []lexToken{{text: "1e3", kind: tokenNum, pos: 1, num: 1000}}},
		{"1E3", []lexToken{{text: "1E3", kind: tokenNum, pos: 1, num: 1000}}},
		{"1e-3", []lexToken{{text: "1e-3", kind: tokenNum, pos: 1, num: 0.001}}},
		{"1e+3", []lexToken{{text: "1e+3", kind: tokenNum, pos: 1, num: 1000}}},
		{"1-3", []lexToken{{text: "1", kind: tokenNum, pos: 1, num: 1}, {text: "-", kind: tokenOp, pos: 2}, {text: "3", kind: tokenNum, pos: 3, num: 3}}},
		{"2.5e-1*x", []lexToken{{text: "2.5e-1", kind: tokenNum, pos: 1, num: 0.25}, {text: "*", kind: tokenOp, pos: 7}, {text: "x", kind: tokenIdent, pos: 8}}},
		// identifiers
		{"x", []lexToken{{text: "x", kind: tokenIdent, pos: 1}}},
		{"x1", []lexToken{{text: "x1", kind: tokenIdent, pos: 1}}},
		{"_tmp_", []lexToken{{text: "_tmp_", kind: tokenIdent, pos: 1}}},
		{"π", []lexToken{{text: "π", kind: tokenIdent, pos: 1}}},
		{"Ωx", []lexToken{{text: "Ωx", kind: tokenIdent, pos: 1}}},
		{"αβ γ", []lexToken{{text: "αβ", kind: tokenIdent, pos: 1}, {text: "γ", kind: tokenIdent, pos: 4}}},
		{"sin", []lexToken{{text: "sin", kind: tokenFunc, pos: 1, fn: FuncSin}}},
		{"fact(", []lexToken{{text: "fact", kind: tokenFunc, pos: 1, fn: FuncFactorial}, {text: "(", kind: tokenOpen, pos: 5}}},
		{"sinx", []lexToken{{text: "sinx", kind: tokenIdent, pos: 1}}},
		// operators and punctuation
		{"+-*/^%", []lexToken{
			{text: "+", kind: tokenOp, pos: 1},
			{text: "-", kind: tokenOp, pos: 2},
			{text: "*", kind: tokenOp, pos: 3},
			{text: "/", kind: tokenOp, pos: 4},
			{text: "^", kind: tokenOp, pos: 5},
			{text: "%", kind: tokenOp, pos: 6},
		}},
		{"(,)", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: ",", kind: tokenSep, pos: 2}, {text: ")", kind: tokenClose, pos: 3}}},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks, err := tokenize(strings.NewReader(c.src), funcnames)
			if err != nil {
				t.Fatalf("scanning %q: unexpected error %v", c.src, err)
			}
			if len(toks) != len(c.tokens)+1 {
				t.Fatalf("scanning %q: want %d tokens, got %v", c.src, len(c.tokens)+1, toks)
			}
			for i, want := range c.tokens {
				if got := toks[i]; got != want {
					t.Errorf("scanning %q: want %v (%g), got %v (%g)", c.src, want, want.num, got, got.num)
				}
			}
			if eof := toks[len(toks)-1]; eof.kind != tokenEOF {
				t.Errorf("scanning %q: last token is %v, not EOF", c.src, eof)
			}
		})
	}
}

func TestLexEOFPos(t *testing.T) {
	toks, err := tokenize(strings.NewReader("ab  "), funcnames)
	if err != nil {
		t.Fatal(err)
	}
	if eof := toks[len(toks)-1]; eof.kind != tokenEOF || eof.pos != 5 {
		t.Errorf("wrong EOF token %v", eof)
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		col  int
		char rune
		num  string
	}{
		{"dollar", "$", 1, '$', ""},
		{"after-ident", "a$", 2, '$', ""},
		{"after-num", "1 + 2 # 3", 7, '#', ""},
		{"unicode-space", "1\u00a0+ 2", 2, '\u00a0', ""},
		{"bracket", "[1]", 1, '[', ""},
		{"infinity", "∞", 1, '∞', ""},
		{"dots", "1.2.3", 1, 0, "1.2.3"},
		{"dot", ".", 1, 0, "."},
		{"exp-end", "1e", 1, 0, "1e"},
		{"exp-twice", "1e2e3", 1, 0, "1e2e3"},
		{"exp-sign", "1e-", 1, 0, "1e-"},
		{"later", "x + 3..", 5, 0, "3.."},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := tokenize(strings.NewReader(c.src), funcnames)
			if err == nil {
				t.Fatalf("scanning %q gave no error", c.src)
			}
			var ie InputError
			if !errors.As(err, &ie) {
				t.Fatalf("%#v is not an InputError", err)
			}
			if ie.Pos() != c.col {
				t.Errorf("wrong position: want %d, got %d", c.col, ie.Pos())
			}
			if c.num == "" {
				ce, ok := err.(*CharError)
				if !ok {
					t.Fatalf("%#v is not *CharError", err)
				}
				if ce.Char != c.char {
					t.Errorf("wrong char: want %q, got %q", c.char, ce.Char)
				}
				return
			}
			ne, ok := err.(*NumberError)
			if !ok {
				t.Fatalf("%#v is not *NumberError", err)
			}
			if ne.Text != c.num {
				t.Errorf("wrong text: want %q, got %q", c.num, ne.Text)
			}
		})
	}
}

func TestLexOverflow(t *testing.T) {
	toks, err := tokenize(strings.NewReader("1e999"), funcnames)
	if err != nil {
		t.Fatalf("overflowing number gave error %v", err)
	}
	if v := toks[0].num; v < 1e308 {
		t.Errorf("1e999 scanned as %g", v)
	}
}
