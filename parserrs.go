package formula

import "strconv"

// CharError is an error indicating a rune that cannot begin any token. It
// implements InputError.
type CharError struct {
	// Col is the position of the rune.
	Col int
	// Char is the rune that was not understood.
	Char rune
}

func (err *CharError) Error() string {
	return errpos(err.Col, "unexpected character "+strconv.QuoteRune(err.Char))
}

func (err *CharError) Pos() int {
	return err.Col
}

// NumberError is an error indicating a malformed number. It implements
// InputError.
type NumberError struct {
	// Col is the position of the start of the number.
	Col int
	// Text is everything the lexer scanned as part of the number.
	Text string
}

func (err *NumberError) Error() string {
	return errpos(err.Col, "invalid number "+strconv.Quote(err.Text))
}

func (err *NumberError) Pos() int {
	return err.Col
}

// TokenError is an error indicating that the parser found a token other than
// the one the grammar requires. It implements InputError.
type TokenError struct {
	// Col is the position of the unexpected token.
	Col int
	// Want is the token that was required.
	Want string
	// Got is the token that was found, or the empty string for the end of
	// the input.
	Got string
}

func (err *TokenError) Error() string {
	got := "end of input"
	if err.Got != "" {
		got = strconv.Quote(err.Got)
	}
	return errpos(err.Col, "expected "+strconv.Quote(err.Want)+", got "+got)
}

func (err *TokenError) Pos() int {
	return err.Col
}

// BracketError is an error indicating unbalanced parentheses. It implements
// InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis, or of the end of the
	// input for an open parenthesis that is never closed.
	Col int
	// Left is the opening bracket, or the empty string if a close bracket has
	// no match.
	Left string
	// Right is the unmatched closing bracket, or the empty string if an open
	// bracket was never closed.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an input with no tokens.
type EmptyExpressionError struct {
	// Col is the position of the end of the input.
	Col int
}

func (err *EmptyExpressionError) Error() string {
	return errpos(err.Col, "no expression")
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// FuncError is an error indicating a call to a name that is not a known
// function, as in "foo(x)". It implements InputError.
type FuncError struct {
	// Col is the position of the name.
	Col int
	// Name is the unknown function name.
	Name string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *FuncError) Pos() int {
	return err.Col
}

// OperandError is an error indicating a missing operand, e.g. after a
// trailing operator or inside empty parentheses. It implements InputError.
type OperandError struct {
	// Col is the position of the token found where the operand should be.
	Col int
	// Got is that token, or the empty string for the end of the input.
	Got string
}

func (err *OperandError) Error() string {
	if err.Got == "" {
		return errpos(err.Col, "missing operand at end")
	}
	return errpos(err.Col, "missing operand before "+strconv.Quote(err.Got))
}

func (err *OperandError) Pos() int {
	return err.Col
}

// TrailingError is an error indicating that a complete expression was
// followed by more input. It implements InputError.
type TrailingError struct {
	// Col is the position of the first token after the expression.
	Col int
	// Text is the remaining tokens, separated by spaces.
	Text string
}

func (err *TrailingError) Error() string {
	return errpos(err.Col, "unexpected input after expression: "+strconv.Quote(err.Text))
}

func (err *TrailingError) Pos() int {
	return err.Col
}

// DepthError is an error indicating an expression nested more deeply than
// allowed by MaxDepth. It implements InputError.
type DepthError struct {
	// Col is the position of the token that exceeded the limit.
	Col int
	// Max is the depth limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nested deeper than "+strconv.Itoa(err.Max))
}

func (err *DepthError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*CharError)(nil)
	_ InputError = (*NumberError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*FuncError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*TrailingError)(nil)
	_ InputError = (*DepthError)(nil)
)
