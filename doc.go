// Package formula parses and evaluates arithmetic formulas over float64.
//
// A formula is written the way you'd type it into a calculator field:
// "2*sin(x)^2 + 1e-3", "-(a+b)/2", "τ*r". Operators are + - * / % and ^,
// where "a^b" is exponentiation and binds to the right. Unary signs bind
// tighter than any binary operator, so "-2^2" is "(-2)^2". There is no
// implicit multiplication.
//
// Parsing produces an Expr that can be evaluated many times against
// different variable bindings. The names pi, e and tau (and PI, π, E, TAU, τ)
// always refer to their mathematical constants. Function names such as sin,
// ln or fact are reserved unless disabled with DisableFuncs.
//
// Besides float64 evaluation, a Context evaluates an Expr with big.Float at
// any precision.
package formula
