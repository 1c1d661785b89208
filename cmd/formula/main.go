package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/zephyrtronium/formula"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:          os.Stderr,
		NoColor:      !term.IsTerminal(int(os.Stderr.Fd())),
		PartsExclude: []string{zerolog.TimestampFieldName},
	})
	prompt := term.IsTerminal(int(os.Stdin.Fd()))
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, prompt, log))
}

// calc evaluates expressions either in float64 or with a big.Float context.
type calc struct {
	env map[string]float64
	ctx *formula.Context
}

func (c *calc) eval(a *formula.Expr) (any, error) {
	if c.ctx == nil {
		return a.Eval(c.env)
	}
	r := c.ctx.Eval(a)
	if r == nil {
		return nil, c.ctx.Err()
	}
	return r, nil
}

func (c *calc) set(name string, a *formula.Expr) error {
	if formula.IsConstant(name) {
		return fmt.Errorf("cannot redefine constant %s", name)
	}
	if c.ctx == nil {
		v, err := a.Eval(c.env)
		if err != nil {
			return err
		}
		c.env[name] = v
		return nil
	}
	r := c.ctx.Eval(a)
	if r == nil {
		return c.ctx.Err()
	}
	c.ctx.Set(name, r)
	return nil
}

// run is the entire program. It returns the exit status.
func run(args []string, stdin io.Reader, stdout io.Writer, prompt bool, log zerolog.Logger) int {
	var (
		inname, verb, varsname string
		with                   [][2]string
		echo                   bool
		prec                   int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	fs := flag.NewFlagSet("formula", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVar(&inname, "in", "", "input file, one expression per line (default stdin if no args given)")
	fs.StringVar(&varsname, "vars", "", "YAML file of name: value variable definitions")
	fs.StringVar(&verb, "fmt", "%g", "result formatting string")
	fs.Func("given", "name=value variable definition (any number of times)", addwith)
	fs.IntVar(&prec, "p", 0, "precision of calculations in bits (0 for float64)")
	fs.BoolVar(&echo, "echo", false, "print parse trees")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if prec < 0 {
		log.Error().Int("prec", prec).Msg("precision must be positive")
		return 2
	}

	c := calc{env: make(map[string]float64)}
	if prec > 0 {
		c.ctx = formula.NewContext(formula.Prec(uint(prec)))
	}
	if varsname != "" {
		defs, err := loadVars(varsname)
		if err != nil {
			log.Error().Err(err).Str("file", varsname).Msg("reading variables")
			return 1
		}
		with = append(defs, with...)
	}
	for _, d := range with {
		nm, vl := d[0], d[1]
		a, err := formula.ParseString(vl)
		if err == nil {
			err = c.set(nm, a)
		}
		if err != nil {
			log.Error().Err(err).Str("name", nm).Str("value", vl).Msg("setting variable")
			return 1
		}
	}

	ins := fs.Args()
	var src io.Reader
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			log.Error().Err(err).Msg("opening input")
			return 1
		}
		defer f.Close()
		src, prompt = f, false
	case inname == "-", len(ins) == 0:
		src = stdin
	}

	status := 0
	do := func(line string) {
		line = strings.TrimSpace(line)
		if line == "" {
			return
		}
		if !evalLine(&c, line, stdout, verb, echo, log) {
			status = 1
		}
	}
	for _, in := range ins {
		do(in)
	}
	if src != nil {
		sc := bufio.NewScanner(src)
		for {
			if prompt {
				fmt.Fprint(stdout, "> ")
			}
			if !sc.Scan() {
				break
			}
			do(sc.Text())
		}
		if err := sc.Err(); err != nil {
			log.Error().Err(err).Msg("reading input")
			return 1
		}
		if prompt {
			fmt.Fprintln(stdout)
		}
	}
	return status
}

// evalLine parses and evaluates one expression, printing its result or
// logging its error. Returns whether it succeeded.
func evalLine(c *calc, line string, stdout io.Writer, verb string, echo bool, log zerolog.Logger) bool {
	a, err := formula.ParseString(line)
	if err != nil {
		ev := log.Error().Err(err).Str("expr", line)
		var ie formula.InputError
		if errors.As(err, &ie) {
			ev = ev.Int("col", ie.Pos())
		}
		ev.Msg("parse failed")
		return false
	}
	if echo {
		fmt.Fprintf(stdout, "%v : ", a)
	}
	r, err := c.eval(a)
	if err != nil {
		if echo {
			fmt.Fprintln(stdout)
		}
		log.Error().Err(err).Str("expr", line).Strs("vars", a.Vars()).Msg("evaluation failed")
		return false
	}
	fmt.Fprintf(stdout, verb+"\n", r)
	return true
}
