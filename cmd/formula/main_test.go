package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestReadVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want [][2]string
		err  bool
	}{
		{"empty", "", nil, false},
		{"numbers", "x: 1\ny: 2.5\n", [][2]string{{"x", "1"}, {"y", "2.5"}}, false},
		{"formula", "r: 2\narea: pi*r^2\n", [][2]string{{"r", "2"}, {"area", "pi*r^2"}}, false},
		{"order", "b: 1\na: b+1\n", [][2]string{{"b", "1"}, {"a", "b+1"}}, false},
		{"list", "- 1\n- 2\n", nil, true},
		{"nested", "x:\n  y: 1\n", nil, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := readVars(strings.NewReader(c.src))
			if (err != nil) != c.err {
				t.Fatalf("wrong error: want error %t, got %v", c.err, err)
			}
			if !c.err && !reflect.DeepEqual(got, c.want) {
				t.Errorf("wrong definitions: want %q, got %q", c.want, got)
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	vars := filepath.Join(dir, "vars.yaml")
	if err := os.WriteFile(vars, []byte("r: 2\nd: 2*r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name   string
		args   []string
		stdin  string
		out    string
		status int
	}{
		{"args", []string{"1+2*3", "2^3^2"}, "", "7\n512\n", 0},
		{"stdin", nil, "10-3-2\n\n--5\n", "5\n5\n", 0},
		{"given", []string{"-given", "x=3", "x*x"}, "", "9\n", 0},
		{"vars", []string{"-vars", vars, "d+r"}, "", "6\n", 0},
		{"fmt", []string{"-fmt", "%.3f", "pi"}, "", "3.142\n", 0},
		{"echo", []string{"-echo", "1+2*3"}, "", "(1 + (2 * 3)) : 7\n", 0},
		{"prec", []string{"-p", "100", "-fmt", "%.25f", "1/3"}, "", "0.3333333333333333333333333\n", 0},
		{"parse-error", []string{"1 2", "3"}, "", "3\n", 1},
		{"undefined", []string{"x"}, "", "", 1},
		{"constant", []string{"-given", "pi=3", "pi"}, "", "", 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out, logs bytes.Buffer
			log := zerolog.New(&logs)
			status := run(c.args, strings.NewReader(c.stdin), &out, false, log)
			if status != c.status {
				t.Errorf("wrong status: want %d, got %d; logs:\n%s", c.status, status, logs.String())
			}
			if out.String() != c.out {
				t.Errorf("wrong output: want %q, got %q", c.out, out.String())
			}
			if c.status != 0 && logs.Len() == 0 {
				t.Error("failure was not logged")
			}
		})
	}
}

func TestRunPrompt(t *testing.T) {
	var out bytes.Buffer
	status := run(nil, strings.NewReader("1+1\n"), &out, true, zerolog.New(io.Discard))
	if status != 0 {
		t.Errorf("wrong status %d", status)
	}
	if want := "> 2\n> \n"; out.String() != want {
		t.Errorf("wrong output: want %q, got %q", want, out.String())
	}
}
