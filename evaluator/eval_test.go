package evaluator_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/mlang"
	"github.com/npillmayer/mlang/evaluator"
	"github.com/npillmayer/mlang/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSetup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	intp := evaluator.NewInterpreter(nil)
	if intp == nil {
		t.Errorf("error creating interpreter")
	}
	_, err := intp.Run(nil)
	if err != nil {
		if err != evaluator.ErrNoProgramToExecute {
			t.Errorf("expected empty-input-error, but got %v", err)
		}
	} else {
		t.Error("expected Run to fail due to empty input, but didn't")
	}
}

func TestPrograms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	for i, x := range []struct {
		src, output string
	}{
		{"A = zeros(3); print A[0,0];", "0\n"},
		{"i = 0; while (i < 3) { print i; i += 1; }", "0\n1\n2\n"},
		{"n = 0; for i = 2:7 n += 1; print n;", "5\n"},
		{"n = 0; for i = 5:2 n += 1; print n;", "0\n"},
		{"for i = 0:3 { i = 10; print i; }", "10\n10\n10\n"},
		{"print 1, 2.5, \"x\";", "1 2.5 x\n"},
		{"print 7 / 2, 4 / 2, 2 * 3, 1 - 3;", "3.5 2.0 6 -2\n"},
		{"print 1 < 2, 2 <= 1, \"a\" == \"a\", 1 == 1.0;", "true false true true\n"},
		{"s = \"ab\"; s += \"cd\"; print s;", "abcd\n"},
		{"print eye(2);", "[[1, 0], [0, 1]]\n"},
		{"print ones(2, 3);", "[[1, 1, 1], [1, 1, 1]]\n"},
		{"A = [[1, 2], [3, 4]]; print A';", "[[1, 3], [2, 4]]\n"},
		{"A = [[1, 2], [3, 4]]; print A * A;", "[[7, 10], [15, 22]]\n"},
		{"A = [[1, 2], [3, 4]]; print A .* A, A .+ A;", "[[1, 4], [9, 16]] [[2, 4], [6, 8]]\n"},
		{"A = [[1, 2], [3, 4]]; print A - eye(2);", "[[0, 2], [3, 3]]\n"},
		{"A = [[1, 2], [3, 4]]; print 2 * A, A * 0.5;", "[[2, 4], [6, 8]] [[0.5, 1.0], [1.5, 2.0]]\n"},
		{"v = [1, 2, 3]; print v * v';", "[[14]]\n"},
		{"print -[1, 2], -(3);", "[-1, -2] -3\n"},
		{"A = zeros(2); A[0, 1] = 5; A[1, 1] += 2; print A;", "[[0, 5], [0, 2]]\n"},
		{"A = zeros(2); A[1] = [3, 4]; print A;", "[[0, 0], [3, 4]]\n"},
		{"A = eye(2); B = A; B[0, 0] = 9; print A[0, 0], B[0, 0];", "1 9\n"},
		{"x = 1; { x = 2; y = 3; } print x;", "2\n"},
		{"if (1 > 2) print 1; else print 2;", "2\n"},
		{"if (0) if (1) print 1; else print 2; print 3;", "3\n"},
		{ // break ends the innermost loop only
			"for i = 0:2 { for j = 0:5 { if (j == 1) break; print i, j; } }",
			"0 0\n1 0\n",
		},
		{"for i = 0:4 { if (i == 1) continue; print i; }", "0\n2\n3\n"},
		{"for i = 0:10 { if (i == 2) return; print i; } print 99;", "0\n1\n"},
		{"i = 0; while (1) { i += 1; if (i > 2) break; } print i;", "3\n"},
		{"x = 5; x = \"five\"; print x;", "five\n"},
		{"A = [[], []]; print A;", "[[], []]\n"},
		{"v = []; print v * v;", "[[0]]\n"},
	} {
		var out bytes.Buffer
		run(t, i, x.src, &out)
		if diff := cmp.Diff(x.output, out.String()); diff != "" {
			t.Errorf("test %d: output differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestReturnValue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	var out bytes.Buffer
	v := run(t, 0, "for i = 0:10 { if (i == 4) return i * 2; }", &out)
	if v != mlang.Int(8) {
		t.Errorf("expected program to return 8, got %v", v)
	}
	v = run(t, 1, "x = 1;", &out)
	if v != nil {
		t.Errorf("expected no return value, got %v", v)
	}
}

func TestGlobalsSurviveRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	var out bytes.Buffer
	intp := evaluator.NewInterpreter(&out)
	for _, src := range []string{"x = 3;", "{ y = 1; }", "x += 4;", "print x;"} {
		prog, err := grammar.Parse(src)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = intp.Run(prog); err != nil {
			t.Fatalf("run of %q failed: %v", src, err)
		}
	}
	if out.String() != "7\n" {
		t.Errorf("expected output 7, got %q", out.String())
	}
	if diff := cmp.Diff([]string{"x"}, intp.Globals().Names()); diff != "" {
		t.Errorf("globals differ (-want +got):\n%s", diff)
	}
}

func TestRuntimeErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	for i, x := range []struct {
		src    string
		cause  error
		line   int
		output string
	}{
		{"print 1; x = 1 / 0; print 2;", evaluator.ErrDivisionByZero, 1, "1\n"},
		{"x = 1.5; y = x / 0;", evaluator.ErrDivisionByZero, 1, ""},
		{"A = zeros(2);\nprint A[2, 0];", evaluator.ErrIndex, 2, ""},
		{"A = zeros(2); A[0, 0, 0] = 1;", evaluator.ErrIndex, 1, ""},
		{"print y;", evaluator.ErrUnbound, 1, ""},
		{"y += 1;", evaluator.ErrUnbound, 1, ""},
		{"x = 1 + \"a\";", evaluator.ErrOperandType, 1, ""},
		{"A = zeros(2); A[0, 0] = \"s\";", evaluator.ErrOperandType, 1, ""},
		{"n = 2; A = zeros(n, 3); B = ones(2);\nC = A .+ B;", mlang.ErrShape, 2, ""},
		{"A = ones(2, 3);\n\nB = A * A;", mlang.ErrShape, 3, ""},
		{"n = -1; A = zeros(n);", mlang.ErrShape, 1, ""},
		{"A = zeros(2); A[0] = [1, 2, 3];", mlang.ErrShape, 1, ""},
		{"for i = 0:2.5 print i;", evaluator.ErrOperandType, 1, ""},
		{"while (\"s\") print 1;", evaluator.ErrOperandType, 1, ""},
		{"n = 0; A = zeros(2, n); B = ones(n, 3); C = A * B;", mlang.ErrShape, 1, ""},
		{"A = zeros(0, 3); B = ones(3, 2); C = A * B;", mlang.ErrShape, 1, ""},
		{"A = [[], []];\nB = A';", mlang.ErrShape, 2, ""},
	} {
		var out bytes.Buffer
		prog, err := grammar.Parse(x.src)
		if err != nil {
			t.Fatalf("test %d: cannot parse: %v", i, err)
		}
		_, err = evaluator.NewInterpreter(&out).Run(prog)
		if err == nil {
			t.Errorf("test %d: expected runtime error, got none", i)
			continue
		}
		if !errors.Is(err, evaluator.ErrRuntime) || !errors.Is(err, x.cause) {
			t.Errorf("test %d: expected runtime error caused by %v, got %v", i, x.cause, err)
		}
		var rterr *evaluator.RuntimeError
		if errors.As(err, &rterr) && rterr.Line != x.line {
			t.Errorf("test %d: expected error in line %d, got %d", i, x.line, rterr.Line)
		}
		if out.String() != x.output {
			t.Errorf("test %d: expected output %q before error, got %q", i, x.output, out.String())
		}
	}
}

func TestFramesAfterError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.runtime")
	defer teardown()
	//
	var out bytes.Buffer
	intp := evaluator.NewInterpreter(&out)
	prog, _ := grammar.Parse("for i = 0:3 { while (1) { { z = 1 / 0; } } }")
	if _, err := intp.Run(prog); err == nil {
		t.Fatalf("expected division by zero")
	}
	prog, _ = grammar.Parse("w = 1;")
	if _, err := intp.Run(prog); err != nil {
		t.Fatal(err)
	}
	if _, ok := intp.Globals().Lookup("w"); !ok {
		t.Errorf("expected w to be bound globally after an aborted run")
	}
	if _, ok := intp.Globals().Lookup("z"); ok {
		t.Errorf("z must not leak into the global frame")
	}
}

// --- Helpers ---------------------------------------------------------------

func run(t *testing.T, i int, src string, out *bytes.Buffer) mlang.Value {
	t.Helper()
	prog, err := grammar.Parse(src)
	if err != nil {
		t.Fatalf("test %d: cannot parse %q: %v", i, src, err)
	}
	v, err := evaluator.NewInterpreter(out).Run(prog)
	if err != nil {
		t.Errorf("test %d: unexpected runtime error: %v", i, err)
	}
	return v
}
