package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/mlang"
	"github.com/npillmayer/mlang/evaluator"
	"github.com/npillmayer/mlang/semantic"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSessionPhases(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.cli")
	defer teardown()
	//
	for i, x := range []struct {
		src    string
		ph     phase
		out    string
		errout string
		code   int
	}{
		{"A = zeros(3); print A[0,0];", phaseRun, "0\n", "", 0},
		{"A = zeros(3); print A[0,0];", phaseCheck, "", "", 0},
		{"print 1 +;", phaseRun, "", "syntax error", 2},
		{"print y; break;", phaseRun, "", "semantic error", 3},
		{"print 1; x = 1 / 0;", phaseRun, "1\n", "runtime error", 1},
		{"x = 1;", phaseAST, "=\n|  x\n|  1\n", "", 0},
	} {
		var out, errout bytes.Buffer
		s := newSession(&out, &errout)
		s.colored = false
		_, err := s.process(x.src, x.ph)
		if code := exitCode(err); code != x.code {
			t.Errorf("test %d: expected exit code %d, got %d (%v)", i, x.code, code, err)
		}
		if out.String() != x.out {
			t.Errorf("test %d: expected output %q, got %q", i, x.out, out.String())
		}
		if !strings.Contains(errout.String(), x.errout) {
			t.Errorf("test %d: expected error output to contain %q, got %q", i, x.errout, errout.String())
		}
	}
}

func TestSessionKeepsGlobals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.cli")
	defer teardown()
	//
	var out, errout bytes.Buffer
	s := newSession(&out, &errout)
	for _, line := range []string{"A = eye(2);", "A[0, 1] = 7;", "print A;"} {
		if _, err := s.process(line, phaseRun); err != nil {
			t.Fatalf("statement %q failed: %v", line, err)
		}
	}
	if out.String() != "[[1, 7], [0, 1]]\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	v, err := s.process("for i = 0:5 if (i == 3) return A[0, 1] * i;", phaseRun)
	if err != nil || v != mlang.Int(21) {
		t.Errorf("expected return value 21, got %v (%v)", v, err)
	}
	_, err = s.process("print B;", phaseRun)
	if !errors.Is(err, semantic.ErrSemantic) || errors.Is(err, evaluator.ErrRuntime) {
		t.Errorf("expected unknown variable to be caught by analysis, got %v", err)
	}
}

func TestProcessFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "mlang.cli")
	defer teardown()
	//
	dir := t.TempDir()
	path := filepath.Join(dir, "loop.m")
	src := "i = 0;\nwhile (i < 3) { i += 1; }\nbreak;\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	var out, errout bytes.Buffer
	s := newSession(&out, &errout)
	if code := processFile(path, phaseCheck, s); code != 3 {
		t.Errorf("expected exit code 3 for misplaced break, got %d", code)
	}
	if !strings.Contains(errout.String(), "line 3") {
		t.Errorf("expected diagnostic for line 3, got %q", errout.String())
	}
	if code := processFile(filepath.Join(dir, "missing.m"), phaseRun, s); code != 0 {
		t.Errorf("expected a missing file to exit with 0, got %d", code)
	}
}
