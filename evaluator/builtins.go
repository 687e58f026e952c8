package evaluator

import (
	"fmt"
	"strings"

	"github.com/npillmayer/mlang"
	"github.com/npillmayer/mlang/ast"
)

// print writes the text forms of its arguments, separated by blanks and
// followed by a newline.
func (intp *Interpreter) print(fn *ast.FunctionalInstruction) error {
	texts := make([]string, len(fn.Args))
	for i, arg := range fn.Args {
		v, err := intp.eval(arg)
		if err != nil {
			return err
		}
		texts[i] = v.String()
	}
	if _, err := fmt.Fprintln(intp.out, strings.Join(texts, " ")); err != nil {
		return runtimeError(fn.Line(), "print", err)
	}
	return nil
}

// construct evaluates one of the matrix constructors eye, zeros and ones.
// With a single argument n the result is a square n×n matrix, with two
// arguments n and m it has n rows and m columns. Sizes must be positive.
func (intp *Interpreter) construct(fn *ast.FunctionalInstruction) (mlang.Value, error) {
	var fill func([]int) mlang.Value
	switch fn.Name {
	case "zeros":
		fill = func([]int) mlang.Value { return mlang.Int(0) }
	case "ones":
		fill = func([]int) mlang.Value { return mlang.Int(1) }
	case "eye":
		fill = func(index []int) mlang.Value {
			if index[0] == index[1] {
				return mlang.Int(1)
			}
			return mlang.Int(0)
		}
	default:
		return nil, runtimeError(fn.Line(), fn.Name, fmt.Errorf("not a matrix constructor"))
	}
	if len(fn.Args) < 1 || len(fn.Args) > 2 {
		return nil, runtimeError(fn.Line(), fn.Name,
			fmt.Errorf("%w: expected 1 or 2 arguments, got %d", ErrOperandType, len(fn.Args)))
	}
	shape := make(mlang.Shape, 0, 2)
	for _, arg := range fn.Args {
		v, err := intp.eval(arg)
		if err != nil {
			return nil, err
		}
		n, ok := v.(mlang.Int)
		if !ok {
			return nil, runtimeError(arg.Line(), fn.Name,
				fmt.Errorf("%w: size must be an integer, is %s", ErrOperandType, v.Type()))
		}
		if n < 1 {
			return nil, runtimeError(arg.Line(), fn.Name,
				fmt.Errorf("%w: size must be positive, is %d", mlang.ErrShape, n))
		}
		shape = append(shape, int(n))
	}
	if len(shape) == 1 {
		shape = append(shape, shape[0])
	}
	tracer().P("shape", shape).Debugf("%s", fn.Name)
	m, err := mlang.NewMatrix(shape, fill)
	if err != nil {
		return nil, runtimeError(fn.Line(), fn.Name, err)
	}
	return m, nil
}
