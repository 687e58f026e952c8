package evaluator

import (
	"fmt"

	"github.com/npillmayer/mlang"
	"github.com/npillmayer/mlang/ast"
)

// binary applies a binary operator to two values. Dotted operators and the
// additive operators work elementwise on matrices of equal shape, '*' is a
// matrix product for two matrices and a scaling for a scalar and a matrix.
func binary(op string, l, r mlang.Value) (mlang.Value, error) {
	lm, lmat := l.(mlang.Matrix)
	rm, rmat := r.(mlang.Matrix)
	switch {
	case !lmat && !rmat:
		if ast.IsElementwise(op) {
			return nil, wrongOperands(op, l, r)
		}
		return scalar(op, l, r)
	case lmat && rmat:
		switch {
		case ast.IsElementwise(op), op == "+", op == "-":
			return zip(ast.ElementOp(op), lm, rm)
		case op == "*":
			return multiply(lm, rm)
		}
	case op == "*" && lmat && r.Type().IsNumeric():
		return scale(lm, r, false)
	case op == "*" && rmat && l.Type().IsNumeric():
		return scale(rm, l, true)
	}
	return nil, wrongOperands(op, l, r)
}

func wrongOperands(op string, l, r mlang.Value) error {
	return fmt.Errorf("%w: operator %s not defined for %s and %s", ErrOperandType, op, l.Type(), r.Type())
}

// scalar applies an operator to two scalars. Integer arithmetic stays in the
// integers, except for division, which always yields a float.
func scalar(op string, l, r mlang.Value) (mlang.Value, error) {
	if ast.IsRelational(op) {
		return compare(op, l, r)
	}
	li, lint := l.(mlang.Int)
	ri, rint := r.(mlang.Int)
	if lint && rint && op != "/" {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		}
	}
	lf, lnum := mlang.AsFloat(l)
	rf, rnum := mlang.AsFloat(r)
	if lnum && rnum {
		switch op {
		case "+":
			return mlang.Float(lf + rf), nil
		case "-":
			return mlang.Float(lf - rf), nil
		case "*":
			return mlang.Float(lf * rf), nil
		case "/":
			if rf == 0 {
				return nil, ErrDivisionByZero
			}
			return mlang.Float(lf / rf), nil
		}
	}
	if ls, ok := l.(mlang.String); ok && op == "+" {
		if rs, ok := r.(mlang.String); ok {
			return ls + rs, nil
		}
	}
	return nil, wrongOperands(op, l, r)
}

// compare implements the relational operators for numbers and strings.
// Booleans may be compared for equality only.
func compare(op string, l, r mlang.Value) (mlang.Value, error) {
	var c int
	li, lint := l.(mlang.Int)
	ri, rint := r.(mlang.Int)
	lf, lnum := mlang.AsFloat(l)
	rf, rnum := mlang.AsFloat(r)
	ls, lstr := l.(mlang.String)
	rs, rstr := r.(mlang.String)
	lb, lbool := l.(mlang.Bool)
	rb, rbool := r.(mlang.Bool)
	switch {
	case lint && rint:
		c = cmp3(li < ri, li > ri)
	case lnum && rnum:
		c = cmp3(lf < rf, lf > rf)
	case lstr && rstr:
		c = cmp3(ls < rs, ls > rs)
	case lbool && rbool && (op == "==" || op == "!="):
		c = cmp3(lb != rb, false)
	default:
		return nil, wrongOperands(op, l, r)
	}
	switch op {
	case "==":
		return mlang.Bool(c == 0), nil
	case "!=":
		return mlang.Bool(c != 0), nil
	case "<":
		return mlang.Bool(c < 0), nil
	case "<=":
		return mlang.Bool(c <= 0), nil
	case ">":
		return mlang.Bool(c > 0), nil
	case ">=":
		return mlang.Bool(c >= 0), nil
	}
	return nil, wrongOperands(op, l, r)
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

// zip combines two matrices of equal shape element by element.
func zip(op string, l, r mlang.Matrix) (mlang.Matrix, error) {
	if ls, rs := l.Shape(), r.Shape(); !ls.Matches(rs) {
		return nil, fmt.Errorf("%w: operator %s needs equal shapes, have %v and %v", mlang.ErrShape, op, ls, rs)
	}
	result := make(mlang.Matrix, len(l))
	for i := range l {
		var err error
		lsub, lok := l[i].(mlang.Matrix)
		rsub, rok := r[i].(mlang.Matrix)
		if lok && rok {
			result[i], err = zip(op, lsub, rsub)
		} else {
			result[i], err = scalar(op, l[i], r[i])
		}
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// scale multiplies every element of m by a scalar s. If left is set, s is the
// left operand.
func scale(m mlang.Matrix, s mlang.Value, left bool) (mlang.Matrix, error) {
	return mapElements(m, func(e mlang.Value) (mlang.Value, error) {
		if left {
			return scalar("*", s, e)
		}
		return scalar("*", e, s)
	})
}

func mapElements(m mlang.Matrix, f func(mlang.Value) (mlang.Value, error)) (mlang.Matrix, error) {
	result := make(mlang.Matrix, len(m))
	for i, e := range m {
		var err error
		if sub, ok := e.(mlang.Matrix); ok {
			result[i], err = mapElements(sub, f)
		} else {
			result[i], err = f(e)
		}
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// multiply calculates the matrix product of l and r. A rank-1 left operand is
// a row vector, a rank-1 right operand is a column vector. The result is
// always of rank 2.
func multiply(l, r mlang.Matrix) (mlang.Matrix, error) {
	shape, err := mlang.MulShape(l.Shape(), r.Shape())
	if err != nil {
		return nil, err
	}
	a, b := rows(l, true), rows(r, false)
	k := len(b)
	prod, allocErr := mlang.NewMatrix(shape, func(index []int) mlang.Value {
		if err != nil {
			return nil
		}
		var sum mlang.Value = mlang.Int(0)
		for x := 0; x < k; x++ {
			var p mlang.Value
			if p, err = scalar("*", a[index[0]][x], b[x][index[1]]); err != nil {
				return nil
			}
			if sum, err = scalar("+", sum, p); err != nil {
				return nil
			}
		}
		return sum
	})
	if allocErr != nil {
		return nil, allocErr
	} else if err != nil {
		return nil, err
	}
	return prod, nil
}

// rows views a matrix of rank 1 or 2 as a list of rows.
func rows(m mlang.Matrix, rowVector bool) [][]mlang.Value {
	if m.Shape().Rank() == 1 {
		if rowVector {
			return [][]mlang.Value{m}
		}
		column := make([][]mlang.Value, len(m))
		for i, e := range m {
			column[i] = []mlang.Value{e}
		}
		return column
	}
	rs := make([][]mlang.Value, len(m))
	for i, row := range m {
		rs[i] = row.(mlang.Matrix)
	}
	return rs
}

// unary applies negation or transposition.
func unary(op string, v mlang.Value) (mlang.Value, error) {
	switch op {
	case "-":
		switch x := v.(type) {
		case mlang.Int:
			return -x, nil
		case mlang.Float:
			return -x, nil
		case mlang.Matrix:
			return mapElements(x, func(e mlang.Value) (mlang.Value, error) {
				return unary("-", e)
			})
		}
	case ast.Transpose:
		if m, ok := v.(mlang.Matrix); ok {
			return transpose(m)
		}
	}
	return nil, fmt.Errorf("%w: operator %s not defined for %s", ErrOperandType, op, v.Type())
}

func transpose(m mlang.Matrix) (mlang.Matrix, error) {
	shape, err := mlang.TransposeShape(m.Shape())
	if err != nil {
		return nil, err
	}
	if shape.Rank() == 1 {
		return m.Clone(), nil
	}
	return mlang.NewMatrix(shape, func(index []int) mlang.Value {
		return m[index[1]].(mlang.Matrix)[index[0]]
	})
}
