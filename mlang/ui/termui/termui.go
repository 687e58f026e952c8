// Package termui provides objects and methods for interactive UI in terminal windows.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
//
package termui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/npillmayer/mlang"
	"github.com/npillmayer/schuko/tracing"
)

// trace traces with key 'mlang.cli'.
func trace() tracing.Trace {
	return tracing.Select("mlang.cli")
}

// Formatter writes items to an output. It returns false if it does not know
// how to format an item.
type Formatter interface {
	Format(interface{}, io.Writer) (bool, error)
}

// DefaultFormatter formats runtime values, strings and tables.
type DefaultFormatter struct{}

// Format writes an item, prefixed by a marker. Matrices of rank 2 are
// rendered as tables.
func (df DefaultFormatter) Format(item interface{}, w io.Writer) (bool, error) {
	var err error
	switch t := item.(type) {
	case nil:
		_, err = io.WriteString(w, "▶ (empty)\n")
	case string:
		_, err = fmt.Fprintf(w, "▶ %s\n", t)
	case mlang.Matrix:
		if shape := t.Shape(); shape.Rank() == 2 && shape[0] > 0 && shape[1] > 0 {
			_, err = fmt.Fprintf(w, "▶ matrix %v\n%s\n", shape, MatrixTable(t).Render())
		} else {
			_, err = fmt.Fprintf(w, "▶ matrix %v %s\n", shape, t)
		}
	case mlang.Value:
		_, err = fmt.Fprintf(w, "▶ %s %s\n", t.Type(), t)
	case table.Writer:
		_, err = fmt.Fprintf(w, "%s\n", t.Render())
	default:
		_, err = fmt.Fprintf(w, "▶ object of type %T\n", t)
	}
	return err == nil, err
}

// MatrixTable renders a matrix of rank 2 as a table with one row per matrix
// row.
func MatrixTable(m mlang.Matrix) table.Writer {
	tw := table.NewWriter()
	for _, r := range m {
		row := table.Row{}
		if sub, ok := r.(mlang.Matrix); ok {
			for _, e := range sub {
				row = append(row, e.String())
			}
		}
		tw.AppendRow(row)
	}
	tw.SetStyle(table.StyleLight)
	return tw
}
