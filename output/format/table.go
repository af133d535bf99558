package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Justification aligns a cell inside its column.
type Justification int

const (
	Left Justification = iota
	Right
)

// ColumnInfo describes one column of a TablePrinter.
type ColumnInfo struct {
	Name          string
	Width         int
	Justification Justification
}

// TablePrinter writes a column-aligned table one cell at a time.
//
// Values are buffered with Cell and committed with ColumnBreak. A new line starts
// automatically when a cell is committed after the last column has been filled, so
// rows never need to be closed explicitly. The header is printed lazily by the first
// committed cell, or by Open.
type TablePrinter struct {
	w       *StickyWriter
	width   int
	columns []ColumnInfo
	cell    strings.Builder
	current int
	isOpen  bool
}

// NewTablePrinter creates a table writing to w. consoleWidth sizes the separator line.
func NewTablePrinter(w io.Writer, consoleWidth int, columns []ColumnInfo) *TablePrinter {
	return &TablePrinter{
		w:       NewStickyWriter(w),
		width:   consoleWidth,
		columns: columns,
		current: -1,
	}
}

// Columns returns the column layout.
func (tp *TablePrinter) Columns() []ColumnInfo {
	return tp.columns
}

// IsOpen reports whether the header has been printed and the table not yet closed.
func (tp *TablePrinter) IsOpen() bool {
	return tp.isOpen
}

// Open prints the header. It does nothing if the table is already open.
func (tp *TablePrinter) Open() {
	if tp.isOpen {
		return
	}
	tp.isOpen = true
	tp.RowBreak()
	for _, col := range tp.columns {
		tp.Cell(col.Name).ColumnBreak()
	}
	tp.RowBreak()
	tp.w.Print(LineOfChars('-', tp.width) + "\n")
}

// Close ends the current row and prints a blank line. It does nothing if the table
// is not open.
func (tp *TablePrinter) Close() {
	if !tp.isOpen {
		return
	}
	tp.RowBreak()
	tp.w.Print("\n")
	tp.isOpen = false
}

// Cell appends v to the pending cell.
func (tp *TablePrinter) Cell(v any) *TablePrinter {
	fmt.Fprint(&tp.cell, v)
	return tp
}

// ColumnBreak commits the pending cell to the next column.
// A table without columns discards its cells.
func (tp *TablePrinter) ColumnBreak() *TablePrinter {
	text := tp.cell.String()
	size := runewidth.StringWidth(text)
	tp.cell.Reset()
	if len(tp.columns) == 0 {
		return tp
	}

	tp.Open()
	if tp.current == len(tp.columns)-1 {
		tp.current = -1
		tp.w.Print("\n")
	}
	tp.current++

	col := tp.columns[tp.current]
	padding := ""
	if size+2 < col.Width {
		padding = strings.Repeat(" ", col.Width-(size+2))
	}
	if col.Justification == Left {
		tp.w.Print(text + padding + " ")
	} else {
		tp.w.Print(padding + text + " ")
	}
	return tp
}

// RowBreak ends the current row if any cell past the first one has been written.
func (tp *TablePrinter) RowBreak() *TablePrinter {
	if tp.current > 0 {
		tp.w.Print("\n")
		tp.current = -1
	}
	return tp
}

// Err returns the first error returned by the underlying writer.
func (tp *TablePrinter) Err() error {
	return tp.w.Err()
}
