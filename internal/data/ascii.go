package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/gridcolony/navsim/internal/grid"
)

var ErrNotSquare = errors.New("map is not square")

// ParseASCII reads a square text map, one row per line from y = 0:
// '#' wall, 'M' machine, '.' or ' ' free. Each machine is used from its
// first free 4-neighbour (left, down, right, up). Returns the layout and the
// side length.
func ParseASCII(r io.Reader) (*Layout, int, error) {
	var rows []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" && len(rows) == 0 {
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("read map: %w", err)
	}
	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	size := len(rows)
	for y, row := range rows {
		if len(row) > size {
			return nil, 0, fmt.Errorf("row %d has %d columns for %d rows: %w", y, len(row), size, ErrNotSquare)
		}
	}

	at := func(c grid.Cell) byte {
		if !c.In(size) || c.X >= len(rows[c.Y]) {
			return '.'
		}
		return rows[c.Y][c.X]
	}
	l := &Layout{}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := grid.Cell{X: x, Y: y}
			switch ch := at(c); ch {
			case '#':
				l.Walls = append(l.Walls, Point{X: x, Y: y})
			case 'M':
				m := MachineEntry{X: x, Y: y}
				for _, n := range c.Neighbors4() {
					if n.In(size) && (at(n) == '.' || at(n) == ' ') {
						m.UseX, m.UseY = n.X-x, n.Y-y
						break
					}
				}
				l.Machines = append(l.Machines, m)
			case '.', ' ':
			default:
				return nil, 0, fmt.Errorf("unknown map symbol %q at (%d,%d)", ch, x, y)
			}
		}
	}
	return l, size, nil
}
