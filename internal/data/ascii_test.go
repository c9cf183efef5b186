package data

import (
	"errors"
	"strings"
	"testing"
)

func TestParseASCII(t *testing.T) {
	src := `
#..
.M#
...
`
	l, size, err := ParseASCII(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if size != 3 {
		t.Fatalf("size = %d", size)
	}
	if len(l.Walls) != 2 || l.Walls[0] != (Point{X: 0, Y: 0}) || l.Walls[1] != (Point{X: 2, Y: 1}) {
		t.Fatalf("walls = %v", l.Walls)
	}
	// Left neighbour (0,1) is free, so it is the use cell.
	if len(l.Machines) != 1 || l.Machines[0] != (MachineEntry{X: 1, Y: 1, UseX: -1, UseY: 0}) {
		t.Fatalf("machines = %v", l.Machines)
	}
}

func TestParseASCIIRejectsWideRows(t *testing.T) {
	_, _, err := ParseASCII(strings.NewReader("....\n....\n"))
	if !errors.Is(err, ErrNotSquare) {
		t.Fatalf("expected ErrNotSquare, got %v", err)
	}
}

func TestParseASCIIUnknownSymbol(t *testing.T) {
	if _, _, err := ParseASCII(strings.NewReader("#?\n..\n")); err == nil {
		t.Fatalf("expected error for unknown symbol")
	}
}
