// layoutconv converts an ASCII map ('#' wall, 'M' machine, '.' free) to a
// layout yaml file and reports how the free cells split into regions.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gridcolony/navsim/internal/core/ecs"
	"github.com/gridcolony/navsim/internal/data"
	"github.com/gridcolony/navsim/internal/grid"
	"github.com/gridcolony/navsim/internal/reach"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: layoutconv <map.txt> <output.yaml>")
		os.Exit(1)
	}

	inFile, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer inFile.Close()

	layout, size, err := data.ParseASCII(inFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Regions as agents see them: walls block, machines do not.
	walls := grid.NewIndex(grid.Wall, size, nil)
	for i, p := range layout.Walls {
		_ = walls.Insert(ecs.EntityID(i+1), p.Cell())
	}
	part, err := reach.Build(context.Background(), walls)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	raw, err := yaml.Marshal(layout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	header := fmt.Sprintf("# Layout auto-generated from %s (%dx%d, %d walls, %d machines, %d regions)\n",
		os.Args[1], size, size, len(layout.Walls), len(layout.Machines), part.Len())
	if err := os.WriteFile(os.Args[2], append([]byte(header), raw...), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d walls and %d machines to %s\n", len(layout.Walls), len(layout.Machines), os.Args[2])
	if part.Len() > 1 {
		fmt.Printf("warning: free cells form %d disconnected regions\n", part.Len())
	}
}
