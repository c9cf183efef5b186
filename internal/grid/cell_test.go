package grid

import "testing"

func TestFromWorld(t *testing.T) {
	cases := []struct {
		name string
		pos  Vec2
		want Cell
		ok   bool
	}{
		{"origin", Vec2{0, 0}, Cell{0, 0}, true},
		{"rounds down below half", Vec2{1.49, 2.2}, Cell{1, 2}, true},
		{"rounds up at half", Vec2{1.5, 0.5}, Cell{2, 1}, true},
		{"slightly negative snaps to zero", Vec2{-0.4, -0.2}, Cell{0, 0}, true},
		{"negative beyond half rejected", Vec2{-0.6, 1}, Cell{}, false},
		{"last cell", Vec2{4.4, 4.4}, Cell{4, 4}, true},
		{"past the edge rejected", Vec2{4.5, 0}, Cell{}, false},
	}
	for _, tc := range cases {
		got, ok := FromWorld(tc.pos, 5)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%s: FromWorld(%v) = %v, %v; want %v, %v", tc.name, tc.pos, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCellWorldRoundTrip(t *testing.T) {
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			c := Cell{X: x, Y: y}
			back, ok := FromWorld(c.World(), 4)
			if !ok || back != c {
				t.Fatalf("round trip of %v gave %v, %v", c, back, ok)
			}
		}
	}
}

func TestNeighbors4AreAdjacent(t *testing.T) {
	c := Cell{X: 3, Y: 3}
	for _, n := range c.Neighbors4() {
		if !c.Adjacent4(n) {
			t.Fatalf("%v is not adjacent to %v", n, c)
		}
	}
	if c.Adjacent4(Cell{X: 4, Y: 4}) {
		t.Fatalf("diagonal reported adjacent")
	}
}

func TestVec2Normalize(t *testing.T) {
	if got := (Vec2{}).Normalize(); !got.IsZero() {
		t.Fatalf("normalize of zero gave %v", got)
	}
	if l := (Vec2{X: 3, Y: 4}).Normalize().Len(); l < 0.999999 || l > 1.000001 {
		t.Fatalf("expected unit length, got %f", l)
	}
}
