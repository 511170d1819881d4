package breakout

import "strings"

// silhouette is an ASCII stamp used by the reserved mythic seed.
type silhouette struct {
	name string
	rows []string
}

func (s silhouette) width() int  { return len(s.rows[0]) }
func (s silhouette) height() int { return len(s.rows) }

func (s silhouette) cells() int {
	n := 0
	for _, r := range s.rows {
		n += strings.Count(r, "#")
	}
	return n
}

// Largest first. Every pattern is symmetric with the top-centre cell set.
var silhouettes = []silhouette{
	{name: "large", rows: []string{
		"......#......",
		".....###.....",
		"..#.#####.#..",
		".###########.",
		"#############",
		"##.##.#.##.##",
		".#...###...#.",
		".....#.#.....",
	}},
	{name: "medium", rows: []string{
		"....#....",
		"...###...",
		"#.#####.#",
		"#########",
		".##.#.##.",
		"..#...#..",
	}},
	{name: "small", rows: []string{
		"..#..",
		".###.",
		"#####",
		".#.#.",
	}},
}

// pickSilhouette returns the largest pattern that fits the grid with a
// one-cell horizontal margin and whose stamped cell count stays within the cap.
func pickSilhouette(rows, cols, maxBricks int, mirror bool) (silhouette, bool) {
	for _, s := range silhouettes {
		if s.width()+2 > cols || s.height()+1 > rows {
			continue
		}
		n := s.cells()
		if mirror {
			n *= 2
		}
		if n > maxBricks {
			continue
		}
		return s, true
	}
	return silhouette{}, false
}
