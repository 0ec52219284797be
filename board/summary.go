package board

import (
	"fmt"
	"sort"
	"strings"
)

// Summary lists every tile, centre outwards, with up to three named neighbours.
func (m *Mapper) Summary() string {
	tiles := m.Tiles()
	sort.SliceStable(tiles, func(i, j int) bool {
		di, dj := Distance(tiles[i].Coord, Axial{}), Distance(tiles[j].Coord, Axial{})
		if di != dj {
			return di < dj
		}
		return tiles[i].Coord.less(tiles[j].Coord)
	})

	lines := []string{"=== AXIAL COORDINATE BOARD ==="}
	for _, t := range tiles {
		line := fmt.Sprintf("%s @%s", t.Name, t.Coord)
		switch {
		case t.Resource == "":
			line += ": Desert"
		case t.Number > 0:
			line += fmt.Sprintf(": %s %d", t.Resource.DisplayName(), t.Number)
		default:
			line += ": " + t.Resource.DisplayName()
		}

		var names []string
		for _, n := range t.Neighbors {
			names = append(names, fmt.Sprintf("%s@%s", m.coords[n].Name, n))
		}
		if len(names) > 3 {
			line += fmt.Sprintf(" [Adjacent: %s...]", strings.Join(names[:3], ", "))
		} else if len(names) > 0 {
			line += fmt.Sprintf(" [Adjacent: %s]", strings.Join(names, ", "))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
