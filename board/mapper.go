package board

import (
	"catanbench/game"
	"catanbench/utils"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Tile is one land hex. Neighbors only lists tiles present on the board.
type Tile struct {
	Coord         Axial         `json:"coordinate"`
	Resource      game.Resource `json:"resource"`
	Number        int           `json:"number,omitempty"`
	Name          string        `json:"name"`
	Neighbors     []Axial       `json:"neighbors"`
	Intersections []string      `json:"intersections"`
	Edges         []string      `json:"edges"`
}

// Intersection is a settlement spot where one to three tiles meet.
type Intersection struct {
	ID        string   `json:"id"`
	Tiles     []Axial  `json:"tiles"`
	TileNames []string `json:"tile_names"`
	Adjacent  []string `json:"adjacent_intersections"`
	Edges     []string `json:"connected_edges"`
}

// Edge is a road spot between two adjacent tiles.
type Edge struct {
	ID            string    `json:"id"`
	Tiles         [2]Axial  `json:"tiles"`
	TileNames     [2]string `json:"tile_names"`
	Intersections []string  `json:"intersections"`
	Name          string    `json:"name"`
}

// Mapper holds the topology generated for one board. It is rebuilt, not
// mutated, by RegisterTiles and is not safe for concurrent use: every game
// gets its own.
type Mapper struct {
	tiles  []*Tile
	coords map[Axial]*Tile
	names  map[string]Axial

	intersections []*Intersection
	byTileSet     map[string]*Intersection
	intersection  map[string]*Intersection

	edges []*Edge
	edge  map[string]*Edge

	ports      []Port
	portAccess map[string][]string
}

func NewMapper() *Mapper {
	m := &Mapper{}
	m.reset()
	m.portAccess = map[string][]string{}
	return m
}

func (m *Mapper) reset() {
	m.tiles = nil
	m.coords = map[Axial]*Tile{}
	m.names = map[string]Axial{}
	m.intersections = nil
	m.byTileSet = map[string]*Intersection{}
	m.intersection = map[string]*Intersection{}
	m.edges = nil
	m.edge = map[string]*Edge{}
}

// RegisterTiles replaces the board with the given tile records and regenerates
// intersections and edges. Malformed records are skipped with a warning.
// Registering the same records twice yields identical ids.
func (m *Mapper) RegisterTiles(records []game.TileRecord) {
	m.reset()

	for i, rec := range records {
		tile, err := parseTile(rec)
		if err != nil {
			log.Warn().Msgf("skipping tile record %d %+v: %v", i, rec, err)
			continue
		}
		if _, ok := m.coords[tile.Coord]; ok {
			log.Warn().Msgf("skipping tile record %d: duplicate coordinate %s", i, tile.Coord)
			continue
		}
		tile.Name = tileName(tile.Coord, tile.Resource, tile.Number)
		if _, taken := m.names[tile.Name]; taken {
			tile.Name = fmt.Sprintf("%s@%s", tile.Name, tile.Coord)
		}
		m.tiles = append(m.tiles, tile)
		m.coords[tile.Coord] = tile
		m.names[tile.Name] = tile.Coord
	}

	// Neighbour lists are filled once every tile is known so both sides agree.
	for _, tile := range m.tiles {
		for _, n := range Neighbors(tile.Coord) {
			if _, ok := m.coords[n]; ok {
				tile.Neighbors = append(tile.Neighbors, n)
			}
		}
	}

	m.generateIntersections()
	m.generateEdges()
}

func parseTile(rec game.TileRecord) (*Tile, error) {
	if len(rec.Coordinate) != 3 {
		return nil, fmt.Errorf("coordinate needs 3 components, got %d", len(rec.Coordinate))
	}
	cube := game.CubeCoord{X: rec.Coordinate[0], Y: rec.Coordinate[1], Z: rec.Coordinate[2]}
	if !cube.Valid() {
		return nil, fmt.Errorf("coordinate %v is off the cube plane", rec.Coordinate)
	}

	var resource game.Resource
	raw := strings.TrimSpace(rec.Resource)
	if raw != "" && !strings.EqualFold(raw, "desert") {
		r, ok := game.ParseResource(raw)
		if !ok {
			return nil, fmt.Errorf("unknown resource %q", rec.Resource)
		}
		resource = r
	}

	if rec.Number != 0 && (rec.Number < 2 || rec.Number > 12) {
		return nil, fmt.Errorf("number %d outside 2-12", rec.Number)
	}

	return &Tile{
		Coord:    CubeToAxial(cube),
		Resource: resource,
		Number:   rec.Number,
	}, nil
}

// tileName builds "E-Wheat6", "CENTER-Desert" or "(2,-1)-Ore8".
func tileName(c Axial, resource game.Resource, number int) string {
	var label string
	switch Distance(c, Axial{}) {
	case 0:
		label = "CENTER"
	case 1:
		label = DirectionNames[utils.FindIndex(Directions[:], c)]
	default:
		label = c.String()
	}

	switch {
	case resource == "":
		return label + "-Desert"
	case number > 0:
		return fmt.Sprintf("%s-%s%d", label, resource.DisplayName(), number)
	default:
		return fmt.Sprintf("%s-%s", label, resource.DisplayName())
	}
}

// cornerTiles returns the registered tiles meeting at corner k of tile, the tile itself first.
func (m *Mapper) cornerTiles(tile *Tile, k int) []Axial {
	result := []Axial{tile.Coord}
	for _, d := range corners[k] {
		n := Axial{Q: tile.Coord.Q + Directions[d].Q, R: tile.Coord.R + Directions[d].R}
		if _, ok := m.coords[n]; ok {
			result = append(result, n)
		}
	}
	return result
}

func tileSetKey(coords []Axial) string {
	sorted := append([]Axial(nil), coords...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })
	parts := make([]string, len(sorted))
	for i, c := range sorted {
		parts[i] = c.String()
	}
	return strings.Join(parts, "|")
}

func (m *Mapper) generateIntersections() {
	for _, tile := range m.tiles {
		for k := range corners {
			coords := m.cornerTiles(tile, k)
			key := tileSetKey(coords)
			if _, seen := m.byTileSet[key]; seen {
				continue
			}

			in := &Intersection{
				ID:    fmt.Sprintf("I%d", len(m.intersections)),
				Tiles: coords,
			}
			for _, c := range coords {
				owner := m.coords[c]
				in.TileNames = append(in.TileNames, owner.Name)
				owner.Intersections = append(owner.Intersections, in.ID)
			}
			m.intersections = append(m.intersections, in)
			m.byTileSet[key] = in
			m.intersection[in.ID] = in
		}
	}
}

func (m *Mapper) generateEdges() {
	seen := map[string]bool{}
	for _, tile := range m.tiles {
		for d, n := range Neighbors(tile.Coord) {
			other, ok := m.coords[n]
			if !ok {
				continue
			}
			key := tileSetKey([]Axial{tile.Coord, n})
			if seen[key] {
				continue
			}
			seen[key] = true

			first, second := tile, other
			if second.Coord.less(first.Coord) {
				first, second = second, first
			}
			e := &Edge{
				ID:        fmt.Sprintf("E%d", len(m.edges)),
				Tiles:     [2]Axial{first.Coord, second.Coord},
				TileNames: [2]string{first.Name, second.Name},
			}
			e.Name = e.TileNames[0] + "--" + e.TileNames[1]

			// The two corners flanking direction d are shared by both tiles.
			for k, pair := range corners {
				if pair[0] != d && pair[1] != d {
					continue
				}
				if in, ok := m.byTileSet[tileSetKey(m.cornerTiles(tile, k))]; ok {
					e.Intersections = utils.AppendUnique(e.Intersections, in.ID)
				}
			}

			m.edges = append(m.edges, e)
			m.edge[e.ID] = e
			first.Edges = append(first.Edges, e.ID)
			second.Edges = append(second.Edges, e.ID)
			for _, id := range e.Intersections {
				in := m.intersection[id]
				in.Edges = append(in.Edges, e.ID)
				for _, otherID := range e.Intersections {
					if otherID != id {
						in.Adjacent = utils.AppendUnique(in.Adjacent, otherID)
					}
				}
			}
		}
	}
}

// Tile looks up a registered tile.
func (m *Mapper) Tile(a Axial) (Tile, bool) {
	t, ok := m.coords[a]
	if !ok {
		return Tile{}, false
	}
	return *t, true
}

// Tiles returns the tiles in registration order.
func (m *Mapper) Tiles() []Tile {
	result := make([]Tile, len(m.tiles))
	for i, t := range m.tiles {
		result[i] = *t
	}
	return result
}

// Intersections returns the intersections in id order.
func (m *Mapper) Intersections() []Intersection {
	result := make([]Intersection, len(m.intersections))
	for i, in := range m.intersections {
		result[i] = *in
	}
	return result
}

func (m *Mapper) Intersection(id string) (Intersection, bool) {
	in, ok := m.intersection[id]
	if !ok {
		return Intersection{}, false
	}
	return *in, true
}

// Edges returns the edges in id order.
func (m *Mapper) Edges() []Edge {
	result := make([]Edge, len(m.edges))
	for i, e := range m.edges {
		result[i] = *e
	}
	return result
}

// EdgeIDs is the fixed edge ordering road moves are matched against.
func (m *Mapper) EdgeIDs() []string {
	ids := make([]string, len(m.edges))
	for i, e := range m.edges {
		ids[i] = e.ID
	}
	return ids
}

// IntersectionDescription renders e.g. "I3: Corner of A, B, C - Provides access to Wheat Port (2:1)".
func (m *Mapper) IntersectionDescription(id string) string {
	in, ok := m.intersection[id]
	if !ok {
		return "Unknown intersection " + id
	}

	var desc string
	names := in.TileNames
	switch len(names) {
	case 3:
		desc = fmt.Sprintf("%s: Corner of %s, %s, %s", id, names[0], names[1], names[2])
	case 2:
		desc = fmt.Sprintf("%s: Edge corner of %s and %s", id, names[0], names[1])
	case 1:
		desc = fmt.Sprintf("%s: Edge of %s", id, names[0])
	default:
		desc = fmt.Sprintf("%s: %s", id, strings.Join(names, "/"))
	}

	if ports := m.portAccess[id]; len(ports) > 0 {
		desc += " - Provides access to " + strings.Join(ports, ", ")
	}
	return desc
}

// EdgeDescription renders e.g. "E5: Road between A and B".
func (m *Mapper) EdgeDescription(id string) string {
	e, ok := m.edge[id]
	if !ok {
		return "Unknown edge " + id
	}
	return fmt.Sprintf("%s: Road between %s and %s", id, e.TileNames[0], e.TileNames[1])
}

// HasIntersection reports whether id was generated for this board.
func (m *Mapper) HasIntersection(id string) bool {
	_, ok := m.intersection[id]
	return ok
}
