package board

import (
	"catanbench/game"
	"fmt"
	"strings"
)

// Port is a harbour derived from the engine's port registry. Its placement
// is approximate: only the served node ids are taken from the engine.
type Port struct {
	ID            string   `json:"id"`
	Resource      string   `json:"resource"`
	Ratio         string   `json:"trade_ratio"`
	Direction     string   `json:"direction"`
	Nodes         []int    `json:"nodes"`
	Intersections []string `json:"intersections"`
}

// Description renders "Wheat Port (2:1)" or "Any Port (3:1)".
func (p Port) Description() string {
	return fmt.Sprintf("%s Port (%s)", p.Resource, p.Ratio)
}

var portDirections = map[int]string{
	0: "West",
	1: "Northwest",
	2: "Northeast",
	3: "East",
	4: "Southeast",
	5: "Southwest",
}

// MapExternalBoard rebuilds the port registry and the intersection -> port
// access table. Node ids are taken to equal intersection ordinals, so node n
// is reported as "In".
func (m *Mapper) MapExternalBoard(b *game.Board) {
	m.ports = nil
	m.portAccess = map[string][]string{}
	if b == nil {
		return
	}

	for i, rec := range b.Ports {
		p := Port{
			ID:        fmt.Sprintf("P%d", i),
			Resource:  "Any",
			Ratio:     "3:1",
			Direction: "Unknown",
		}
		if r, ok := game.ParseResource(rec.Resource); ok {
			p.Resource = r.DisplayName()
			p.Ratio = "2:1"
		} else if strings.TrimSpace(rec.Resource) != "" {
			p.Resource = strings.TrimSpace(rec.Resource)
		}
		if name, ok := portDirections[rec.Direction]; ok {
			p.Direction = name
		}

		for _, node := range rec.Nodes {
			id := fmt.Sprintf("I%d", node)
			p.Nodes = append(p.Nodes, node)
			p.Intersections = append(p.Intersections, id)
			m.portAccess[id] = append(m.portAccess[id], p.Description())
		}
		m.ports = append(m.ports, p)
	}
}

// Rebuild registers the board's tiles and ports in one step.
func (m *Mapper) Rebuild(b *game.Board) {
	if b == nil {
		m.RegisterTiles(nil)
		m.MapExternalBoard(nil)
		return
	}
	m.RegisterTiles(b.Tiles)
	m.MapExternalBoard(b)
}

// Ports returns the registry in engine order.
func (m *Mapper) Ports() []Port {
	return append([]Port(nil), m.ports...)
}

// PortAccess lists the port descriptions reachable from an intersection id.
func (m *Mapper) PortAccess(id string) []string {
	return append([]string(nil), m.portAccess[id]...)
}
