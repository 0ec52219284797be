package game

import "strings"

// Resource is one of the five resource card kinds.
type Resource string

const (
	Wood  Resource = "WOOD"
	Brick Resource = "BRICK"
	Sheep Resource = "SHEEP"
	Wheat Resource = "WHEAT"
	Ore   Resource = "ORE"
)

// Resources is the fixed resource order used by every 5-element count block.
var Resources = [5]Resource{Wood, Brick, Sheep, Wheat, Ore}

// ParseResource accepts any casing ("wheat", "Wheat", "WHEAT").
func ParseResource(s string) (Resource, bool) {
	r := Resource(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Resources {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// DisplayName returns the title-cased name used in tile names ("Wheat").
func (r Resource) DisplayName() string {
	if r == "" {
		return "Desert"
	}
	s := strings.ToLower(string(r))
	return strings.ToUpper(s[:1]) + s[1:]
}

// Color identifies a seat at the table.
type Color string

const (
	Red    Color = "RED"
	Blue   Color = "BLUE"
	White  Color = "WHITE"
	Orange Color = "ORANGE"
)

// Colors is the seating order. Seat i always plays Colors[i].
var Colors = [4]Color{Red, Blue, White, Orange}

// DevCard is a development card kind.
type DevCard string

const (
	Knight       DevCard = "KNIGHT"
	YearOfPlenty DevCard = "YEAR_OF_PLENTY"
	Monopoly     DevCard = "MONOPOLY"
	RoadBuilding DevCard = "ROAD_BUILDING"
	VictoryPoint DevCard = "VICTORY_POINT"
)

var DevCards = [5]DevCard{Knight, YearOfPlenty, Monopoly, RoadBuilding, VictoryPoint}

// Prompt is what the rules engine is currently asking the acting player for.
type Prompt string

const (
	BuildInitialSettlement Prompt = "BUILD_INITIAL_SETTLEMENT"
	BuildInitialRoad       Prompt = "BUILD_INITIAL_ROAD"
	PlayTurn               Prompt = "PLAY_TURN"
	DiscardPrompt          Prompt = "DISCARD"
	MoveRobberPrompt       Prompt = "MOVE_ROBBER"
	DecideTrade            Prompt = "DECIDE_TRADE"
	DecideAcceptees        Prompt = "DECIDE_ACCEPTEES"
)

// Phase is the coarse stage of a game, derived from turn count and victory points.
type Phase string

const (
	SetupPhase Phase = "setup"
	EarlyPhase Phase = "early"
	MidPhase   Phase = "mid"
	LatePhase  Phase = "late"
)

// CubeCoord is the engine's native tile coordinate. x+y+z == 0 for every real tile.
type CubeCoord struct {
	X, Y, Z int
}

// Valid reports whether the coordinate lies on the cube plane.
func (c CubeCoord) Valid() bool {
	return c.X+c.Y+c.Z == 0
}

// TileRecord is one raw land tile as exposed by the engine's board.
// Resource "" is the desert, Number 0 means the tile has no production number.
type TileRecord struct {
	Coordinate []int  `json:"coordinate"`
	Resource   string `json:"resource"`
	Number     int    `json:"number"`
}

// PortRecord is one entry of the engine's port registry.
// Resource "" is a generic 3:1 port, Direction < 0 means unknown.
type PortRecord struct {
	Resource  string `json:"resource"`
	Direction int    `json:"direction"`
	Nodes     []int  `json:"nodes"`
}

// Board is the engine's board snapshot.
type Board struct {
	Tiles  []TileRecord
	Ports  []PortRecord
	Robber *CubeCoord
}

// Buildings lists what a colour has on the board.
type Buildings struct {
	Settlements []int    `json:"settlements"`
	Cities      []int    `json:"cities"`
	Roads       [][2]int `json:"roads"`
}

// State is the read-only view of the rules engine's game state handed to a
// player for one decision. Any part may be missing: implementations return
// zero values (nil board, empty maps) rather than failing.
type State interface {
	Colors() []Color
	CurrentColor() Color
	NumTurns() int
	Prompt() Prompt
	Board() *Board
	// PlayerState is keyed by the per-seat prefix, e.g. "P0_WOOD_IN_HAND".
	PlayerState() map[string]any
	Buildings(Color) Buildings
	Bank() map[Resource]int
	DevCardsLeft() int
	LastRoll() []int
}
