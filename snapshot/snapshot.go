// Package snapshot turns the engine's game state into the JSON tree a player
// is shown for one decision. The acting player sees their own hand; opponents
// are reduced to public information.
package snapshot

import (
	"catanbench/board"
	"catanbench/game"
)

const (
	MaxSettlements = 5
	MaxCities      = 4
	MaxRoads       = 15
)

type Snapshot struct {
	TurnNumber    int              `json:"turn_number"`
	CurrentColor  game.Color       `json:"current_player_color"`
	GamePhase     game.Phase       `json:"game_phase"`
	WinningPlayer *game.Color      `json:"winning_player"`
	Board         BoardState       `json:"board_state"`
	CurrentPlayer PlayerView       `json:"current_player"`
	Opponents     []PublicView     `json:"opponents"`
	Bank          BankState        `json:"resources_and_cards"`
	Strategy      StrategicContext `json:"strategic_context"`
	Turn          TurnContext      `json:"turn_context"`
}

type BoardState struct {
	Tiles            []TileView         `json:"tiles"`
	Ports            []board.Port       `json:"ports"`
	Intersections    []IntersectionView `json:"intersections"`
	Edges            []EdgeView         `json:"edges"`
	Robber           *board.Axial       `json:"robber_position"`
	RobberTile       string             `json:"robber_tile,omitempty"`
	LongestRoadOwner *game.Color        `json:"longest_road_owner"`
	LargestArmyOwner *game.Color        `json:"largest_army_owner"`
}

type TileView struct {
	Name      string         `json:"name"`
	Coord     board.Axial    `json:"coordinate"`
	Cube      game.CubeCoord `json:"cube_coordinate"`
	Resource  string         `json:"resource"`
	Number    int            `json:"number,omitempty"`
	HasRobber bool           `json:"has_robber"`
	Neighbors []string       `json:"neighbors"`
}

type IntersectionView struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Adjacent    []string `json:"adjacent_intersections"`
	Edges       []string `json:"connected_edges"`
}

type EdgeView struct {
	ID            string   `json:"id"`
	Description   string   `json:"description"`
	Intersections []string `json:"intersections"`
}

type BuildingsView struct {
	Settlements          []int    `json:"settlements"`
	Cities               []int    `json:"cities"`
	Roads                [][2]int `json:"roads"`
	SettlementsAvailable int      `json:"settlements_available"`
	CitiesAvailable      int      `json:"cities_available"`
	RoadsAvailable       int      `json:"roads_available"`
}

type DevCardCount struct {
	InHand int `json:"in_hand"`
	Played int `json:"played"`
}

type Affordability struct {
	Settlement      bool `json:"settlement"`
	City            bool `json:"city"`
	Road            bool `json:"road"`
	DevelopmentCard bool `json:"development_card"`
}

// PlayerView is the acting player's own, complete view of their seat.
type PlayerView struct {
	Color               game.Color                    `json:"color"`
	VictoryPoints       int                           `json:"victory_points"`
	PublicVictoryPoints int                           `json:"public_victory_points"`
	Resources           map[game.Resource]int         `json:"resources"`
	ResourceCardsCount  int                           `json:"resource_cards_count"`
	DevelopmentCards    map[game.DevCard]DevCardCount `json:"development_cards"`
	DevCardsCount       int                           `json:"development_cards_count"`
	HasRolled           bool                          `json:"has_rolled_this_turn"`
	KnightsPlayed       int                           `json:"knights_played"`
	LongestRoadLength   int                           `json:"longest_road_length"`
	HasLongestRoad      bool                          `json:"has_longest_road"`
	HasLargestArmy      bool                          `json:"has_largest_army"`
	Buildings           BuildingsView                 `json:"buildings"`
	CanAfford           Affordability                 `json:"can_afford"`
}

// PublicView is what every player may know about an opponent. It has no
// per-resource or per-card fields.
type PublicView struct {
	Color               game.Color    `json:"color"`
	PublicVictoryPoints int           `json:"public_victory_points"`
	ResourceCardsCount  int           `json:"resource_cards_count"`
	DevCardsCount       int           `json:"development_cards_count"`
	HasRolled           bool          `json:"has_rolled_this_turn"`
	KnightsPlayed       int           `json:"knights_played"`
	LongestRoadLength   int           `json:"longest_road_length"`
	HasLongestRoad      bool          `json:"has_longest_road"`
	HasLargestArmy      bool          `json:"has_largest_army"`
	Buildings           BuildingsView `json:"buildings"`
}

type BankState struct {
	ResourceBank         map[game.Resource]int `json:"resource_bank"`
	DevelopmentCardsLeft int                   `json:"development_cards_left"`
	DiceRoll             []int                 `json:"dice_roll_this_turn"`
}

type TradeOpportunity struct {
	Type  string        `json:"type"`
	Offer game.Resource `json:"offer"`
	Ratio string        `json:"ratio"`
}

type Threat struct {
	Player        game.Color `json:"player"`
	Level         string     `json:"threat_level"`
	VictoryPoints int        `json:"victory_points"`
}

type VictoryAnalysis struct {
	CurrentVictoryPoints int    `json:"current_victory_points"`
	PointsNeeded         int    `json:"points_needed"`
	TurnsEstimated       int    `json:"turns_estimated"`
	Strategy             string `json:"recommended_strategy"`
}

type StrategicContext struct {
	TradeOpportunities []TradeOpportunity `json:"trade_opportunities"`
	BuildingPriorities []string           `json:"building_priorities"`
	Threats            []Threat           `json:"threat_assessment"`
	Victory            VictoryAnalysis    `json:"victory_analysis"`
}

type TurnContext struct {
	Prompt          game.Prompt `json:"current_prompt"`
	ExpectingAction string      `json:"expecting_action,omitempty"`
	TurnPhase       string      `json:"turn_phase"`
}
