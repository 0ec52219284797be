package snapshot

import (
	"catanbench/board"
	"catanbench/game"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Serializer builds snapshots against one game's Mapper. The mapper is
// rebuilt from the engine's board on every Extract.
type Serializer struct {
	mapper *board.Mapper
}

func NewSerializer(mapper *board.Mapper) *Serializer {
	if mapper == nil {
		mapper = board.NewMapper()
	}
	return &Serializer{mapper: mapper}
}

func (s *Serializer) Mapper() *board.Mapper {
	return s.mapper
}

// Extract builds the snapshot shown to color. Missing parts of the state read
// as zero values.
func (s *Serializer) Extract(state game.State, color game.Color) Snapshot {
	b := state.Board()
	s.mapper.Rebuild(b)

	ps := state.PlayerState()
	snap := Snapshot{
		TurnNumber:   state.NumTurns(),
		CurrentColor: state.CurrentColor(),
		GamePhase:    Phase(state),
		Board:        s.boardState(state, b),
		Bank: BankState{
			ResourceBank:         bank(state.Bank()),
			DevelopmentCardsLeft: state.DevCardsLeft(),
			DiceRoll:             state.LastRoll(),
		},
		Turn: turnContext(state),
	}

	for _, c := range state.Colors() {
		key, _ := game.PlayerKey(state, c)
		if game.IntField(ps, key, "VICTORY_POINTS") >= 10 {
			winner := c
			snap.WinningPlayer = &winner
			break
		}
	}

	key, ok := game.PlayerKey(state, color)
	if !ok {
		log.Warn().Msgf("color %s is not seated, serializing an empty player view", color)
	}
	snap.CurrentPlayer = detailedView(state, ps, key, color)

	for _, c := range state.Colors() {
		if c == color {
			continue
		}
		opKey, _ := game.PlayerKey(state, c)
		snap.Opponents = append(snap.Opponents, publicView(state, ps, opKey, c))
	}

	snap.Strategy = s.strategicContext(snap.CurrentPlayer, snap.Opponents)
	return snap
}

// Phase is setup during initial placement, then early/mid/late by the
// highest public victory point total at the table.
func Phase(state game.State) game.Phase {
	switch state.Prompt() {
	case game.BuildInitialSettlement, game.BuildInitialRoad:
		return game.SetupPhase
	}
	ps := state.PlayerState()
	best := 0
	for _, c := range state.Colors() {
		key, _ := game.PlayerKey(state, c)
		best = max(best, game.IntField(ps, key, "VICTORY_POINTS"))
	}
	switch {
	case best < 5:
		return game.EarlyPhase
	case best < 8:
		return game.MidPhase
	default:
		return game.LatePhase
	}
}

func (s *Serializer) boardState(state game.State, b *game.Board) BoardState {
	bs := BoardState{Ports: s.mapper.Ports()}

	var robber *board.Axial
	if b != nil && b.Robber != nil {
		a := board.CubeToAxial(*b.Robber)
		robber = &a
		bs.Robber = robber
	}

	for _, t := range s.mapper.Tiles() {
		view := TileView{
			Name:     t.Name,
			Coord:    t.Coord,
			Cube:     board.AxialToCube(t.Coord),
			Resource: string(t.Resource),
			Number:   t.Number,
		}
		if t.Resource == "" {
			view.Resource = "DESERT"
		}
		if robber != nil && *robber == t.Coord {
			view.HasRobber = true
			bs.RobberTile = t.Name
		}
		for _, n := range t.Neighbors {
			if other, ok := s.mapper.Tile(n); ok {
				view.Neighbors = append(view.Neighbors, other.Name)
			}
		}
		bs.Tiles = append(bs.Tiles, view)
	}

	for _, in := range s.mapper.Intersections() {
		bs.Intersections = append(bs.Intersections, IntersectionView{
			ID:          in.ID,
			Description: s.mapper.IntersectionDescription(in.ID),
			Adjacent:    in.Adjacent,
			Edges:       in.Edges,
		})
	}
	for _, e := range s.mapper.Edges() {
		bs.Edges = append(bs.Edges, EdgeView{
			ID:            e.ID,
			Description:   s.mapper.EdgeDescription(e.ID),
			Intersections: e.Intersections,
		})
	}

	ps := state.PlayerState()
	for _, c := range state.Colors() {
		key, _ := game.PlayerKey(state, c)
		owner := c
		if game.BoolField(ps, key, "HAS_ROAD") {
			bs.LongestRoadOwner = &owner
		}
		if game.BoolField(ps, key, "HAS_ARMY") {
			bs.LargestArmyOwner = &owner
		}
	}
	return bs
}

func buildings(state game.State, color game.Color) BuildingsView {
	b := state.Buildings(color)
	return BuildingsView{
		Settlements:          orEmpty(b.Settlements),
		Cities:               orEmpty(b.Cities),
		Roads:                orEmpty(b.Roads),
		SettlementsAvailable: max(0, MaxSettlements-len(b.Settlements)),
		CitiesAvailable:      max(0, MaxCities-len(b.Cities)),
		RoadsAvailable:       max(0, MaxRoads-len(b.Roads)),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func resourceCount(ps map[string]any, key string) int {
	total := 0
	for _, r := range game.Resources {
		total += game.IntField(ps, key, string(r)+"_IN_HAND")
	}
	return total
}

func devCardCount(ps map[string]any, key string) int {
	total := 0
	for _, c := range game.DevCards {
		total += game.IntField(ps, key, string(c)+"_IN_HAND")
	}
	return total
}

func detailedView(state game.State, ps map[string]any, key string, color game.Color) PlayerView {
	public := game.IntField(ps, key, "VICTORY_POINTS")
	actual := public
	if _, ok := game.Field(ps, key, "ACTUAL_VICTORY_POINTS"); ok {
		actual = game.IntField(ps, key, "ACTUAL_VICTORY_POINTS")
	}

	view := PlayerView{
		Color:               color,
		VictoryPoints:       actual,
		PublicVictoryPoints: public,
		Resources:           map[game.Resource]int{},
		ResourceCardsCount:  resourceCount(ps, key),
		DevelopmentCards:    map[game.DevCard]DevCardCount{},
		DevCardsCount:       devCardCount(ps, key),
		HasRolled:           game.BoolField(ps, key, "HAS_ROLLED"),
		KnightsPlayed:       game.IntField(ps, key, "PLAYED_KNIGHT"),
		LongestRoadLength:   game.IntField(ps, key, "LONGEST_ROAD_LENGTH"),
		HasLongestRoad:      game.BoolField(ps, key, "HAS_ROAD"),
		HasLargestArmy:      game.BoolField(ps, key, "HAS_ARMY"),
		Buildings:           buildings(state, color),
	}
	for _, r := range game.Resources {
		view.Resources[r] = game.IntField(ps, key, string(r)+"_IN_HAND")
	}
	for _, c := range game.DevCards {
		view.DevelopmentCards[c] = DevCardCount{
			InHand: game.IntField(ps, key, string(c)+"_IN_HAND"),
			Played: game.IntField(ps, key, "PLAYED_"+string(c)),
		}
	}
	view.CanAfford = affordability(view.Resources)
	return view
}

func publicView(state game.State, ps map[string]any, key string, color game.Color) PublicView {
	return PublicView{
		Color:               color,
		PublicVictoryPoints: game.IntField(ps, key, "VICTORY_POINTS"),
		ResourceCardsCount:  resourceCount(ps, key),
		DevCardsCount:       devCardCount(ps, key),
		HasRolled:           game.BoolField(ps, key, "HAS_ROLLED"),
		KnightsPlayed:       game.IntField(ps, key, "PLAYED_KNIGHT"),
		LongestRoadLength:   game.IntField(ps, key, "LONGEST_ROAD_LENGTH"),
		HasLongestRoad:      game.BoolField(ps, key, "HAS_ROAD"),
		HasLargestArmy:      game.BoolField(ps, key, "HAS_ARMY"),
		Buildings:           buildings(state, color),
	}
}

var (
	settlementCost = map[game.Resource]int{game.Wood: 1, game.Brick: 1, game.Sheep: 1, game.Wheat: 1}
	cityCost       = map[game.Resource]int{game.Wheat: 2, game.Ore: 3}
	roadCost       = map[game.Resource]int{game.Wood: 1, game.Brick: 1}
	devCardCost    = map[game.Resource]int{game.Sheep: 1, game.Wheat: 1, game.Ore: 1}
)

func covers(hand, cost map[game.Resource]int) bool {
	for r, n := range cost {
		if hand[r] < n {
			return false
		}
	}
	return true
}

func affordability(hand map[game.Resource]int) Affordability {
	return Affordability{
		Settlement:      covers(hand, settlementCost),
		City:            covers(hand, cityCost),
		Road:            covers(hand, roadCost),
		DevelopmentCard: covers(hand, devCardCost),
	}
}

func bank(raw map[game.Resource]int) map[game.Resource]int {
	result := make(map[game.Resource]int, len(game.Resources))
	for _, r := range game.Resources {
		result[r] = raw[r]
	}
	return result
}

var expectedActions = map[game.Prompt]string{
	game.BuildInitialSettlement: "BUILD_SETTLEMENT",
	game.BuildInitialRoad:       "BUILD_ROAD",
	game.PlayTurn:               "ROLL_OR_ACTION",
	game.DiscardPrompt:          "DISCARD",
	game.MoveRobberPrompt:       "MOVE_ROBBER",
	game.DecideTrade:            "TRADE_DECISION",
	game.DecideAcceptees:        "TRADE_DECISION",
}

func turnContext(state game.State) TurnContext {
	prompt := state.Prompt()
	tc := TurnContext{Prompt: prompt, ExpectingAction: expectedActions[prompt]}

	switch prompt {
	case game.PlayTurn:
		key, _ := game.PlayerKey(state, state.CurrentColor())
		tc.TurnPhase = "pre_roll"
		if game.BoolField(state.PlayerState(), key, "HAS_ROLLED") {
			tc.TurnPhase = "post_roll"
		}
	case game.DiscardPrompt:
		tc.TurnPhase = "discard"
	case game.MoveRobberPrompt:
		tc.TurnPhase = "move_robber"
	default:
		tc.TurnPhase = strings.ToLower(string(prompt))
	}
	return tc
}

// tradeRatios picks the best maritime ratio per resource from the ports the
// player has built on.
func (s *Serializer) tradeRatios(me PlayerView) map[game.Resource]int {
	ratios := map[game.Resource]int{}
	for _, r := range game.Resources {
		ratios[r] = 4
	}
	owned := map[int]bool{}
	for _, n := range me.Buildings.Settlements {
		owned[n] = true
	}
	for _, n := range me.Buildings.Cities {
		owned[n] = true
	}
	for _, p := range s.mapper.Ports() {
		served := false
		for _, n := range p.Nodes {
			served = served || owned[n]
		}
		if !served {
			continue
		}
		if r, ok := game.ParseResource(p.Resource); ok {
			ratios[r] = min(ratios[r], 2)
			continue
		}
		for _, r := range game.Resources {
			ratios[r] = min(ratios[r], 3)
		}
	}
	return ratios
}

func (s *Serializer) strategicContext(me PlayerView, opponents []PublicView) StrategicContext {
	sc := StrategicContext{}

	ratios := s.tradeRatios(me)
	for _, r := range game.Resources {
		if me.Resources[r] >= ratios[r] {
			sc.TradeOpportunities = append(sc.TradeOpportunities, TradeOpportunity{
				Type:  "maritime",
				Offer: r,
				Ratio: fmt.Sprintf("%d:1", ratios[r]),
			})
		}
	}

	vp := me.VictoryPoints
	switch {
	case vp < 5:
		sc.BuildingPriorities = []string{"settlements", "roads"}
	case vp < 8:
		sc.BuildingPriorities = []string{"cities", "development_cards"}
	default:
		sc.BuildingPriorities = []string{"development_cards", "cities"}
	}

	for _, op := range opponents {
		if op.PublicVictoryPoints >= vp+2 {
			level := "medium"
			if op.PublicVictoryPoints >= 8 {
				level = "high"
			}
			sc.Threats = append(sc.Threats, Threat{Player: op.Color, Level: level, VictoryPoints: op.PublicVictoryPoints})
		}
	}

	needed := max(0, 10-vp)
	sc.Victory = VictoryAnalysis{
		CurrentVictoryPoints: vp,
		PointsNeeded:         needed,
		TurnsEstimated:       max(1, needed/2),
		Strategy:             "building",
	}
	if needed <= 3 {
		sc.Victory.Strategy = "aggressive"
	}
	return sc
}
