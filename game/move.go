package game

// MoveKind is the engine's action type tag.
type MoveKind string

const (
	RollKind               MoveKind = "ROLL"
	EndTurnKind            MoveKind = "END_TURN"
	BuildSettlementKind    MoveKind = "BUILD_SETTLEMENT"
	BuildCityKind          MoveKind = "BUILD_CITY"
	BuildRoadKind          MoveKind = "BUILD_ROAD"
	BuyDevelopmentCardKind MoveKind = "BUY_DEVELOPMENT_CARD"
	PlayKnightKind         MoveKind = "PLAY_KNIGHT_CARD"
	PlayYearOfPlentyKind   MoveKind = "PLAY_YEAR_OF_PLENTY"
	PlayMonopolyKind       MoveKind = "PLAY_MONOPOLY"
	PlayRoadBuildingKind   MoveKind = "PLAY_ROAD_BUILDING"
	MaritimeTradeKind      MoveKind = "MARITIME_TRADE"
	OfferTradeKind         MoveKind = "OFFER_TRADE"
	AcceptTradeKind        MoveKind = "ACCEPT_TRADE"
	RejectTradeKind        MoveKind = "REJECT_TRADE"
	ConfirmTradeKind       MoveKind = "CONFIRM_TRADE"
	CancelTradeKind        MoveKind = "CANCEL_TRADE"
	MoveRobberKind         MoveKind = "MOVE_ROBBER"
	DiscardKind            MoveKind = "DISCARD"
)

// Move is one entry of the engine's legal-move list. The set of
// implementations is closed: every variant lives in this file.
type Move interface {
	Kind() MoveKind
	move()
}

type Roll struct{}

type EndTurn struct{}

type BuildSettlement struct {
	Node int
}

type BuildCity struct {
	Node int
}

type BuildRoad struct {
	Edge [2]int
}

type BuyDevelopmentCard struct{}

type PlayKnight struct{}

type PlayYearOfPlenty struct {
	Resources []Resource
}

type PlayMonopoly struct {
	Resource Resource
}

type PlayRoadBuilding struct{}

// MaritimeTrade gives the counts in Give (Resources order) for one Want.
type MaritimeTrade struct {
	Give [5]int
	Want Resource
}

type OfferTrade struct {
	Give [5]int
	Want [5]int
}

type AcceptTrade struct {
	Give [5]int
	Want [5]int
}

type RejectTrade struct{}

type ConfirmTrade struct {
	Give    [5]int
	Want    [5]int
	Partner Color
}

type CancelTrade struct{}

// MoveRobber targets a tile and optionally a colour to steal from.
type MoveRobber struct {
	Coordinate CubeCoord
	Victim     Color
}

type Discard struct {
	Counts [5]int
}

// Unknown carries a move the decoder could not type. Kind may be any tag.
type Unknown struct {
	Type  MoveKind
	Value any
}

func (Roll) Kind() MoveKind               { return RollKind }
func (EndTurn) Kind() MoveKind            { return EndTurnKind }
func (BuildSettlement) Kind() MoveKind    { return BuildSettlementKind }
func (BuildCity) Kind() MoveKind          { return BuildCityKind }
func (BuildRoad) Kind() MoveKind          { return BuildRoadKind }
func (BuyDevelopmentCard) Kind() MoveKind { return BuyDevelopmentCardKind }
func (PlayKnight) Kind() MoveKind         { return PlayKnightKind }
func (PlayYearOfPlenty) Kind() MoveKind   { return PlayYearOfPlentyKind }
func (PlayMonopoly) Kind() MoveKind       { return PlayMonopolyKind }
func (PlayRoadBuilding) Kind() MoveKind   { return PlayRoadBuildingKind }
func (MaritimeTrade) Kind() MoveKind      { return MaritimeTradeKind }
func (OfferTrade) Kind() MoveKind         { return OfferTradeKind }
func (AcceptTrade) Kind() MoveKind        { return AcceptTradeKind }
func (RejectTrade) Kind() MoveKind        { return RejectTradeKind }
func (ConfirmTrade) Kind() MoveKind       { return ConfirmTradeKind }
func (CancelTrade) Kind() MoveKind        { return CancelTradeKind }
func (MoveRobber) Kind() MoveKind         { return MoveRobberKind }
func (Discard) Kind() MoveKind            { return DiscardKind }
func (u Unknown) Kind() MoveKind          { return u.Type }

func (Roll) move()               {}
func (EndTurn) move()            {}
func (BuildSettlement) move()    {}
func (BuildCity) move()          {}
func (BuildRoad) move()          {}
func (BuyDevelopmentCard) move() {}
func (PlayKnight) move()         {}
func (PlayYearOfPlenty) move()   {}
func (PlayMonopoly) move()       {}
func (PlayRoadBuilding) move()   {}
func (MaritimeTrade) move()      {}
func (OfferTrade) move()         {}
func (AcceptTrade) move()        {}
func (RejectTrade) move()        {}
func (ConfirmTrade) move()       {}
func (CancelTrade) move()        {}
func (MoveRobber) move()         {}
func (Discard) move()            {}
func (Unknown) move()            {}

// IsForced reports whether a move needs no deliberation when it is the only option.
func IsForced(m Move) bool {
	switch m.(type) {
	case Roll, EndTurn:
		return true
	}
	return false
}
