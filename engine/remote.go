package engine

import (
	"bytes"
	"catanbench/game"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"
)

// Remote is a game hosted by an external rules-engine server. The server
// owns the rules; Remote mirrors the latest state document it returned.
//
//	POST {base}/games                      {"colors": [...]}     -> {"game_id": ..., "state": {...}}
//	POST {base}/games/{id}/actions         {"action_index": i}   -> {...state...}
type Remote struct {
	baseURL string
	client  *http.Client
	id      string
	doc     stateDocument
	legal   []game.Move
}

type stateDocument struct {
	Colors       []game.Color                  `json:"colors"`
	CurrentColor game.Color                    `json:"current_color"`
	NumTurns     int                           `json:"num_turns"`
	Prompt       game.Prompt                   `json:"current_prompt"`
	Board        *boardDocument                `json:"board"`
	PlayerState  map[string]any                `json:"player_state"`
	Buildings    map[game.Color]game.Buildings `json:"buildings"`
	Bank         map[game.Resource]int         `json:"bank"`
	DevCardsLeft int                           `json:"dev_cards_left"`
	LastRoll     []int                         `json:"last_roll"`
	Actions      []rawAction                   `json:"playable_actions"`
	Winner       *game.Color                   `json:"winner"`
	Scores       map[game.Color]int            `json:"scores"`
}

type boardDocument struct {
	Tiles  []game.TileRecord `json:"tiles"`
	Ports  []game.PortRecord `json:"ports"`
	Robber []int             `json:"robber_coordinate"`
}

// rawAction is the engine's (colour, type, value) action triple. The colour
// may be omitted.
type rawAction struct {
	Type  string
	Value any
}

func (a *rawAction) UnmarshalJSON(data []byte) error {
	var tuple []any
	if err := json.Unmarshal(data, &tuple); err == nil {
		switch len(tuple) {
		case 3:
			tuple = tuple[1:]
		case 2:
		default:
			return fmt.Errorf("action tuple has %d elements", len(tuple))
		}
		kind, ok := tuple[0].(string)
		if !ok {
			return fmt.Errorf("action type %v is not a string", tuple[0])
		}
		a.Type, a.Value = kind, tuple[1]
		return nil
	}

	var object struct {
		Type  string `json:"action_type"`
		Value any    `json:"value"`
	}
	if err := json.Unmarshal(data, &object); err != nil {
		return err
	}
	a.Type, a.Value = object.Type, object.Value
	return nil
}

// RemoteFactory creates games on the engine server at baseURL.
func RemoteFactory(baseURL string, timeout time.Duration) RulesFactory {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context, colors []game.Color) (Rules, error) {
		return NewRemote(ctx, baseURL, client, colors)
	}
}

func NewRemote(ctx context.Context, baseURL string, client *http.Client, colors []game.Color) (*Remote, error) {
	if client == nil {
		client = http.DefaultClient
	}
	r := &Remote{baseURL: strings.TrimRight(baseURL, "/"), client: client}

	var created struct {
		GameID string        `json:"game_id"`
		State  stateDocument `json:"state"`
	}
	if err := r.post(ctx, "/games", map[string]any{"colors": colors}, &created); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	if created.GameID == "" {
		return nil, fmt.Errorf("engine at %s returned no game id", r.baseURL)
	}
	r.id = created.GameID
	r.update(created.State)
	return r, nil
}

func (r *Remote) ID() string {
	return r.id
}

func (r *Remote) update(doc stateDocument) {
	r.doc = doc
	r.legal = make([]game.Move, len(doc.Actions))
	for i, a := range doc.Actions {
		r.legal[i] = game.DecodeMove(a.Type, a.Value)
	}
}

func (r *Remote) LegalMoves() []game.Move {
	return r.legal
}

// Apply plays move by its index in the last legal move list.
func (r *Remote) Apply(ctx context.Context, move game.Move) error {
	index := -1
	for i, m := range r.legal {
		if reflect.DeepEqual(m, move) {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("move %v is not among the %d legal moves", move, len(r.legal))
	}

	var doc stateDocument
	if err := r.post(ctx, "/games/"+r.id+"/actions", map[string]any{"action_index": index}, &doc); err != nil {
		return fmt.Errorf("failed to play action %d: %w", index, err)
	}
	r.update(doc)
	return nil
}

func (r *Remote) Winner() (game.Color, bool) {
	if r.doc.Winner == nil || *r.doc.Winner == "" {
		return "", false
	}
	return *r.doc.Winner, true
}

// Scores falls back to the actual victory points in the player state when
// the engine sends no score table.
func (r *Remote) Scores() map[game.Color]int {
	if r.doc.Scores != nil {
		return r.doc.Scores
	}
	scores := make(map[game.Color]int, len(r.doc.Colors))
	for _, c := range r.doc.Colors {
		key, _ := game.PlayerKey(r, c)
		if _, ok := game.Field(r.doc.PlayerState, key, "ACTUAL_VICTORY_POINTS"); ok {
			scores[c] = game.IntField(r.doc.PlayerState, key, "ACTUAL_VICTORY_POINTS")
		} else {
			scores[c] = game.IntField(r.doc.PlayerState, key, "VICTORY_POINTS")
		}
	}
	return scores
}

func (r *Remote) Colors() []game.Color        { return r.doc.Colors }
func (r *Remote) CurrentColor() game.Color    { return r.doc.CurrentColor }
func (r *Remote) NumTurns() int               { return r.doc.NumTurns }
func (r *Remote) Prompt() game.Prompt         { return r.doc.Prompt }
func (r *Remote) PlayerState() map[string]any { return r.doc.PlayerState }
func (r *Remote) Bank() map[game.Resource]int { return r.doc.Bank }
func (r *Remote) DevCardsLeft() int           { return r.doc.DevCardsLeft }
func (r *Remote) LastRoll() []int             { return r.doc.LastRoll }
func (r *Remote) Buildings(c game.Color) game.Buildings {
	return r.doc.Buildings[c]
}

func (r *Remote) Board() *game.Board {
	if r.doc.Board == nil {
		return nil
	}
	b := &game.Board{Tiles: r.doc.Board.Tiles, Ports: r.doc.Board.Ports}
	if c := r.doc.Board.Robber; len(c) == 3 {
		b.Robber = &game.CubeCoord{X: c[0], Y: c[1], Z: c[2]}
	}
	return b
}

// post encodes payload as JSON, posts it to path and decodes the reply into out.
func (r *Remote) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("engine returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("failed to decode engine reply: %w", err)
	}
	return nil
}
