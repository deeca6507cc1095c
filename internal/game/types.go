package game

import (
	"encoding/json"
	"time"
)

// LandType classifies a cell by the value it yields when claimed.
type LandType string

const (
	LandRegular LandType = "regular"
	LandCopper  LandType = "copper"
	LandSilver  LandType = "silver"
	LandGold    LandType = "gold"
)

const (
	ValueRegular = 1
	ValueCopper  = 3
	ValueSilver  = 5
	ValueGold    = 10
)

// ValueForType maps a land type to its point value. Unknown types fall
// back to regular land.
func ValueForType(t LandType) int {
	switch t {
	case LandCopper:
		return ValueCopper
	case LandSilver:
		return ValueSilver
	case LandGold:
		return ValueGold
	default:
		return ValueRegular
	}
}

// Orientation selects which fence lattice a placement targets.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// State is the game lifecycle. Finished is terminal.
type State string

const (
	StateWaiting  State = "waiting"
	StatePlaying  State = "playing"
	StateFinished State = "finished"
)

// Coord addresses a cell (or a fence slot) on the grid.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Owner records which player, by turn index, claimed a cell. The zero
// value is unclaimed; a cell is assigned exactly once and never reverts.
type Owner struct {
	index   int
	claimed bool
}

// OwnedBy returns an Owner for the given player index.
func OwnedBy(index int) Owner {
	return Owner{index: index, claimed: true}
}

// Claimed reports whether the cell has an owner.
func (o Owner) Claimed() bool { return o.claimed }

// Index returns the owning player's turn index. ok is false for
// unclaimed cells.
func (o Owner) Index() (idx int, ok bool) {
	return o.index, o.claimed
}

// MarshalJSON encodes unclaimed as null, matching the wire format.
func (o Owner) MarshalJSON() ([]byte, error) {
	if !o.claimed {
		return []byte("null"), nil
	}
	return json.Marshal(o.index)
}

func (o *Owner) UnmarshalJSON(data []byte) error {
	var idx *int
	if err := json.Unmarshal(data, &idx); err != nil {
		return err
	}
	if idx == nil {
		*o = Owner{}
	} else {
		*o = OwnedBy(*idx)
	}
	return nil
}

// LandCell is one grid square: a fixed type/value and an owner that is
// set when the cell's four fences are completed.
type LandCell struct {
	Type  LandType `json:"type"`
	Value int      `json:"value"`
	Owner Owner    `json:"owner"`
}

// NewLandCell builds an unclaimed cell of the given type.
func NewLandCell(t LandType) LandCell {
	return LandCell{Type: t, Value: ValueForType(t)}
}

// Outcome is a player's final result, reported to the stats store once
// the game is finished.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// Event history entry types.
const (
	EventFencePlaced = "fence_placed"
	EventLandClaimed = "land_claimed"
	EventPlayerLeft  = "player_left"
	EventGameOver    = "game_over"
)

// Event is one append-only history record, kept for replay.
type Event struct {
	Type        string      `json:"type"`
	PlayerID    string      `json:"player_id,omitempty"`
	Row         int         `json:"row,omitempty"`
	Col         int         `json:"col,omitempty"`
	Orientation Orientation `json:"orientation,omitempty"`
	Lands       []Coord     `json:"lands,omitempty"`
	ScoreGained int         `json:"score_gained,omitempty"`
	Time        time.Time   `json:"time"`
}
