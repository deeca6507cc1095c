package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestGame builds a 2x2 all-regular game with a controllable clock and
// the given players already seated.
func newTestGame(t *testing.T, names ...string) (*Game, []*Player, *time.Time) {
	t.Helper()
	g := NewGame(Options{
		GridSize:   2,
		MaxPlayers: len(names),
		LandMix:    LandMix{LandRegular: 1},
		Seed:       1,
	})
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	g.clock = func() time.Time { return now }

	players := make([]*Player, 0, len(names))
	for _, name := range names {
		p := NewPlayer(name)
		require.True(t, g.AddPlayer(p))
		players = append(players, p)
	}
	return g, players, &now
}

func TestAddPlayerStartsGame(t *testing.T) {
	g := NewGame(Options{GridSize: 2, MaxPlayers: 2, Seed: 1})
	assert.Equal(t, StateWaiting, g.State())

	require.True(t, g.AddPlayer(NewPlayer("ada")))
	assert.Equal(t, StateWaiting, g.State())

	require.True(t, g.AddPlayer(NewPlayer("grace")))
	assert.Equal(t, StatePlaying, g.State())

	assert.False(t, g.AddPlayer(NewPlayer("linus")), "roster is full")
}

func TestMaxPlayersCapped(t *testing.T) {
	g := NewGame(Options{MaxPlayers: 99})
	assert.Equal(t, MaxPlayersCap, g.MaxPlayers())
}

func TestPlaceFenceAdvancesTurn(t *testing.T) {
	g, players, _ := newTestGame(t, "ada", "grace")

	claimed, err := g.PlaceFence(players[0].ID, 0, 0, Horizontal)
	require.NoError(t, err)
	assert.Empty(t, claimed)
	assert.Equal(t, players[1].ID, g.CurrentPlayer().ID)

	claimed, err = g.PlaceFence(players[1].ID, 0, 0, Vertical)
	require.NoError(t, err)
	assert.Empty(t, claimed)
	assert.Equal(t, players[0].ID, g.CurrentPlayer().ID)
}

func TestPlaceFenceRejectsOutOfTurn(t *testing.T) {
	g, players, _ := newTestGame(t, "ada", "grace")

	_, err := g.PlaceFence(players[1].ID, 0, 0, Horizontal)
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = g.PlaceFence("nobody", 0, 0, Horizontal)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestPlaceFenceValidation(t *testing.T) {
	g, players, _ := newTestGame(t, "ada", "grace")
	ada := players[0].ID

	_, err := g.PlaceFence(ada, 3, 0, Horizontal)
	assert.ErrorIs(t, err, ErrInvalidMove, "horizontal row past lattice")

	_, err = g.PlaceFence(ada, 0, 2, Horizontal)
	assert.ErrorIs(t, err, ErrInvalidMove, "horizontal col past lattice")

	_, err = g.PlaceFence(ada, 2, 0, Vertical)
	assert.ErrorIs(t, err, ErrInvalidMove, "vertical row past lattice")

	_, err = g.PlaceFence(ada, 0, 0, Orientation("diagonal"))
	assert.ErrorIs(t, err, ErrInvalidMove)

	// A failed placement does not consume the turn.
	assert.Equal(t, ada, g.CurrentPlayer().ID)

	_, err = g.PlaceFence(ada, 0, 0, Horizontal)
	require.NoError(t, err)
	_, err = g.PlaceFence(players[1].ID, 0, 0, Horizontal)
	assert.ErrorIs(t, err, ErrInvalidMove, "occupied slot")
}

func TestPlaceFenceBeforeStart(t *testing.T) {
	g := NewGame(Options{GridSize: 2, Seed: 1})
	p := NewPlayer("ada")
	require.True(t, g.AddPlayer(p))

	_, err := g.PlaceFence(p.ID, 0, 0, Horizontal)
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestPlaceFenceExpiredClockAdvancesTurn(t *testing.T) {
	g, players, now := newTestGame(t, "ada", "grace")

	*now = now.Add(DefaultTurnTimeout + time.Second)
	_, err := g.PlaceFence(players[0].ID, 0, 0, Horizontal)
	assert.ErrorIs(t, err, ErrInvalidMove)

	// The late mover lost their turn as a side effect of the rejection.
	assert.Equal(t, players[1].ID, g.CurrentPlayer().ID)

	// The next player's clock started fresh.
	left, ok := g.TimeLeft()
	require.True(t, ok)
	assert.Equal(t, DefaultTurnTimeout, left)
}

func TestClaimKeepsTurn(t *testing.T) {
	g, players, now := newTestGame(t, "ada", "grace")
	ada, grace := players[0], players[1]

	// Surround cell (0,0), alternating turns on the first three fences.
	_, err := g.PlaceFence(ada.ID, 0, 0, Horizontal)
	require.NoError(t, err)
	_, err = g.PlaceFence(grace.ID, 1, 0, Horizontal)
	require.NoError(t, err)
	_, err = g.PlaceFence(ada.ID, 0, 0, Vertical)
	require.NoError(t, err)

	*now = now.Add(10 * time.Second)
	claimed, err := g.PlaceFence(grace.ID, 0, 1, Vertical)
	require.NoError(t, err)
	assert.Equal(t, []Coord{{Row: 0, Col: 0}}, claimed)

	assert.Equal(t, grace.ID, g.CurrentPlayer().ID, "claiming keeps the turn")
	assert.Equal(t, ValueRegular, grace.Score)

	owner, _ := g.Grid().CellAt(0, 0)
	idx, claimedCell := owner.Owner.Index()
	assert.True(t, claimedCell)
	assert.Equal(t, 1, idx)

	// The clock restarted on the claim.
	left, ok := g.TimeLeft()
	require.True(t, ok)
	assert.Equal(t, DefaultTurnTimeout, left)
}

// Plays a full 2x2 game and checks the scores add up to the board value
// and the outcome settles.
func TestFullGameScoreConservation(t *testing.T) {
	g, players, _ := newTestGame(t, "ada", "grace")
	ada, grace := players[0], players[1]

	place := func(id string, row, col int, o Orientation) []Coord {
		t.Helper()
		claimed, err := g.PlaceFence(id, row, col, o)
		require.NoError(t, err)
		return claimed
	}

	// Ada and Grace fill the lattice; whoever closes a cell keeps moving.
	place(ada.ID, 0, 0, Horizontal)
	place(grace.ID, 0, 1, Horizontal)
	place(ada.ID, 1, 0, Horizontal)
	place(grace.ID, 1, 1, Horizontal)
	place(ada.ID, 2, 0, Horizontal)
	place(grace.ID, 2, 1, Horizontal)
	place(ada.ID, 0, 0, Vertical)
	place(grace.ID, 1, 0, Vertical)

	// Ada closes (0,0) and keeps the turn, then closes the rest of the
	// left-to-right sweep.
	assert.Equal(t, []Coord{{Row: 0, Col: 0}}, place(ada.ID, 0, 1, Vertical))
	assert.Equal(t, []Coord{{Row: 1, Col: 0}}, place(ada.ID, 1, 1, Vertical))
	got := place(ada.ID, 0, 2, Vertical)
	assert.Equal(t, []Coord{{Row: 0, Col: 1}}, got)

	// The last fence closes the final cell and ends the game.
	got = place(ada.ID, 1, 2, Vertical)
	assert.Equal(t, []Coord{{Row: 1, Col: 1}}, got)

	assert.Equal(t, StateFinished, g.State())
	assert.Equal(t, 0, g.Unclaimed())
	assert.Equal(t, g.Grid().TotalValue(), ada.Score+grace.Score)

	assert.Equal(t, OutcomeWin, g.Results()[ada.ID])
	assert.Equal(t, OutcomeLoss, g.Results()[grace.ID])
	assert.Equal(t, 1, ada.Stats.Wins)
	assert.Equal(t, 1, grace.Stats.Losses)
	assert.Equal(t, 1, ada.Stats.GamesPlayed)

	_, err := g.PlaceFence(ada.ID, 2, 0, Vertical)
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestRemovePlayerForfeits(t *testing.T) {
	g, players, _ := newTestGame(t, "ada", "grace")
	ada, grace := players[0], players[1]

	require.True(t, g.RemovePlayer(ada.ID))
	assert.Equal(t, StateFinished, g.State())
	assert.Equal(t, OutcomeLoss, g.Results()[ada.ID])
	assert.Equal(t, OutcomeWin, g.Results()[grace.ID])

	assert.False(t, g.RemovePlayer("nobody"))
}

func TestRemovePlayerCreditsAllRemaining(t *testing.T) {
	g, players, _ := newTestGame(t, "ada", "grace", "linus")

	require.True(t, g.RemovePlayer(players[0].ID))

	// Every remaining player is a winner when someone quits.
	assert.Equal(t, OutcomeWin, g.Results()[players[1].ID])
	assert.Equal(t, OutcomeWin, g.Results()[players[2].ID])
	assert.Equal(t, OutcomeLoss, g.Results()[players[0].ID])
}

func TestRemovePlayerWhileWaiting(t *testing.T) {
	g := NewGame(Options{GridSize: 2, Seed: 1})
	p := NewPlayer("ada")
	require.True(t, g.AddPlayer(p))

	require.True(t, g.RemovePlayer(p.ID))
	assert.Equal(t, StateWaiting, g.State())
	assert.Empty(t, g.Results())
}

func TestCheckInactivity(t *testing.T) {
	g, players, now := newTestGame(t, "ada", "grace")

	assert.False(t, g.CheckInactivity())

	*now = now.Add(DefaultTurnTimeout + time.Second)
	assert.True(t, g.CheckInactivity())

	// The idle current player was removed through the forfeit path.
	assert.Equal(t, StateFinished, g.State())
	assert.Equal(t, OutcomeLoss, g.Results()[players[0].ID])
	assert.Equal(t, OutcomeWin, g.Results()[players[1].ID])

	assert.False(t, g.CheckInactivity(), "finished games are left alone")
}

func TestEndGameTieDraws(t *testing.T) {
	g, players, _ := newTestGame(t, "ada", "grace", "linus")
	players[0].AddScore(5)
	players[1].AddScore(5)
	players[2].AddScore(2)

	g.EndGame()

	assert.Equal(t, OutcomeDraw, g.Results()[players[0].ID])
	assert.Equal(t, OutcomeDraw, g.Results()[players[1].ID])
	assert.Equal(t, OutcomeLoss, g.Results()[players[2].ID])
	assert.Equal(t, 1, players[0].Stats.Draws)

	// Idempotent: calling again must not double-count.
	g.EndGame()
	assert.Equal(t, 1, players[0].Stats.Draws)
	assert.Equal(t, 1, players[0].Stats.GamesPlayed)
}

func TestEndGameHighestScoreWins(t *testing.T) {
	g, players, _ := newTestGame(t, "ada", "grace")
	players[1].AddScore(7)

	g.EndGame()

	assert.Equal(t, OutcomeLoss, g.Results()[players[0].ID])
	assert.Equal(t, OutcomeWin, g.Results()[players[1].ID])
}

func TestTimeLeft(t *testing.T) {
	g := NewGame(Options{GridSize: 2, Seed: 1})
	_, ok := g.TimeLeft()
	assert.False(t, ok, "no clock before play starts")

	g2, _, now := newTestGame(t, "ada", "grace")
	*now = now.Add(15 * time.Second)
	left, ok := g2.TimeLeft()
	require.True(t, ok)
	assert.Equal(t, 45*time.Second, left)

	*now = now.Add(time.Hour)
	left, ok = g2.TimeLeft()
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), left, "clamped at zero")
}
