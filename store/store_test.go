package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateUser("bob@example.com", "bob", "hash", "guest.png")
	require.NoError(t, err)

	byEmail, err := s.GetUserByEmail("bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)
	assert.Equal(t, "bob", byEmail.Username)

	byID, err := s.GetUserByID(id)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "bob@example.com", byID.Email)

	missing, err := s.GetUserByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = s.CreateUser("bob@example.com", "bob2", "hash", "guest.png")
	assert.Error(t, err) // email is unique
}

func TestSeededCards(t *testing.T) {
	s := newTestStore(t)

	card, err := s.GetCard(1)
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.NotEmpty(t, card.Text)
	assert.NotEmpty(t, card.ImagePath)
	assert.GreaterOrEqual(t, card.MisfortuneIndex, 1)
	assert.LessOrEqual(t, card.MisfortuneIndex, 100)

	missing, err := s.GetCard(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetRandomCards(t *testing.T) {
	s := newTestStore(t)

	t.Run("respects limit", func(t *testing.T) {
		cards, err := s.GetRandomCards(3, false, nil)
		require.NoError(t, err)
		require.Len(t, cards, 3)
		for _, c := range cards {
			assert.Positive(t, c.MisfortuneIndex)
		}
	})

	t.Run("hides misfortune index", func(t *testing.T) {
		cards, err := s.GetRandomCards(1, true, nil)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Zero(t, cards[0].MisfortuneIndex)
	})

	t.Run("excludes used ids", func(t *testing.T) {
		exclude := make([]int64, 0, 49)
		for id := int64(1); id <= 49; id++ {
			exclude = append(exclude, id)
		}
		cards, err := s.GetRandomCards(1, false, exclude)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, int64(50), cards[0].ID)
	})

	t.Run("empty when deck exhausted", func(t *testing.T) {
		exclude := make([]int64, 0, 50)
		for id := int64(1); id <= 50; id++ {
			exclude = append(exclude, id)
		}
		cards, err := s.GetRandomCards(1, false, exclude)
		require.NoError(t, err)
		assert.Empty(t, cards)
	})

	t.Run("empty when fewer cards remain than requested", func(t *testing.T) {
		exclude := make([]int64, 0, 49)
		for id := int64(1); id <= 49; id++ {
			exclude = append(exclude, id)
		}
		cards, err := s.GetRandomCards(3, false, exclude)
		require.NoError(t, err)
		assert.Empty(t, cards)
	})
}

func TestGameLifecycle(t *testing.T) {
	s := newTestStore(t)

	gameID, err := s.CreateGame(7, now)
	require.NoError(t, err)

	game, err := s.GetGame(gameID)
	require.NoError(t, err)
	require.NotNil(t, game)
	assert.Equal(t, int64(7), game.UserID)
	assert.Equal(t, "in_progress", game.Status)
	assert.Equal(t, 3, game.TotalCards)
	assert.Zero(t, game.CorrectGuesses)
	assert.Zero(t, game.WrongGuesses)
	assert.Zero(t, game.RoundCardID)
	assert.Empty(t, game.CompletedAt)

	require.NoError(t, s.IncrementCorrectGuesses(gameID))
	require.NoError(t, s.IncrementWrongGuesses(gameID))

	game, err = s.GetGame(gameID)
	require.NoError(t, err)
	assert.Equal(t, 1, game.CorrectGuesses)
	assert.Equal(t, 1, game.WrongGuesses)
	assert.Equal(t, 5, game.TotalCards) // both increments bump total_cards

	require.NoError(t, s.UpdateGameStatus(gameID, "lost"))
	game, err = s.GetGame(gameID)
	require.NoError(t, err)
	assert.Equal(t, "lost", game.Status)
	assert.NotEmpty(t, game.CompletedAt)

	inProgress, err := s.GetGamesInProgress(7)
	require.NoError(t, err)
	assert.Empty(t, inProgress)

	finished, err := s.GetFinishedGames(7)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, gameID, finished[0].ID)

	missing, err := s.GetGame(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCurrentRound(t *testing.T) {
	s := newTestStore(t)

	gameID, err := s.CreateGame(7, now)
	require.NoError(t, err)

	require.NoError(t, s.SetCurrentRound(gameID, 4, now))
	game, err := s.GetGame(gameID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), game.RoundCardID)
	assert.Equal(t, now.Unix(), game.RoundStartedAt)

	require.NoError(t, s.ClearCurrentRound(gameID))
	game, err = s.GetGame(gameID)
	require.NoError(t, err)
	assert.Zero(t, game.RoundCardID)
	assert.Zero(t, game.RoundStartedAt)
}

func TestGameCards(t *testing.T) {
	s := newTestStore(t)

	gameID, err := s.CreateGame(7, now)
	require.NoError(t, err)

	// 3 initial cards, won, no round number
	for _, cardID := range []int64{10, 20, 30} {
		require.NoError(t, s.AddGameCard(gameID, cardID, nil, true, true, now))
	}
	round1 := 1
	require.NoError(t, s.AddGameCard(gameID, 15, &round1, false, false, now))

	t.Run("won cards sorted by misfortune index", func(t *testing.T) {
		cards, err := s.GetWonCards(gameID)
		require.NoError(t, err)
		require.Len(t, cards, 3)
		for i := 1; i < len(cards); i++ {
			assert.Greater(t, cards[i].MisfortuneIndex, cards[i-1].MisfortuneIndex)
		}
	})

	t.Run("used ids include lost rounds", func(t *testing.T) {
		ids, err := s.GetUsedCardIDs(gameID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int64{10, 20, 30, 15}, ids)
	})

	t.Run("round count ignores initial cards", func(t *testing.T) {
		count, err := s.CountRounds(gameID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("duplicate card rejected", func(t *testing.T) {
		err := s.AddGameCard(gameID, 10, &round1, false, false, now)
		assert.Error(t, err)
	})

	t.Run("history rows joined with cards", func(t *testing.T) {
		cards, err := s.GetGameCards(gameID)
		require.NoError(t, err)
		require.Len(t, cards, 4)
		// initial cards first (round NULL sorts before 1)
		assert.Nil(t, cards[0].RoundNumber)
		last := cards[len(cards)-1]
		require.NotNil(t, last.RoundNumber)
		assert.Equal(t, 1, *last.RoundNumber)
		assert.False(t, last.Won)
		assert.NotEmpty(t, last.Text)
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, s.DeleteGame(gameID))

		game, err := s.GetGame(gameID)
		require.NoError(t, err)
		assert.Nil(t, game)

		ids, err := s.GetUsedCardIDs(gameID)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
