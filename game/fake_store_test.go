package game

import (
	"sort"
	"time"

	"misfortune/store"
)

// fakeStore is an in-memory store.Store with a deterministic draw order so
// tests can script which cards come up.
type fakeStore struct {
	cards      map[int64]*store.Card
	drawQueue  []int64
	games      map[int64]*store.Game
	gameCards  map[int64][]*store.GameCard
	users      map[int64]*store.User
	nextGameID int64
}

func newFakeStore(indexByCardID map[int64]int) *fakeStore {
	fs := &fakeStore{
		cards:     make(map[int64]*store.Card),
		games:     make(map[int64]*store.Game),
		gameCards: make(map[int64][]*store.GameCard),
		users:     make(map[int64]*store.User),
	}
	for id, idx := range indexByCardID {
		fs.cards[id] = &store.Card{ID: id, Text: "card", ImagePath: "cards/card.png", MisfortuneIndex: idx}
	}
	return fs
}

func (f *fakeStore) CreateUser(email, username, passwordHash, imagePath string) (int64, error) {
	id := int64(len(f.users) + 1)
	f.users[id] = &store.User{ID: id, Email: email, Username: username, PasswordHash: passwordHash, ImagePath: imagePath}
	return id, nil
}

func (f *fakeStore) GetUserByEmail(email string) (*store.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByID(userID int64) (*store.User, error) {
	return f.users[userID], nil
}

func (f *fakeStore) GetCard(cardID int64) (*store.Card, error) {
	return f.cards[cardID], nil
}

func (f *fakeStore) GetRandomCards(limit int, hideMisfortuneIndex bool, excludeIDs []int64) ([]*store.Card, error) {
	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var out []*store.Card
	var rest []int64
	for _, id := range f.drawQueue {
		if len(out) < limit && !excluded[id] {
			c := *f.cards[id]
			if hideMisfortuneIndex {
				c.MisfortuneIndex = 0
			}
			out = append(out, &c)
			continue
		}
		rest = append(rest, id)
	}

	// all or nothing, a short draw counts as an exhausted deck
	if len(out) < limit {
		return nil, nil
	}
	f.drawQueue = rest
	return out, nil
}

func (f *fakeStore) CreateGame(userID int64, createdAt time.Time) (int64, error) {
	f.nextGameID++
	f.games[f.nextGameID] = &store.Game{
		ID:         f.nextGameID,
		UserID:     userID,
		Status:     StatusInProgress,
		TotalCards: InitialCards,
		CreatedAt:  createdAt.UTC().Format("2006-01-02 15:04:05"),
	}
	return f.nextGameID, nil
}

func (f *fakeStore) GetGame(gameID int64) (*store.Game, error) {
	g, ok := f.games[gameID]
	if !ok {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (f *fakeStore) GetGamesInProgress(userID int64) ([]*store.Game, error) {
	return f.listGames(userID, true), nil
}

func (f *fakeStore) GetFinishedGames(userID int64) ([]*store.Game, error) {
	return f.listGames(userID, false), nil
}

func (f *fakeStore) listGames(userID int64, inProgress bool) []*store.Game {
	var out []*store.Game
	for _, g := range f.games {
		if g.UserID == userID && (g.Status == StatusInProgress) == inProgress {
			copied := *g
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *fakeStore) UpdateGameStatus(gameID int64, status string) error {
	f.games[gameID].Status = status
	f.games[gameID].CompletedAt = "2025-01-01 00:00:00"
	return nil
}

func (f *fakeStore) IncrementCorrectGuesses(gameID int64) error {
	f.games[gameID].CorrectGuesses++
	f.games[gameID].TotalCards++
	return nil
}

func (f *fakeStore) IncrementWrongGuesses(gameID int64) error {
	f.games[gameID].WrongGuesses++
	f.games[gameID].TotalCards++
	return nil
}

func (f *fakeStore) SetCurrentRound(gameID, cardID int64, startedAt time.Time) error {
	f.games[gameID].RoundCardID = cardID
	f.games[gameID].RoundStartedAt = startedAt.Unix()
	return nil
}

func (f *fakeStore) ClearCurrentRound(gameID int64) error {
	f.games[gameID].RoundCardID = 0
	f.games[gameID].RoundStartedAt = 0
	return nil
}

func (f *fakeStore) DeleteGame(gameID int64) error {
	delete(f.games, gameID)
	delete(f.gameCards, gameID)
	return nil
}

func (f *fakeStore) AddGameCard(gameID, cardID int64, roundNumber *int, won, initialCard bool, createdAt time.Time) error {
	c := f.cards[cardID]
	f.gameCards[gameID] = append(f.gameCards[gameID], &store.GameCard{
		CardID:          cardID,
		Text:            c.Text,
		ImagePath:       c.ImagePath,
		MisfortuneIndex: c.MisfortuneIndex,
		RoundNumber:     roundNumber,
		Won:             won,
		InitialCard:     initialCard,
	})
	return nil
}

func (f *fakeStore) GetWonCards(gameID int64) ([]*store.Card, error) {
	var out []*store.Card
	for _, gc := range f.gameCards[gameID] {
		if gc.Won {
			out = append(out, &store.Card{
				ID:              gc.CardID,
				Text:            gc.Text,
				ImagePath:       gc.ImagePath,
				MisfortuneIndex: gc.MisfortuneIndex,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MisfortuneIndex < out[j].MisfortuneIndex })
	return out, nil
}

func (f *fakeStore) GetUsedCardIDs(gameID int64) ([]int64, error) {
	var ids []int64
	for _, gc := range f.gameCards[gameID] {
		ids = append(ids, gc.CardID)
	}
	return ids, nil
}

func (f *fakeStore) CountRounds(gameID int64) (int, error) {
	count := 0
	for _, gc := range f.gameCards[gameID] {
		if gc.RoundNumber != nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) GetGameCards(gameID int64) ([]*store.GameCard, error) {
	return f.gameCards[gameID], nil
}

func (f *fakeStore) Close() error { return nil }
