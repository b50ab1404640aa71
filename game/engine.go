package game

import (
	"errors"
	"time"

	"misfortune/store"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrCardNotFound      = errors.New("card not found")
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrForbidden         = errors.New("access denied to this game")
	ErrDemoLimit         = errors.New("demo game allows only one round, register to play full games")
	ErrNoMoreCards       = errors.New("no more cards available")
	ErrNoActiveRound     = errors.New("card is not the current round card")
)

// Engine runs the round/guess state machine: a game starts in_progress with
// 3 initial cards already won, each round reveals a new card with its
// misfortune index hidden, and the game ends won at 6 owned cards or lost at
// 3 wrong guesses.
type Engine struct {
	store store.Store
}

func NewEngine(store store.Store) *Engine {
	return &Engine{store: store}
}

func owner(identity Identity) int64 {
	if identity.Authenticated {
		return identity.UserID
	}
	return 0
}

// CreateGame discards any in-progress game for the same owner, then creates
// a fresh game with 3 random initial cards recorded as already won.
func (e *Engine) CreateGame(identity Identity, now time.Time) (*NewGame, error) {
	userID := owner(identity)

	stale, err := e.store.GetGamesInProgress(userID)
	if err != nil {
		return nil, err
	}
	for _, g := range stale {
		if err := e.store.DeleteGame(g.ID); err != nil {
			return nil, err
		}
	}

	gameID, err := e.store.CreateGame(userID, now)
	if err != nil {
		return nil, err
	}

	initial, err := e.store.GetRandomCards(InitialCards, false, nil)
	if err != nil {
		return nil, err
	}
	if len(initial) < InitialCards {
		return nil, ErrNoMoreCards
	}

	for _, c := range initial {
		if err := e.store.AddGameCard(gameID, c.ID, nil, true, true, now); err != nil {
			return nil, err
		}
	}

	cards, err := e.store.GetWonCards(gameID)
	if err != nil {
		return nil, err
	}

	return &NewGame{
		GameID:     gameID,
		Status:     StatusInProgress,
		TotalCards: InitialCards,
		Cards:      toCards(cards, false),
	}, nil
}

// loadPlayable fetches the game and applies the shared existence, status and
// ownership guards.
func (e *Engine) loadPlayable(gameID int64, identity Identity) (*store.Game, error) {
	g, err := e.store.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	if g.Status != StatusInProgress {
		return nil, ErrGameNotInProgress
	}
	if identity.Authenticated && g.UserID != identity.UserID {
		return nil, ErrForbidden
	}
	return g, nil
}

// StartRound draws one unused card with its misfortune index hidden and
// stamps the 30 second guess window. Anonymous games are capped at a single
// round.
func (e *Engine) StartRound(gameID int64, identity Identity, now time.Time) (*Round, error) {
	g, err := e.loadPlayable(gameID, identity)
	if err != nil {
		return nil, err
	}

	rounds, err := e.store.CountRounds(g.ID)
	if err != nil {
		return nil, err
	}
	roundNumber := rounds + 1

	if !identity.Authenticated && roundNumber > 1 {
		return nil, ErrDemoLimit
	}

	used, err := e.store.GetUsedCardIDs(g.ID)
	if err != nil {
		return nil, err
	}

	drawn, err := e.store.GetRandomCards(1, true, used)
	if err != nil {
		return nil, err
	}
	if len(drawn) == 0 {
		return nil, ErrNoMoreCards
	}
	card := drawn[0]

	if err := e.store.SetCurrentRound(g.ID, card.ID, now); err != nil {
		return nil, err
	}

	return &Round{
		RoundNumber: roundNumber,
		Card:        toCard(card, true),
		Timeout:     GuessTimeoutSeconds,
	}, nil
}

// SubmitGuess resolves the pending round: position is the zero-based slot in
// the player's hand sorted by misfortune index, -1 means no selection. Over
// the 30 second window the guess counts as wrong regardless of position.
func (e *Engine) SubmitGuess(gameID, cardID int64, position, roundNumber int, identity Identity, now time.Time) (*GuessResult, error) {
	g, err := e.loadPlayable(gameID, identity)
	if err != nil {
		return nil, err
	}

	card, err := e.store.GetCard(cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	if g.RoundCardID != cardID {
		return nil, ErrNoActiveRound
	}

	ownedBefore, err := e.store.GetWonCards(g.ID)
	if err != nil {
		return nil, err
	}

	correctPosition := insertPosition(card.MisfortuneIndex, ownedBefore)
	elapsed := now.Sub(time.Unix(g.RoundStartedAt, 0))
	timeExpired := elapsed > GuessTimeoutSeconds*time.Second
	correct := !timeExpired && position == correctPosition

	// The card slot is consumed exactly once regardless of outcome. These
	// writes are sequential with no rollback; a failure part-way leaves the
	// game mid-mutation.
	if err := e.store.AddGameCard(g.ID, cardID, &roundNumber, correct, false, now); err != nil {
		return nil, err
	}
	if err := e.store.ClearCurrentRound(g.ID); err != nil {
		return nil, err
	}

	var message string
	if correct {
		if err := e.store.IncrementCorrectGuesses(g.ID); err != nil {
			return nil, err
		}
		message = "Congratulations! You guessed correctly!"
		if len(ownedBefore)+1 >= CardsToWin {
			if err := e.store.UpdateGameStatus(g.ID, StatusWon); err != nil {
				return nil, err
			}
			message = "You won the game! Congratulations!"
		}
	} else {
		if err := e.store.IncrementWrongGuesses(g.ID); err != nil {
			return nil, err
		}
		if timeExpired {
			message = "Time expired! You lost this card."
		} else {
			message = "Wrong guess! Try again."
		}
		if g.WrongGuesses+1 >= MaxWrongGuesses {
			if err := e.store.UpdateGameStatus(g.ID, StatusLost); err != nil {
				return nil, err
			}
			message = "Game over! You made too many wrong guesses."
		}
	}

	snapshot, err := e.snapshot(g.ID)
	if err != nil {
		return nil, err
	}

	result := &GuessResult{
		Correct:         correct,
		CorrectPosition: correctPosition,
		TimeExpired:     timeExpired,
		Message:         message,
		Game:            snapshot,
	}
	if !timeExpired {
		// The round is resolved, so the index may be revealed. On timeout
		// the card is lost without being shown.
		result.Card = toCard(card, false)
	}
	return result, nil
}

// GetGame returns the current state of a game for its owner.
func (e *Engine) GetGame(gameID int64, identity Identity) (*Snapshot, error) {
	g, err := e.store.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	if identity.Authenticated && g.UserID != identity.UserID {
		return nil, ErrForbidden
	}
	return e.snapshot(gameID)
}

func (e *Engine) snapshot(gameID int64) (*Snapshot, error) {
	g, err := e.store.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}

	cards, err := e.store.GetWonCards(gameID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		ID:             g.ID,
		Status:         g.Status,
		TotalCards:     g.TotalCards,
		CorrectGuesses: g.CorrectGuesses,
		WrongGuesses:   g.WrongGuesses,
		CreatedAt:      g.CreatedAt,
		CompletedAt:    g.CompletedAt,
		Cards:          toCards(cards, false),
	}, nil
}

// insertPosition returns the first index in the ascending hand whose
// misfortune index exceeds the revealed value; equal indexes insert after,
// and a value above everything inserts at the end.
func insertPosition(misfortuneIndex int, sorted []*store.Card) int {
	for i, c := range sorted {
		if misfortuneIndex < c.MisfortuneIndex {
			return i
		}
	}
	return len(sorted)
}

func toCard(c *store.Card, hideMisfortuneIndex bool) *Card {
	card := &Card{
		ID:        c.ID,
		Text:      c.Text,
		ImagePath: c.ImagePath,
	}
	if !hideMisfortuneIndex {
		card.MisfortuneIndex = c.MisfortuneIndex
	}
	return card
}

func toCards(cards []*store.Card, hideMisfortuneIndex bool) []*Card {
	out := make([]*Card, len(cards))
	for i, c := range cards {
		out[i] = toCard(c, hideMisfortuneIndex)
	}
	return out
}
