package game

// History returns the caller's completed games, newest first, each with its
// full card list. Used by the profile endpoint.
func (e *Engine) History(userID int64) ([]*HistoryGame, error) {
	games, err := e.store.GetFinishedGames(userID)
	if err != nil {
		return nil, err
	}

	history := make([]*HistoryGame, 0, len(games))
	for _, g := range games {
		gameCards, err := e.store.GetGameCards(g.ID)
		if err != nil {
			return nil, err
		}

		cards := make([]*HistoryCard, len(gameCards))
		for i, gc := range gameCards {
			cards[i] = &HistoryCard{
				ID:              gc.CardID,
				Text:            gc.Text,
				ImagePath:       gc.ImagePath,
				MisfortuneIndex: gc.MisfortuneIndex,
				RoundNumber:     gc.RoundNumber,
				Won:             gc.Won,
				InitialCard:     gc.InitialCard,
			}
		}

		history = append(history, &HistoryGame{
			ID:             g.ID,
			Status:         g.Status,
			TotalCards:     g.TotalCards,
			CorrectGuesses: g.CorrectGuesses,
			WrongGuesses:   g.WrongGuesses,
			CreatedAt:      g.CreatedAt,
			CompletedAt:    g.CompletedAt,
			Cards:          cards,
		})
	}
	return history, nil
}
