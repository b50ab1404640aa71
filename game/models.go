package game

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusLost       = "lost"
)

const (
	// InitialCards is the number of cards dealt when a game is created.
	InitialCards = 3
	// CardsToWin is the owned-card count that ends the game as won.
	CardsToWin = 6
	// MaxWrongGuesses is the wrong-guess count that ends the game as lost.
	MaxWrongGuesses = 3
	// GuessTimeoutSeconds is how long the player has to place a round card.
	GuessTimeoutSeconds = 30
)

// Identity is what the session layer knows about the caller. An
// unauthenticated caller plays anonymous demo games owned by user id 0.
type Identity struct {
	Authenticated bool
	UserID        int64
}

// Card as exposed to the player. MisfortuneIndex is zero (and omitted from
// JSON) while a round is unresolved.
type Card struct {
	ID              int64  `json:"id"`
	Text            string `json:"text"`
	ImagePath       string `json:"image_path"`
	MisfortuneIndex int    `json:"misfortune_index,omitempty"`
}

type Snapshot struct {
	ID             int64   `json:"id"`
	Status         string  `json:"status"`
	TotalCards     int     `json:"total_cards"`
	CorrectGuesses int     `json:"correct_guesses"`
	WrongGuesses   int     `json:"wrong_guesses"`
	CreatedAt      string  `json:"created_at"`
	CompletedAt    string  `json:"completed_at,omitempty"`
	Cards          []*Card `json:"cards"`
}

type NewGame struct {
	GameID         int64   `json:"gameId"`
	Status         string  `json:"status"`
	TotalCards     int     `json:"total_cards"`
	CorrectGuesses int     `json:"correct_guesses"`
	WrongGuesses   int     `json:"wrong_guesses"`
	Cards          []*Card `json:"cards"`
}

type Round struct {
	RoundNumber int   `json:"roundNumber"`
	Card        *Card `json:"card"`
	Timeout     int   `json:"timeout"`
}

type GuessResult struct {
	Correct         bool      `json:"correct"`
	CorrectPosition int       `json:"correctPosition"`
	TimeExpired     bool      `json:"timeExpired"`
	Message         string    `json:"message"`
	Card            *Card     `json:"card,omitempty"`
	Game            *Snapshot `json:"game"`
}

// HistoryCard is a card as it appeared in a finished game, round outcome
// included.
type HistoryCard struct {
	ID              int64  `json:"id"`
	Text            string `json:"text"`
	ImagePath       string `json:"image_path"`
	MisfortuneIndex int    `json:"misfortune_index"`
	RoundNumber     *int   `json:"round_number"`
	Won             bool   `json:"won"`
	InitialCard     bool   `json:"initial_card"`
}

type HistoryGame struct {
	ID             int64          `json:"id"`
	Status         string         `json:"status"`
	TotalCards     int            `json:"total_cards"`
	CorrectGuesses int            `json:"correct_guesses"`
	WrongGuesses   int            `json:"wrong_guesses"`
	CreatedAt      string         `json:"created_at"`
	CompletedAt    string         `json:"completed_at,omitempty"`
	Cards          []*HistoryCard `json:"cards"`
}
