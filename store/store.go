package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type Store interface {
	CreateUser(email, username, passwordHash, imagePath string) (int64, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByID(userID int64) (*User, error)

	GetCard(cardID int64) (*Card, error)
	GetRandomCards(limit int, hideMisfortuneIndex bool, excludeIDs []int64) ([]*Card, error)

	CreateGame(userID int64, createdAt time.Time) (int64, error)
	GetGame(gameID int64) (*Game, error)
	GetGamesInProgress(userID int64) ([]*Game, error)
	GetFinishedGames(userID int64) ([]*Game, error)
	UpdateGameStatus(gameID int64, status string) error
	IncrementCorrectGuesses(gameID int64) error
	IncrementWrongGuesses(gameID int64) error
	SetCurrentRound(gameID, cardID int64, startedAt time.Time) error
	ClearCurrentRound(gameID int64) error
	DeleteGame(gameID int64) error

	AddGameCard(gameID, cardID int64, roundNumber *int, won, initialCard bool, createdAt time.Time) error
	GetWonCards(gameID int64) ([]*Card, error)
	GetUsedCardIDs(gameID int64) ([]int64, error)
	CountRounds(gameID int64) (int, error)
	GetGameCards(gameID int64) ([]*GameCard, error)

	Close() error
}

type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	ImagePath    string
	CreatedAt    string
}

type Card struct {
	ID              int64
	Text            string
	ImagePath       string
	MisfortuneIndex int
}

type Game struct {
	ID             int64
	UserID         int64
	Status         string
	TotalCards     int
	CorrectGuesses int
	WrongGuesses   int
	RoundCardID    int64
	RoundStartedAt int64
	CreatedAt      string
	CompletedAt    string
}

// GameCard is a per-game card record joined with the card itself, used for
// game history. RoundNumber is nil for the 3 initial cards.
type GameCard struct {
	CardID          int64
	Text            string
	ImagePath       string
	MisfortuneIndex int
	RoundNumber     *int
	Won             bool
	InitialCard     bool
	CreatedAt       string
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := db.Exec(seedCards); err != nil {
		return nil, fmt.Errorf("failed to seed cards: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

const timeFormat = "2006-01-02 15:04:05"

func (s *SQLiteStore) CreateUser(email, username, passwordHash, imagePath string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO users (email, username, password_hash, image_path) VALUES (?, ?, ?, ?)",
		email, username, passwordHash, imagePath,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetUserByEmail(email string) (*User, error) {
	user := &User{}
	err := s.db.QueryRow(
		"SELECT id, email, username, password_hash, image_path, created_at FROM users WHERE email = ?",
		email,
	).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.ImagePath, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) GetUserByID(userID int64) (*User, error) {
	user := &User{}
	err := s.db.QueryRow(
		"SELECT id, email, username, password_hash, image_path, created_at FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.ImagePath, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) GetCard(cardID int64) (*Card, error) {
	card := &Card{}
	err := s.db.QueryRow(
		"SELECT id, text, image_path, misfortune_index FROM cards WHERE id = ?",
		cardID,
	).Scan(&card.ID, &card.Text, &card.ImagePath, &card.MisfortuneIndex)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

func (s *SQLiteStore) GetRandomCards(limit int, hideMisfortuneIndex bool, excludeIDs []int64) ([]*Card, error) {
	cols := "id, text, image_path, misfortune_index"
	if hideMisfortuneIndex {
		// The misfortune index never leaves the database for an unresolved
		// round card.
		cols = "id, text, image_path"
	}

	query := "SELECT " + cols + " FROM cards"
	args := make([]interface{}, 0, len(excludeIDs)+1)
	if len(excludeIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(excludeIDs)), ",")
		query += " WHERE id NOT IN (" + placeholders + ")"
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}
	query += " ORDER BY RANDOM() LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get random cards: %w", err)
	}
	defer rows.Close()

	var cards []*Card
	for rows.Next() {
		card := &Card{}
		if hideMisfortuneIndex {
			err = rows.Scan(&card.ID, &card.Text, &card.ImagePath)
		} else {
			err = rows.Scan(&card.ID, &card.Text, &card.ImagePath, &card.MisfortuneIndex)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A short draw means the deck cannot satisfy the request; callers treat
	// that the same as an exhausted deck, so return nothing at all.
	if len(cards) < limit {
		return nil, nil
	}
	return cards, nil
}

func (s *SQLiteStore) CreateGame(userID int64, createdAt time.Time) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO games (user_id, status, total_cards, correct_guesses, wrong_guesses, created_at) VALUES (?, 'in_progress', 3, 0, 0, ?)",
		userID, createdAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}
	return result.LastInsertId()
}

const gameColumns = "id, user_id, status, total_cards, correct_guesses, wrong_guesses, round_card_id, round_started_at, created_at, completed_at"

func (s *SQLiteStore) GetGame(gameID int64) (*Game, error) {
	row := s.db.QueryRow("SELECT "+gameColumns+" FROM games WHERE id = ?", gameID)

	game, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

func (s *SQLiteStore) GetGamesInProgress(userID int64) ([]*Game, error) {
	return s.listGames(
		"SELECT "+gameColumns+" FROM games WHERE user_id = ? AND status = 'in_progress' ORDER BY created_at DESC",
		userID,
	)
}

func (s *SQLiteStore) GetFinishedGames(userID int64) ([]*Game, error) {
	return s.listGames(
		"SELECT "+gameColumns+" FROM games WHERE user_id = ? AND status != 'in_progress' ORDER BY completed_at DESC",
		userID,
	)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*Game, error) {
	game := &Game{}
	var roundCardID, roundStartedAt sql.NullInt64
	var completedAt sql.NullString
	err := row.Scan(&game.ID, &game.UserID, &game.Status, &game.TotalCards, &game.CorrectGuesses,
		&game.WrongGuesses, &roundCardID, &roundStartedAt, &game.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	game.RoundCardID = roundCardID.Int64
	game.RoundStartedAt = roundStartedAt.Int64
	game.CompletedAt = completedAt.String
	return game, nil
}

func (s *SQLiteStore) listGames(query string, userID int64) ([]*Game, error) {
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (s *SQLiteStore) UpdateGameStatus(gameID int64, status string) error {
	_, err := s.db.Exec(
		"UPDATE games SET status = ?, completed_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, gameID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game status: %w", err)
	}
	return nil
}

func (s *SQLiteStore) IncrementCorrectGuesses(gameID int64) error {
	_, err := s.db.Exec(
		"UPDATE games SET correct_guesses = correct_guesses + 1, total_cards = total_cards + 1 WHERE id = ?",
		gameID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment correct guesses: %w", err)
	}
	return nil
}

func (s *SQLiteStore) IncrementWrongGuesses(gameID int64) error {
	_, err := s.db.Exec(
		"UPDATE games SET wrong_guesses = wrong_guesses + 1, total_cards = total_cards + 1 WHERE id = ?",
		gameID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment wrong guesses: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetCurrentRound(gameID, cardID int64, startedAt time.Time) error {
	_, err := s.db.Exec(
		"UPDATE games SET round_card_id = ?, round_started_at = ? WHERE id = ?",
		cardID, startedAt.Unix(), gameID,
	)
	if err != nil {
		return fmt.Errorf("failed to set current round: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ClearCurrentRound(gameID int64) error {
	_, err := s.db.Exec(
		"UPDATE games SET round_card_id = NULL, round_started_at = NULL WHERE id = ?",
		gameID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear current round: %w", err)
	}
	return nil
}

// DeleteGame removes a game and its game_cards rows. The cascade is done
// explicitly so it does not depend on the per-connection foreign_keys pragma.
func (s *SQLiteStore) DeleteGame(gameID int64) error {
	if _, err := s.db.Exec("DELETE FROM game_cards WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("failed to delete game cards: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM games WHERE id = ?", gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddGameCard(gameID, cardID int64, roundNumber *int, won, initialCard bool, createdAt time.Time) error {
	wonVal := 0
	if won {
		wonVal = 1
	}
	initialVal := 0
	if initialCard {
		initialVal = 1
	}

	var round interface{}
	if roundNumber != nil {
		round = *roundNumber
	}

	_, err := s.db.Exec(
		"INSERT INTO game_cards (game_id, card_id, round_number, won, initial_card, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		gameID, cardID, round, wonVal, initialVal, createdAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to add game card: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetWonCards(gameID int64) ([]*Card, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.text, c.image_path, c.misfortune_index
		FROM cards c
		JOIN game_cards gc ON c.id = gc.card_id
		WHERE gc.game_id = ? AND gc.won = 1
		ORDER BY c.misfortune_index ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get won cards: %w", err)
	}
	defer rows.Close()

	var cards []*Card
	for rows.Next() {
		card := &Card{}
		if err := rows.Scan(&card.ID, &card.Text, &card.ImagePath, &card.MisfortuneIndex); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (s *SQLiteStore) GetUsedCardIDs(gameID int64) ([]int64, error) {
	rows, err := s.db.Query("SELECT card_id FROM game_cards WHERE game_id = ?", gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get used cards: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan card id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) CountRounds(gameID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM game_cards WHERE game_id = ? AND round_number IS NOT NULL",
		gameID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rounds: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) GetGameCards(gameID int64) ([]*GameCard, error) {
	rows, err := s.db.Query(`
		SELECT gc.card_id, c.text, c.image_path, c.misfortune_index, gc.round_number, gc.won, gc.initial_card, gc.created_at
		FROM game_cards gc
		JOIN cards c ON gc.card_id = c.id
		WHERE gc.game_id = ?
		ORDER BY gc.round_number ASC
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game cards: %w", err)
	}
	defer rows.Close()

	var cards []*GameCard
	for rows.Next() {
		card := &GameCard{}
		var round sql.NullInt64
		var won, initial int
		if err := rows.Scan(&card.CardID, &card.Text, &card.ImagePath, &card.MisfortuneIndex,
			&round, &won, &initial, &card.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game card: %w", err)
		}
		if round.Valid {
			n := int(round.Int64)
			card.RoundNumber = &n
		}
		card.Won = won == 1
		card.InitialCard = initial == 1
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
