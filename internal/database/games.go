package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/riadims/boardGame-rental/internal/models"
)

// Okres wypożyczenia - data zwrotu to zawsze data wypożyczenia plus 7 dni.
const LoanPeriod = 7 * 24 * time.Hour

var ErrGameNotFound = errors.New("game not found")
var ErrDuplicateGameTitle = errors.New("a game with this title already exists")
var ErrGameAlreadyBorrowed = errors.New("game already borrowed")
var ErrGameNotBorrowed = errors.New("game is not currently borrowed")
var ErrOwnGameBorrow = errors.New("you cannot borrow your own game")
var ErrNotGameOwner = errors.New("only the owner can modify this game")
var ErrNotBorrower = errors.New("you did not borrow this game")

const gameColumns = `id, owner_id, title, description, category, available, borrowed_by, borrowed_date, return_date, created_at, modified_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID,
		&game.OwnerID,
		&game.Title,
		&game.Description,
		&game.Category,
		&game.Available,
		&game.BorrowedBy,
		&game.BorrowedDate,
		&game.ReturnDate,
		&game.CreatedAt,
		&game.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

type CreateGameParams struct {
	ID          string
	OwnerID     int64
	Title       string
	Description *string
	Category    *string
}

func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) (*models.Game, error) {
	query := `
		INSERT INTO games (id, owner_id, title, description, category, available, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)
		RETURNING ` + gameColumns
	now := time.Now()

	game, err := scanGame(q.db.QueryRow(ctx, query,
		arg.ID,
		arg.OwnerID,
		arg.Title,
		arg.Description,
		arg.Category,
		now,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateGameTitle
		}
		return nil, err
	}

	return game, nil
}

func (q *Queries) GetGameByID(ctx context.Context, id string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return game, nil
}

func (q *Queries) GameExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM games WHERE id = $1)"
	err := q.db.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (q *Queries) listGames(ctx context.Context, query string, args ...interface{}) ([]models.Game, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if games == nil {
		return []models.Game{}, nil
	}

	return games, nil
}

func (q *Queries) ListGames(ctx context.Context) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY title`
	return q.listGames(ctx, query)
}

func (q *Queries) ListGamesByOwner(ctx context.Context, ownerID int64) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE owner_id = $1 ORDER BY title`
	return q.listGames(ctx, query, ownerID)
}

func (q *Queries) ListGamesByBorrower(ctx context.Context, borrowerID int64) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE borrowed_by = $1 ORDER BY return_date`
	return q.listGames(ctx, query, borrowerID)
}

type UpdateGameParams struct {
	ID          string
	OwnerID     int64
	Title       *string
	Description *string
	Category    *string
}

// UpdateGame zmienia wyłącznie metadane (tytuł, opis, kategorię). Pola stanu
// wypożyczenia nie są tutaj osiągalne - zmieniają je tylko BorrowGame i ReturnGame.
func (q *Queries) UpdateGame(ctx context.Context, arg UpdateGameParams) (*models.Game, error) {
	query := `
		UPDATE games
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    category = COALESCE($3, category),
		    modified_at = $4
		WHERE id = $5 AND owner_id = $6
		RETURNING ` + gameColumns
	now := time.Now()

	game, err := scanGame(q.db.QueryRow(ctx, query,
		arg.Title,
		arg.Description,
		arg.Category,
		now,
		arg.ID,
		arg.OwnerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, q.classifyOwnerMiss(ctx, arg.ID)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateGameTitle
		}
		return nil, err
	}

	return game, nil
}

func (q *Queries) DeleteGame(ctx context.Context, id string, ownerID int64) error {
	query := `DELETE FROM games WHERE id = $1 AND owner_id = $2`
	res, err := q.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return q.classifyOwnerMiss(ctx, id)
	}
	return nil
}

// classifyOwnerMiss rozróżnia brak rekordu od braku uprawnień po nieudanym
// warunkowym UPDATE/DELETE ograniczonym do właściciela.
func (q *Queries) classifyOwnerMiss(ctx context.Context, id string) error {
	game, err := q.GetGameByID(ctx, id)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	return ErrNotGameOwner
}

// BorrowGame przenosi grę ze stanu dostępnego w wypożyczony jednym warunkowym
// UPDATE. Warunek "available = TRUE" rozstrzyga wyścig dwóch równoczesnych
// wypożyczeń po stronie bazy: dokładnie jedno z nich zmodyfikuje wiersz.
func (q *Queries) BorrowGame(ctx context.Context, id string, borrowerID int64) (*models.Game, error) {
	query := `
		UPDATE games
		SET available = FALSE,
		    borrowed_by = $1,
		    borrowed_date = $2,
		    return_date = $3,
		    modified_at = $2
		WHERE id = $4 AND available = TRUE AND owner_id <> $1
		RETURNING ` + gameColumns
	now := time.Now()
	returnDate := now.Add(LoanPeriod)

	game, err := scanGame(q.db.QueryRow(ctx, query, borrowerID, now, returnDate, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, q.classifyBorrowMiss(ctx, id, borrowerID)
		}
		return nil, err
	}

	return game, nil
}

func (q *Queries) classifyBorrowMiss(ctx context.Context, id string, borrowerID int64) error {
	game, err := q.GetGameByID(ctx, id)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.OwnerID == borrowerID {
		return ErrOwnGameBorrow
	}
	return ErrGameAlreadyBorrowed
}

// ReturnGame czyści wszystkie cztery pola wypożyczenia w jednym UPDATE,
// warunkowanym na tym, że to wołający jest aktualnym wypożyczającym.
func (q *Queries) ReturnGame(ctx context.Context, id string, borrowerID int64) (*models.Game, error) {
	query := `
		UPDATE games
		SET available = TRUE,
		    borrowed_by = NULL,
		    borrowed_date = NULL,
		    return_date = NULL,
		    modified_at = $1
		WHERE id = $2 AND available = FALSE AND borrowed_by = $3
		RETURNING ` + gameColumns
	now := time.Now()

	game, err := scanGame(q.db.QueryRow(ctx, query, now, id, borrowerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, q.classifyReturnMiss(ctx, id, borrowerID)
		}
		return nil, err
	}

	return game, nil
}

func (q *Queries) classifyReturnMiss(ctx context.Context, id string, borrowerID int64) error {
	game, err := q.GetGameByID(ctx, id)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Available {
		return ErrGameNotBorrowed
	}
	if game.BorrowedBy == nil || *game.BorrowedBy != borrowerID {
		return ErrNotBorrower
	}
	return ErrGameNotBorrowed
}
