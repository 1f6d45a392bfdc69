package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"

	"github.com/riadims/boardGame-rental/internal/database"
)

type CreateGameRequest struct {
	Title       string  `json:"title" example:"Catan"`
	Description *string `json:"description"`
	Category    *string `json:"category" example:"strategy"`
}

func (s *Server) generateUniqueID(ctx context.Context) (string, error) {
	maxRetries := 10

	generateID, err := nanoid.Standard(21)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	for i := 0; i < maxRetries; i++ {
		id := generateID()
		exists, err := s.store.GameExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check for game existence: %w", err)
		}
		if !exists {
			return id, nil
		}
	}

	return "", fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}

// @Summary      Create a new board game
// @Description  Adds a new game to the catalog. The authenticated caller becomes its owner and the game starts as available.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        createGameRequest  body      CreateGameRequest  true  "Game data"
// @Success      201  {object}  models.Game
// @Failure      400  {string}  string "Invalid request body or empty title"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      409  {string}  string "A game with this title already exists"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /games [post]
func (s *Server) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		http.Error(w, "Game title cannot be empty", http.StatusBadRequest)
		return
	}

	gameID, err := s.generateUniqueID(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	params := database.CreateGameParams{
		ID:          gameID,
		OwnerID:     claims.UserID,
		Title:       title,
		Description: req.Description,
		Category:    req.Category,
	}

	game, err := s.store.CreateGame(r.Context(), params)
	if err != nil {
		if errors.Is(err, database.ErrDuplicateGameTitle) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create game", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(game)
}

// @Summary      List all board games
// @Description  Returns the whole catalog, available and borrowed games alike. Public endpoint.
// @Tags         games
// @Produce      json
// @Success      200  {array}   models.Game
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /games [get]
func (s *Server) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	games, err := s.store.ListGames(r.Context())
	if err != nil {
		http.Error(w, "Failed to list games", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}

// @Summary      Get a single board game
// @Description  Returns one game by its ID. Public endpoint.
// @Tags         games
// @Produce      json
// @Param        gameId  path      string  true  "Game ID"
// @Success      200  {object}  models.Game
// @Failure      404  {string}  string "Game not found"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /games/{gameId} [get]
func (s *Server) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameId")
	if gameID == "" {
		http.Error(w, "Game ID is required", http.StatusBadRequest)
		return
	}

	game, err := s.store.GetGameByID(r.Context(), gameID)
	if err != nil {
		http.Error(w, "Failed to retrieve game", http.StatusInternalServerError)
		return
	}
	if game == nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(game)
}

type UpdateGameRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// @Summary      Update a board game
// @Description  Updates the metadata of a game owned by the caller. Only title, description and category can change here; loan state moves exclusively through the rent and return endpoints.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gameId             path      string             true  "Game ID"
// @Param        updateGameRequest  body      UpdateGameRequest  true  "Fields to update"
// @Success      200  {object}  models.Game
// @Failure      400  {string}  string "Invalid request body or empty title"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "Only the owner can modify this game"
// @Failure      404  {string}  string "Game not found"
// @Failure      409  {string}  string "A game with this title already exists"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /games/{gameId} [patch]
func (s *Server) UpdateGameHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	gameID := chi.URLParam(r, "gameId")

	var req UpdateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == nil && req.Description == nil && req.Category == nil {
		http.Error(w, "No update operation specified (provide 'title', 'description' or 'category')", http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			http.Error(w, "Game title cannot be empty", http.StatusBadRequest)
			return
		}
		req.Title = &trimmed
	}

	game, err := s.store.UpdateGame(r.Context(), database.UpdateGameParams{
		ID:          gameID,
		OwnerID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrGameNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, database.ErrNotGameOwner):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, database.ErrDuplicateGameTitle):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to update game", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(game)
}

// @Summary      Delete a board game
// @Description  Removes a game from the catalog. Only the owner may delete it.
// @Tags         games
// @Security     BearerAuth
// @Param        gameId  path      string  true  "Game ID"
// @Success      204  {null}    nil "No Content"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "Only the owner can modify this game"
// @Failure      404  {string}  string "Game not found"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /games/{gameId} [delete]
func (s *Server) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	gameID := chi.URLParam(r, "gameId")

	if gameID == "" {
		http.Error(w, "Game ID is required", http.StatusBadRequest)
		return
	}

	err := s.store.DeleteGame(r.Context(), gameID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrGameNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, database.ErrNotGameOwner):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "Failed to delete game", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Rent a board game
// @Description  Borrows an available game for the authenticated caller. The return date is set to seven days from now. Owners cannot borrow their own games, and a game can only be held by one borrower at a time.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        gameId  path      string  true  "Game ID"
// @Success      200  {object}  models.Game
// @Failure      401  {string}  string "Unauthorized"
// @Failure      404  {string}  string "Game not found"
// @Failure      409  {string}  string "Game already borrowed or caller owns it"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /games/{gameId}/rent [post]
func (s *Server) RentGameHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	gameID := chi.URLParam(r, "gameId")

	if gameID == "" {
		http.Error(w, "Game ID is required", http.StatusBadRequest)
		return
	}

	game, err := s.store.BorrowGame(r.Context(), gameID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrGameNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, database.ErrGameAlreadyBorrowed), errors.Is(err, database.ErrOwnGameBorrow):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to rent game", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(game)
}

// @Summary      Return a borrowed board game
// @Description  Returns a game currently borrowed by the authenticated caller, clearing all loan fields at once.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Param        gameId  path      string  true  "Game ID"
// @Success      200  {object}  models.Game
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "Caller did not borrow this game"
// @Failure      404  {string}  string "Game not found"
// @Failure      409  {string}  string "Game is not currently borrowed"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /games/{gameId}/return [post]
func (s *Server) ReturnGameHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	gameID := chi.URLParam(r, "gameId")

	if gameID == "" {
		http.Error(w, "Game ID is required", http.StatusBadRequest)
		return
	}

	game, err := s.store.ReturnGame(r.Context(), gameID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrGameNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, database.ErrGameNotBorrowed):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, database.ErrNotBorrower):
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "Failed to return game", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(game)
}

// @Summary      List games owned by the caller
// @Description  Returns all games whose owner is the currently authenticated user.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Game
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /games/mine [get]
func (s *Server) ListMyGamesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	games, err := s.store.ListGamesByOwner(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list games", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}

// @Summary      List games borrowed by the caller
// @Description  Returns all games currently borrowed by the authenticated user, ordered by return date.
// @Tags         games
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.Game
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /games/borrowed [get]
func (s *Server) ListBorrowedGamesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	games, err := s.store.ListGamesByBorrower(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list games", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}
