package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/riadims/boardGame-rental/internal/models"
)

// Router o tej samej strukturze co w main.go: publiczny katalog i auth,
// mutacje za middleware.
func newTestRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", testServer.RegisterHandler)
		r.Post("/auth/login", testServer.LoginHandler)
		r.Post("/auth/refresh", testServer.RefreshTokenHandler)

		r.Get("/games", testServer.ListGamesHandler)
		r.Get("/games/{gameId}", testServer.GetGameHandler)
		r.Get("/users/usernames", testServer.ListUsernamesHandler)

		r.Group(func(r chi.Router) {
			r.Use(testServer.AuthMiddleware)
			r.Get("/me", testServer.GetCurrentUserHandler)
			r.Post("/games", testServer.CreateGameHandler)
			r.Get("/games/mine", testServer.ListMyGamesHandler)
			r.Get("/games/borrowed", testServer.ListBorrowedGamesHandler)
			r.Patch("/games/{gameId}", testServer.UpdateGameHandler)
			r.Delete("/games/{gameId}", testServer.DeleteGameHandler)
			r.Post("/games/{gameId}/rent", testServer.RentGameHandler)
			r.Post("/games/{gameId}/return", testServer.ReturnGameHandler)
		})
	})
	return r
}

func registerIntegrationUser(t *testing.T, router *chi.Mux, username string) (string, int64) {
	body, _ := json.Marshal(RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.AccessToken, resp.User.ID
}

// Pełny cykl życia wypożyczenia: rejestracja trzech graczy, dodanie gry,
// wyścig o wypożyczenie, zwrot i usunięcie z katalogu.
func TestRentalLifecycleIntegration(t *testing.T) {
	router := newTestRouter()

	tokenAnna, annaID := registerIntegrationUser(t, router, "int_anna")
	tokenBartek, bartekID := registerIntegrationUser(t, router, "int_bartek")
	tokenCelina, _ := registerIntegrationUser(t, router, "int_celina")

	// Anna dodaje grę do katalogu
	body, _ := json.Marshal(CreateGameRequest{Title: "Catan_Integracja"})
	req := httptest.NewRequest("POST", "/api/v1/games", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokenAnna)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var game models.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	require.Equal(t, annaID, game.OwnerID)
	require.True(t, game.Available)

	gameURL := fmt.Sprintf("/api/v1/games/%s", game.ID)

	// Gra jest widoczna publicznie, bez tokenu
	req = httptest.NewRequest("GET", gameURL, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	// Bartek wypożycza grę
	req = httptest.NewRequest("POST", gameURL+"/rent", nil)
	req.Header.Set("Authorization", "Bearer "+tokenBartek)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var rented models.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rented))
	require.False(t, rented.Available)
	require.Equal(t, bartekID, *rented.BorrowedBy)

	// Celina próbuje wypożyczyć tę samą grę - konflikt
	req = httptest.NewRequest("POST", gameURL+"/rent", nil)
	req.Header.Set("Authorization", "Bearer "+tokenCelina)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusConflict, rr.Code)

	// Gra figuruje na liście wypożyczeń Bartka
	req = httptest.NewRequest("GET", "/api/v1/games/borrowed", nil)
	req.Header.Set("Authorization", "Bearer "+tokenBartek)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var borrowed []models.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &borrowed))
	require.Len(t, borrowed, 1)
	require.Equal(t, game.ID, borrowed[0].ID)

	// Anna nie może zwrócić gry, którą trzyma Bartek
	req = httptest.NewRequest("POST", gameURL+"/return", nil)
	req.Header.Set("Authorization", "Bearer "+tokenAnna)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)

	// Bartek zwraca grę
	req = httptest.NewRequest("POST", gameURL+"/return", nil)
	req.Header.Set("Authorization", "Bearer "+tokenBartek)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var returned models.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &returned))
	require.True(t, returned.Available)
	require.Nil(t, returned.BorrowedBy)

	// Celina nie może usunąć cudzej gry
	req = httptest.NewRequest("DELETE", gameURL, nil)
	req.Header.Set("Authorization", "Bearer "+tokenCelina)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)

	// Anna usuwa swoją grę
	req = httptest.NewRequest("DELETE", gameURL, nil)
	req.Header.Set("Authorization", "Bearer "+tokenAnna)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// Gra znika z katalogu
	req = httptest.NewRequest("GET", gameURL, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

// Trasy statyczne /games/mine i /games/borrowed nie mogą być przechwycone
// przez parametryczną trasę /games/{gameId}.
func TestRoutingPrecedence(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/games/mine", nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var games []models.Game
	err := json.Unmarshal(rr.Body.Bytes(), &games)
	require.NoError(t, err, "response should be a game list, not a single-game lookup for id 'mine'")
}
