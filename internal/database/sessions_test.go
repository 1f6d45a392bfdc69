package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestSession(t *testing.T, userID int64, refreshToken string, expiresAt time.Time) uuid.UUID {
	sessionID := uuid.New()
	err := testStore.CreateSession(context.Background(), CreateSessionParams{
		ID:           sessionID,
		UserID:       userID,
		RefreshToken: refreshToken,
		UserAgent:    "test-agent",
		ClientIP:     "127.0.0.1",
		ExpiresAt:    expiresAt,
	})
	require.NoError(t, err)
	return sessionID
}

func TestGetUserByRefreshToken(t *testing.T) {
	userID := createTestUser(t, "user_session_refresh")
	createTestSession(t, userID, "refresh_token_valid_001", time.Now().Add(24*time.Hour))

	user, err := testStore.GetUserByRefreshToken(context.Background(), "refresh_token_valid_001")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, userID, user.ID)

	// Wygasła sesja jest traktowana jak nieistniejąca
	createTestSession(t, userID, "refresh_token_expired_001", time.Now().Add(-time.Hour))
	user, err = testStore.GetUserByRefreshToken(context.Background(), "refresh_token_expired_001")
	require.NoError(t, err)
	require.Nil(t, user)

	user, err = testStore.GetUserByRefreshToken(context.Background(), "no_such_token")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestListSessionsForUser(t *testing.T) {
	userID := createTestUser(t, "user_session_list")
	createTestSession(t, userID, "list_sessions_token_1", time.Now().Add(24*time.Hour))
	createTestSession(t, userID, "list_sessions_token_2", time.Now().Add(24*time.Hour))
	// Wygasłe sesje nie pojawiają się na liście
	createTestSession(t, userID, "list_sessions_token_3", time.Now().Add(-time.Hour))

	sessions, err := testStore.ListSessionsForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "test-agent", sessions[0].UserAgent)
	require.Equal(t, "127.0.0.1", sessions[0].ClientIP)
}

func TestDeleteSessionByID(t *testing.T) {
	userID := createTestUser(t, "user_session_delete")
	otherUserID := createTestUser(t, "user_session_delete_2")
	sessionID := createTestSession(t, userID, "delete_session_token_1", time.Now().Add(24*time.Hour))

	// Inny użytkownik nie usunie cudzej sesji - zapytanie warunkuje user_id
	err := testStore.DeleteSessionByID(context.Background(), sessionID, otherUserID)
	require.NoError(t, err)
	sessions, err := testStore.ListSessionsForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	err = testStore.DeleteSessionByID(context.Background(), sessionID, userID)
	require.NoError(t, err)
	sessions, err = testStore.ListSessionsForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 0)
}

func TestDeleteAllSessionsForUser(t *testing.T) {
	userID := createTestUser(t, "user_session_delete_all")
	createTestSession(t, userID, "delete_all_token_1", time.Now().Add(24*time.Hour))
	createTestSession(t, userID, "delete_all_token_2", time.Now().Add(24*time.Hour))

	err := testStore.DeleteAllSessionsForUser(context.Background(), userID)
	require.NoError(t, err)

	sessions, err := testStore.ListSessionsForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 0)
}

func TestRefreshTokenRotation(t *testing.T) {
	userID := createTestUser(t, "user_session_rotate")
	createTestSession(t, userID, "rotate_old_token_0001", time.Now().Add(24*time.Hour))

	// Rotacja: w jednej transakcji stary token znika, nowa sesja powstaje
	err := testStore.ExecTx(context.Background(), func(q *Queries) error {
		if err := q.DeleteSessionByRefreshToken(context.Background(), "rotate_old_token_0001"); err != nil {
			return err
		}
		return q.CreateSession(context.Background(), CreateSessionParams{
			ID:           uuid.New(),
			UserID:       userID,
			RefreshToken: "rotate_new_token_0001",
			UserAgent:    "test-agent",
			ClientIP:     "127.0.0.1",
			ExpiresAt:    time.Now().Add(24 * time.Hour),
		})
	})
	require.NoError(t, err)

	user, err := testStore.GetUserByRefreshToken(context.Background(), "rotate_old_token_0001")
	require.NoError(t, err)
	require.Nil(t, user, "rotated token should no longer be usable")

	user, err = testStore.GetUserByRefreshToken(context.Background(), "rotate_new_token_0001")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, userID, user.ID)
}
