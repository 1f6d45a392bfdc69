package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riadims/boardGame-rental/internal/auth"
)

// Funkcja pomocnicza - tworzy użytkownika o unikalnej nazwie, aby testy
// mogły działać równolegle na wspólnej bazie.
func createTestUser(t *testing.T, username string) int64 {
	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotZero(t, user.ID)
	return user.ID
}

func TestCreateUser(t *testing.T) {
	hashedPassword, err := auth.HashPassword("secretpassword")
	require.NoError(t, err)

	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     "  gracz_create  ",
		Email:        "Gracz_Create@Example.COM",
		PasswordHash: hashedPassword,
	})
	require.NoError(t, err)
	require.NotNil(t, user)

	// Normalizacja: nazwa bez spacji, email małymi literami
	require.Equal(t, "gracz_create", user.Username)
	require.Equal(t, "gracz_create@example.com", user.Email)
	require.NotEmpty(t, user.PasswordHash)
	require.NotZero(t, user.CreatedAt)

	// Duplikat emaila (różna wielkość liter) ma zwrócić ErrEmailTaken
	_, err = testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     "gracz_create_2",
		Email:        "GRACZ_CREATE@example.com",
		PasswordHash: hashedPassword,
	})
	require.ErrorIs(t, err, ErrEmailTaken)

	// Duplikat nazwy użytkownika
	_, err = testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     "gracz_create",
		Email:        "inny_email@example.com",
		PasswordHash: hashedPassword,
	})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestGetUserByEmail(t *testing.T) {
	createTestUser(t, "gracz_by_email")

	foundUser, err := testStore.GetUserByEmail(context.Background(), "gracz_by_email@example.com")
	require.NoError(t, err)
	require.NotNil(t, foundUser)
	require.Equal(t, "gracz_by_email", foundUser.Username)

	// Wyszukiwanie nie rozróżnia wielkości liter w adresie
	foundUser, err = testStore.GetUserByEmail(context.Background(), "GRACZ_BY_EMAIL@Example.com")
	require.NoError(t, err)
	require.NotNil(t, foundUser)

	nonExistentUser, err := testStore.GetUserByEmail(context.Background(), "nikt@example.com")
	require.NoError(t, err)
	require.Nil(t, nonExistentUser)
}

func TestGetUserByID(t *testing.T) {
	userID := createTestUser(t, "gracz_by_id")

	foundUser, err := testStore.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, foundUser)
	require.Equal(t, userID, foundUser.ID)
	require.Equal(t, "gracz_by_id", foundUser.Username)

	nonExistentUser, err := testStore.GetUserByID(context.Background(), 999999)
	require.NoError(t, err)
	require.Nil(t, nonExistentUser)
}

func TestUpdateUserProfile(t *testing.T) {
	userID := createTestUser(t, "gracz_update_profile")
	createTestUser(t, "gracz_update_other")

	// Zmiana tylko nazwy użytkownika - email zostaje
	newUsername := "gracz_update_profile_v2"
	user, err := testStore.UpdateUserProfile(context.Background(), UpdateUserProfileParams{
		ID:       userID,
		Username: &newUsername,
	})
	require.NoError(t, err)
	require.Equal(t, "gracz_update_profile_v2", user.Username)
	require.Equal(t, "gracz_update_profile@example.com", user.Email)

	// Zmiana emaila - normalizacja do małych liter
	newEmail := "Gracz_Update_New@Example.com"
	user, err = testStore.UpdateUserProfile(context.Background(), UpdateUserProfileParams{
		ID:    userID,
		Email: &newEmail,
	})
	require.NoError(t, err)
	require.Equal(t, "gracz_update_new@example.com", user.Email)

	// Konflikt z nazwą innego użytkownika
	takenUsername := "gracz_update_other"
	_, err = testStore.UpdateUserProfile(context.Background(), UpdateUserProfileParams{
		ID:       userID,
		Username: &takenUsername,
	})
	require.ErrorIs(t, err, ErrUsernameTaken)

	// Nieistniejący użytkownik
	_, err = testStore.UpdateUserProfile(context.Background(), UpdateUserProfileParams{
		ID:       999999,
		Username: &newUsername,
	})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUserPassword(t *testing.T) {
	userID := createTestUser(t, "gracz_update_password")

	newHash, err := auth.HashPassword("newsecret")
	require.NoError(t, err)

	err = testStore.UpdateUserPassword(context.Background(), userID, newHash)
	require.NoError(t, err)

	user, err := testStore.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, newHash, user.PasswordHash)
	require.True(t, auth.CheckPasswordHash("newsecret", user.PasswordHash))
}

func TestDeleteUser(t *testing.T) {
	userID := createTestUser(t, "gracz_delete")

	// Usunięcie konta kasuje też gry użytkownika (ON DELETE CASCADE)
	game := createTestGame(t, CreateGameParams{ID: "delete_user_game_00001", OwnerID: userID, Title: "Gra usuwanego gracza"})

	deleted, err := testStore.DeleteUser(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, deleted)

	foundUser, err := testStore.GetUserByID(context.Background(), userID)
	require.NoError(t, err)
	require.Nil(t, foundUser)

	foundGame, err := testStore.GetGameByID(context.Background(), game.ID)
	require.NoError(t, err)
	require.Nil(t, foundGame, "owner's games should be removed with the account")

	// Ponowne usunięcie - brak rekordu
	deleted, err = testStore.DeleteUser(context.Background(), userID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestListUsernames(t *testing.T) {
	createTestUser(t, "aaa_list_usernames")
	createTestUser(t, "zzz_list_usernames")

	usernames, err := testStore.ListUsernames(context.Background())
	require.NoError(t, err)
	require.Contains(t, usernames, "aaa_list_usernames")
	require.Contains(t, usernames, "zzz_list_usernames")

	// Lista jest posortowana alfabetycznie
	var idxA, idxZ int
	for i, name := range usernames {
		if name == "aaa_list_usernames" {
			idxA = i
		}
		if name == "zzz_list_usernames" {
			idxZ = i
		}
	}
	require.Less(t, idxA, idxZ)
}
