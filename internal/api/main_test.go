package api

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/riadims/boardGame-rental/internal/auth"
	"github.com/riadims/boardGame-rental/internal/config"
	"github.com/riadims/boardGame-rental/internal/database"
	"github.com/riadims/boardGame-rental/internal/models"
)

var testServer *Server

// Dwóch stałych użytkowników testowych: właściciel gier i wypożyczający
var ownerToken string
var ownerClaims *auth.AppClaims
var borrowerToken string
var borrowerClaims *auth.AppClaims

func createAPITestUser(ctx context.Context, pool *pgxpool.Pool, secret, username string) (string, *auth.AppClaims, error) {
	hashedPassword, err := auth.HashPassword("password")
	if err != nil {
		return "", nil, err
	}

	var userID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		username, username+"@example.com", hashedPassword).Scan(&userID)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{ID: userID, Username: username}
	token, err := auth.GenerateJWT(user, secret)
	if err != nil {
		return "", nil, err
	}
	claims, err := auth.VerifyJWT(token, secret)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:14-alpine",
		postgres.WithDatabase("test_api_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		log.Fatalf("Could not start postgres: %s", err)
	}
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Could not get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	schema, err := os.ReadFile("../../db/init.sql")
	if err != nil {
		log.Fatalf("Could not read schema file: %s", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Could not apply schema: %s", err)
	}

	store := database.NewStore(pool)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "api_test_secret"}}
	testServer = NewServer(cfg, store)

	ownerToken, ownerClaims, err = createAPITestUser(ctx, pool, cfg.JWT.Secret, "api_test_owner")
	if err != nil {
		log.Fatalf("Could not create owner test user: %s", err)
	}
	borrowerToken, borrowerClaims, err = createAPITestUser(ctx, pool, cfg.JWT.Secret, "api_test_borrower")
	if err != nil {
		log.Fatalf("Could not create borrower test user: %s", err)
	}

	os.Exit(m.Run())
}
