package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	statements := []string{
		`DROP TABLE IF EXISTS votes CASCADE`,
		`DROP TABLE IF EXISTS poll_options CASCADE`,
		`DROP TABLE IF EXISTS polls CASCADE`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS polls (
			id UUID PRIMARY KEY,
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_by VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			allow_multiple_votes BOOLEAN NOT NULL DEFAULT FALSE,
			require_authentication BOOLEAN NOT NULL DEFAULT FALSE,
			expires_at TIMESTAMPTZ,
			share_token UUID NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_polls_created_by ON polls (created_by, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS poll_options (
			id UUID PRIMARY KEY,
			poll_id UUID NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
			text VARCHAR(500) NOT NULL,
			order_index INTEGER NOT NULL,
			UNIQUE (poll_id, order_index)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_poll_options_poll ON poll_options (poll_id)`,

		// Each vote row carries exactly one identity column. single_choice
		// mirrors the poll's voting mode at insert time so the one-vote-
		// per-poll uniqueness can live in partial indexes on this table.
		`CREATE TABLE IF NOT EXISTS votes (
			id UUID PRIMARY KEY,
			poll_id UUID NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
			option_id UUID NOT NULL REFERENCES poll_options(id) ON DELETE CASCADE,
			voter_id VARCHAR(255),
			voter_email VARCHAR(255),
			voter_phone VARCHAR(32),
			single_choice BOOLEAN NOT NULL,
			ip_address VARCHAR(45) NOT NULL DEFAULT '',
			user_agent TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT votes_one_identity CHECK (
				(voter_id IS NOT NULL)::int +
				(voter_email IS NOT NULL)::int +
				(voter_phone IS NOT NULL)::int = 1
			)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_votes_poll_created ON votes (poll_id, created_at)`,

		// One vote per poll per identity, enforced only for single-choice polls
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_single_voter_id
			ON votes (poll_id, voter_id) WHERE single_choice AND voter_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_single_voter_email
			ON votes (poll_id, voter_email) WHERE single_choice AND voter_email IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_single_voter_phone
			ON votes (poll_id, voter_phone) WHERE single_choice AND voter_phone IS NOT NULL`,

		// One vote per option per identity, always
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_option_voter_id
			ON votes (poll_id, option_id, voter_id) WHERE voter_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_option_voter_email
			ON votes (poll_id, option_id, voter_email) WHERE voter_email IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_option_voter_phone
			ON votes (poll_id, option_id, voter_phone) WHERE voter_phone IS NOT NULL`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec failed: %w", err)
		}
	}
	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	pollID := uuid.NewString()
	shareToken := uuid.NewString()

	_, err := conn.Exec(ctx, `
		INSERT INTO polls (id, title, description, created_by, is_active, allow_multiple_votes, require_authentication, share_token)
		VALUES ($1, $2, $3, $4, TRUE, FALSE, FALSE, $5)
		ON CONFLICT (id) DO NOTHING`,
		pollID,
		"Which language should the next workshop cover?",
		"Pick the language you would attend a session for.",
		"seed-user",
		shareToken,
	)
	if err != nil {
		return fmt.Errorf("seed poll: %w", err)
	}

	options := []string{"Go", "Python", "Rust", "TypeScript"}
	for i, text := range options {
		_, err := conn.Exec(ctx, `
			INSERT INTO poll_options (id, poll_id, text, order_index)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (poll_id, order_index) DO NOTHING`,
			uuid.NewString(), pollID, text, i,
		)
		if err != nil {
			return fmt.Errorf("seed option %q: %w", text, err)
		}
	}

	fmt.Printf("Seeded poll %s (share token %s)\n", pollID, shareToken)
	return nil
}
