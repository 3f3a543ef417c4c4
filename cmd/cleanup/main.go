// Command cleanup deletes member documents that lack the team, unit and
// sub-program fields required for reporting. One-shot maintenance script.
package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		log.Fatal("cleanup: DB_CONNECTION_STRING environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("cleanup: failed to open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := db.ExecContext(ctx, `
		DELETE FROM members
		WHERE COALESCE(team, '') = ''
		   OR COALESCE(unit, '') = ''
		   OR COALESCE(sub_program, '') = ''`)
	if err != nil {
		log.Fatalf("cleanup: delete failed: %v", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		log.Fatalf("cleanup: failed to read affected rows: %v", err)
	}
	log.Printf("cleanup: deleted %d member records missing team/unit/sub-program", n)
}
