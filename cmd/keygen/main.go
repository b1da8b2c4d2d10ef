package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fortunecookie-ai/fortune-api/internal/auth"
	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

func main() {
	name := flag.String("name", "", "human-friendly key name (required)")
	tier := flag.String("tier", "authenticated", "quota tier: authenticated or elevated")
	env := flag.String("env", "prod", "environment prefix")
	expires := flag.String("expires", "365d", "expiry duration (e.g., 365d, 720h)")
	dbURL := flag.String("db-url", "", "database URL (overrides env)")
	flag.Parse()

	if *name == "" {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "\nerror: -name is required")
		os.Exit(1)
	}

	parsedTier, ok := types.ParseTier(*tier)
	if !ok || parsedTier == types.TierPublic {
		log.Fatalf("invalid tier %q (use authenticated or elevated)", *tier)
	}

	// Generate key
	rawKey, err := auth.GenerateKey(*env)
	if err != nil {
		log.Fatalf("failed to generate key: %v", err)
	}

	keyHash := auth.HashKey(rawKey)
	keyPrefix := auth.KeyPrefix(rawKey)

	// Parse expiry
	dur, err := auth.ParseDuration(*expires)
	if err != nil {
		log.Fatalf("invalid expires: %v", err)
	}
	expiresAt := time.Now().Add(dur)

	// Connect to database
	dsn := *dbURL
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		host := envOrDefault("DB_HOST", "localhost")
		port := envOrDefault("DB_PORT", "5432")
		u := envOrDefault("DB_USER", "fortune")
		pass := envOrDefault("DB_PASSWORD", "fortune-dev")
		dbname := envOrDefault("DB_NAME", "fortune")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", u, pass, host, port, dbname)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	// Insert key
	var keyID string
	err = conn.QueryRow(ctx, `
		INSERT INTO api_keys (key_hash, key_prefix, name, tier, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, keyHash, keyPrefix, *name, string(parsedTier), expiresAt).Scan(&keyID)
	if err != nil {
		log.Fatalf("failed to insert key: %v", err)
	}

	fmt.Println("=== Fortune API Key Generated ===")
	fmt.Println()
	fmt.Printf("  Key ID:     %s\n", keyID)
	fmt.Printf("  Key Prefix: %s\n", keyPrefix)
	fmt.Printf("  Name:       %s\n", *name)
	fmt.Printf("  Tier:       %s\n", parsedTier)
	fmt.Printf("  Expires:    %s\n", expiresAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("  API Key (save this, it will NOT be shown again):")
	fmt.Printf("  %s\n", rawKey)
	fmt.Println()
	fmt.Println("=================================")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
