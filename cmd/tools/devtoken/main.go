// cmd/tools/devtoken/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtbook/internal/api/auth"
	"github.com/codr1/Courtbook/internal/api/authz"
)

func main() {
	var (
		envPath = flag.String("env", "config/.env", "Path to the .env file holding AUTH_JWT_SECRET")
		secret  = flag.String("secret", "", "Signing secret (overrides AUTH_JWT_SECRET)")
		id      = flag.Int64("id", 1, "User id (token subject)")
		name    = flag.String("name", "Dev User", "Display name")
		email   = flag.String("email", "", "Email address for notifications")
		admin   = flag.Bool("admin", false, "Issue an administrator token")
		ttl     = flag.Duration("ttl", 12*time.Hour, "Token lifetime")
	)
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(*envPath); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", *envPath).Msg("Failed to read .env")
	}
	key := *secret
	if key == "" {
		key = os.Getenv("AUTH_JWT_SECRET")
	}
	if key == "" {
		log.Fatal().Msg("AUTH_JWT_SECRET or -secret is required")
	}
	if *id <= 0 {
		log.Fatal().Int64("id", *id).Msg("User id must be positive")
	}

	token, err := auth.NewVerifier(key).IssueToken(authz.AuthUser{
		ID:      *id,
		Name:    *name,
		Email:   *email,
		IsAdmin: *admin,
	}, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to sign token")
	}
	fmt.Println(token)
}
