// Command tokengen prints a bearer token accepted by the API, signed with the
// configured APP_JWT_SECRET and carrying APP_ACCESS_API_KEY.
package main

import (
	"flag"
	"fmt"
	"log"

	"fx-transactions/internal/config"
	"fx-transactions/internal/service"
)

func main() {
	subject := flag.String("subject", "fx-transactions-client", "token subject")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to APP_TOKEN_TTL")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	access := service.NewAccessService(cfg.Auth.APIKey, cfg.Auth.JWTSecret, cfg.Auth.Issuer, lifetime)
	token, err := access.IssueToken(*subject)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	fmt.Println(token)
}
