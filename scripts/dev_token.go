package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/khoahotran/vidshelf/internal/config"
	"github.com/khoahotran/vidshelf/pkg/auth"
)

// Mints a bearer token for local development, standing in for the identity
// provider. Usage: go run ./scripts -principal <uuid>
func main() {
	principal := flag.String("principal", "", "principal id; a random one is generated when empty")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	id := uuid.New()
	if *principal != "" {
		id, err = uuid.Parse(*principal)
		if err != nil {
			log.Fatalf("invalid principal id: %v", err)
		}
	}

	token, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan).GenerateToken(id)
	if err != nil {
		log.Fatalf("cannot sign token: %v", err)
	}

	fmt.Printf("principal: %s\ntoken: %s\n", id, token)
}
