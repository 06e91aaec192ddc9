package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/middleware"
)

// Generates a test JWT for local API calls against a dev server.
func main() {
	address := flag.String("address", "0x742d35Cc6634C0532925a3b0F26750C66d78EB66", "wallet address")
	chainID := flag.Uint64("chain", 7001, "chain id")
	expiry := flag.Duration("expiry", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	now := time.Now()
	claims := middleware.Claims{
		UserAddress: *address,
		ChainID:     *chainID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(*expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   *address,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
}
