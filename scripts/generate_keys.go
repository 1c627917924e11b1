//go:build ignore

// Generates secrets for portal session tokens and the swagger UI.
// Run with: go run scripts/generate_keys.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func main() {
	// 32 bytes for HS256.
	jwtSecret, err := generateSecureKey(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT secret: %v\n", err)
		os.Exit(1)
	}

	swaggerPass, err := generateSecureKey(18)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating swagger password: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("# Portal session tokens")
	fmt.Printf("JWT_SECRET_KEY=%s\n", jwtSecret)
	fmt.Println()
	fmt.Println("# Swagger UI basic auth (optional)")
	fmt.Println("SWAGGER_USER=docs")
	fmt.Printf("SWAGGER_PASS=%s\n", swaggerPass)
	fmt.Println()
	fmt.Println("Keep these out of version control and use different values per environment.")
}
