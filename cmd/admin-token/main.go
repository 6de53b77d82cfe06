// Command admin-token prints a bearer token for the admin routes, signed
// with ADMIN_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/poetbyte/poetbyte/backend/go-services/internal/tokens"
)

func main() {
	sub := flag.String("sub", "admin", "token subject")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load(".env")
	tok, err := tokens.Issue(os.Getenv("ADMIN_JWT_SECRET"), *sub, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "admin-token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
