// One-off: go run scripts/gensig.go <payload-file>
// Prints svix-style headers for posting a test event to /webhooks/clerk
// with curl. Reads the endpoint secret from CLERK_WEBHOOK_SECRET.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Adarsh-yadav-ui/Sangeet/internal/auth"

	"github.com/google/uuid"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gensig <payload-file>")
		os.Exit(1)
	}
	body, err := os.ReadFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	secret := os.Getenv("CLERK_WEBHOOK_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "CLERK_WEBHOOK_SECRET is not set")
		os.Exit(1)
	}
	verifier, err := auth.NewWebhookVerifier(secret)
	if err != nil {
		panic(err)
	}

	id := "msg_" + uuid.NewString()
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	fmt.Printf("svix-id: %s\n", id)
	fmt.Printf("svix-timestamp: %s\n", ts)
	fmt.Printf("svix-signature: %s\n", verifier.Sign(id, ts, body))
}
