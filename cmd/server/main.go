package main

import (
	"log"

	"warbler/internal/transport/http"
)

func main() {
	if err := http.Run(); err != nil {
		log.Fatalf("[Server] Fatal: %v", err)
	}
}
