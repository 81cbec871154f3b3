// Package main implements the entry point for the ordertask API
// server: an asynchronous task engine that turns free-text order
// descriptions into structured product lists via an LLM and reports
// results to a callback endpoint.
package main

import (
	"context"
	"log"
)

func main() {
	ctx := context.Background()

	app, err := initializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
