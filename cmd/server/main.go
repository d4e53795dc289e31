package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cchrouter/pkg/api"
	"cchrouter/pkg/provider"
	"cchrouter/pkg/service"
)

func main() {
	fixturePath := flag.String("fixture", "", "Path to a JSON array of raw segment records (strtpntLat/strtpntLot/endpntLat/endpntLot)")
	numRoutes := flag.Int("num-routes", 100000, "Number of segment records to request from the provider")
	numStorage := flag.Int("num-storage", 0, "Number of storage records to request from the provider")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: server --fixture <records.json> [--port 8080]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to read fixture: %v", err)
	}
	fixture, err := provider.LoadFixtureJSON(data)
	if err != nil {
		log.Fatalf("Failed to parse fixture: %v", err)
	}

	svc := service.New(fixture)

	start := time.Now()
	log.Println("Initializing routing graph...")
	if !svc.Initialize(context.Background(), *numRoutes, *numStorage) {
		log.Fatal("Initialize failed — no usable segment records")
	}
	log.Printf("Ready in %s", time.Since(start).Round(time.Millisecond))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(svc)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}
