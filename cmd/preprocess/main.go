package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"cchrouter/pkg/provider"
	"cchrouter/pkg/service"
)

// preprocess runs the full build pipeline (graph build, connectivity
// enhancement, rank assignment, preprocessing, customization) against a
// fixture file and reports timing and shortcut counts, without starting an
// HTTP server. Useful for sizing a dataset before wiring it into cmd/server.
func main() {
	input := flag.String("input", "", "Path to a JSON array of raw segment records (strtpntLat/strtpntLot/endpntLat/endpntLot)")
	numRoutes := flag.Int("num-routes", 100000, "Number of segment records to request from the provider")
	numStorage := flag.Int("num-storage", 0, "Number of storage records to request from the provider")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <records.json> [--num-routes 100000] [--num-storage 0]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	fixture, err := provider.LoadFixtureJSON(data)
	if err != nil {
		log.Fatalf("Failed to parse input: %v", err)
	}

	svc := service.New(fixture)

	start := time.Now()
	log.Println("Running build pipeline...")
	if !svc.Initialize(context.Background(), *numRoutes, *numStorage) {
		log.Fatal("Initialize failed — no usable segment records")
	}
	elapsed := time.Since(start)

	numVertices, numArcs, numShortcuts, _ := svc.Stats()
	log.Printf("Done in %s. %d vertices, %d arcs (%d shortcuts, %d original)",
		elapsed.Round(time.Millisecond), numVertices, numArcs, numShortcuts, numArcs-numShortcuts)
}
