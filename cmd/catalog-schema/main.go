package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"deadwave/core/internal/agent/catalog"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "output path for the JSON schema")
	flag.Parse()

	if outPath == "" {
		log.Fatal("catalog-schema: missing -out path")
	}

	schema := catalog.BuildSchema()
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("catalog-schema: marshal schema: %v", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatalf("catalog-schema: create output dir: %v", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("catalog-schema: write schema: %v", err)
	}
}
