package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/petersg83/trackdechets/internal/bsda"
	"github.com/petersg83/trackdechets/internal/bsda/store"
	"github.com/petersg83/trackdechets/internal/bsda/validation"
	"github.com/petersg83/trackdechets/internal/bsda/validation/ports"
	"github.com/petersg83/trackdechets/internal/platform/config"
	"github.com/petersg83/trackdechets/internal/platform/logger"
	"github.com/petersg83/trackdechets/internal/platform/metrics"
	redisclient "github.com/petersg83/trackdechets/internal/platform/redis"
	registryclient "github.com/petersg83/trackdechets/internal/registry"
)

// main wires the validation engine against real collaborators and runs the
// async parse over a BSDA document read from a JSON file. Exit code 1 means
// the document is invalid, 2 means the parse itself failed.
func main() {
	_ = godotenv.Load()

	file := flag.String("file", "", "path to a BSDA document in JSON")
	signature := flag.String("signature", "", "signature being applied (EMISSION, WORK, TRANSPORT, OPERATION)")
	transformers := flag.Bool("transformers", false, "run completion transformers")
	previousChecks := flag.Bool("previous-checks", false, "run grouped-bordereaux consistency checks")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: validator -file bsda.json [-signature TRANSPORT] [-transformers] [-previous-checks]")
		os.Exit(2)
	}

	log := logger.New()
	cfg := config.FromEnv()
	ctx := context.Background()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Error("read input", "error", err)
		os.Exit(2)
	}
	var doc bsda.Bsda
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Error("decode input", "error", err)
		os.Exit(2)
	}

	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		log.Error("build registry client", "error", err)
		os.Exit(2)
	}

	finder, cleanup, err := buildFinder(ctx, cfg)
	if err != nil {
		log.Error("build previous-bsdas finder", "error", err)
		os.Exit(2)
	}
	defer cleanup()

	validator, err := validation.New(registry, finder, log, metrics.New())
	if err != nil {
		log.Error("build validator", "error", err)
		os.Exit(2)
	}

	vctx := validation.Context{
		EnableCompletionTransformers: *transformers,
		EnablePreviousBsdasChecks:    *previousChecks,
		CurrentSignatureType:         bsda.SignatureType(*signature),
	}

	if _, err := validator.ParseAsync(ctx, doc, vctx); err != nil {
		var shapeErr *validation.ShapeError
		var ruleErr *validation.ValidationError
		switch {
		case errors.As(err, &shapeErr):
			printIssues(shapeErr.Issues)
		case errors.As(err, &ruleErr):
			printIssues(ruleErr.Issues)
		default:
			log.Error("parse failed", "error", err)
			os.Exit(2)
		}
		os.Exit(1)
	}
	fmt.Println("OK")
}

func printIssues(issues []validation.Issue) {
	for _, issue := range issues {
		if issue.Path != "" {
			fmt.Printf("%s: %s\n", issue.Path, issue.Message)
			continue
		}
		fmt.Println(issue.Message)
	}
}

func buildRegistry(ctx context.Context, cfg config.Engine) (ports.CompanyRegistry, error) {
	if cfg.RegistryBaseURL == "" {
		return registryclient.NewMockClient(), nil
	}
	var client ports.CompanyRegistry = registryclient.NewHTTPClient(cfg.RegistryBaseURL, cfg.RegistryTimeout)

	rdb, err := redisclient.New(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		client = registryclient.NewCachedClient(client, rdb, cfg.RegistryCacheTTL)
	}
	return client, nil
}

func buildFinder(ctx context.Context, cfg config.Engine) (ports.PreviousBsdaFinder, func(), error) {
	if cfg.DatabaseURL == "" {
		return store.NewMemoryFinder(), func() {}, nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	return store.NewPostgres(pool), pool.Close, nil
}
