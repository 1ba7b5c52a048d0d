// Command cacheinspect prints the title searches held in a wikirec search cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kz4killua/wikirec/internal/logger"
	"github.com/kz4killua/wikirec/internal/store"
)

func main() {
	var (
		path  = flag.String("path", defaultCachePath(), "search cache directory")
		lang  = flag.String("lang", "", "only show searches for this language")
		ttl   = flag.Duration("ttl", 24*time.Hour, "ignore entries older than this")
		limit = flag.Int("n", 20, "number of searches to print (0 for all)")
		purge = flag.Bool("purge", false, "drop every cached search instead of listing")
	)
	flag.Parse()

	db, err := store.New(*path, logger.Discard().Logger, store.Options{
		SearchTTL: *ttl,
		ReadOnly:  !*purge,
	})
	if err != nil {
		log.Fatalf("Failed to open search cache: %v", err)
	}
	defer db.Close()

	if *purge {
		if err := db.PurgeSearchCache(); err != nil {
			log.Fatalf("Failed to purge search cache: %v", err)
		}
		fmt.Println("Search cache purged")
		return
	}

	fmt.Println("=== Search Cache Inspection ===")
	fmt.Printf("Path: %s\n\n", *path)

	total := 0
	candidates := 0
	languages := map[string]int{}

	err = db.ListCachedSearches(context.Background(), *lang, func(c *store.CachedSearch) bool {
		total++
		candidates += len(c.Candidates)
		languages[c.Language]++

		if *limit == 0 || total <= *limit {
			fmt.Printf("[%s] %q (limit %d, %s ago)\n", c.Language, c.Query, c.Limit, time.Since(c.FetchedAt).Round(time.Second))
			for _, cand := range c.Candidates {
				fmt.Printf("    %s", cand.Title)
				if cand.Description != "" {
					fmt.Printf(" - %s", cand.Description)
				}
				fmt.Println()
			}
		}
		return true
	})
	if err != nil {
		log.Fatalf("Error iterating search cache: %v", err)
	}

	if *limit > 0 && total > *limit {
		fmt.Printf("... and %d more searches\n", total-*limit)
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Cached searches: %d\n", total)
	fmt.Printf("Cached candidates: %d\n", candidates)
	for l, n := range languages {
		fmt.Printf("  %s: %d\n", l, n)
	}
	if total > 0 {
		fmt.Printf("Average candidates per search: %.1f\n", float64(candidates)/float64(total))
	}
}

func defaultCachePath() string {
	if p := os.Getenv("DATA_PATH"); p != "" {
		return filepath.Join(p, "cache")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".wikirec", "cache")
	}
	return filepath.Join(home, ".wikirec", "cache")
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintln(os.Stderr, strings.TrimSpace(`
Lists cached Wikimedia title searches. Stop the server first: the cache
directory can only be opened by one process at a time.`))
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
}
