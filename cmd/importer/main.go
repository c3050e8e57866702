package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"miniapp-shop/internal/config"
	"miniapp-shop/internal/db"
	"miniapp-shop/internal/importer"
	"miniapp-shop/internal/repository/catalog"
)

func main() {
	var (
		dir     string
		csvPath string
	)
	flag.StringVar(&dir, "dir", "", "Catalog directory with info.json, categories.json and menu/*.json")
	flag.StringVar(&csvPath, "csv", "", "Flat menu CSV export (categories must already exist)")
	flag.Parse()

	if (dir == "") == (csvPath == "") {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	dst := catalog.NewPostgres(pool, logger)
	start := time.Now()

	if dir != "" {
		stats, err := importer.Copy(ctx, catalog.NewFile(dir, logger), dst)
		if err != nil {
			logger.Fatalf("import failed: %v", err)
		}
		fmt.Printf("Imported %d categories and %d items from %s in %s\n", stats.Categories, stats.Items, dir, time.Since(start).Truncate(time.Millisecond))
		return
	}

	f, err := os.Open(csvPath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	count, err := importer.NewCSVImporter(f, dst).Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}
	fmt.Printf("Imported %d items from %s in %s\n", count, csvPath, time.Since(start).Truncate(time.Millisecond))
}
