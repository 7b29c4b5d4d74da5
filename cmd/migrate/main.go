package main

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/agyouthrise/rise-backend/internal/config"
	"github.com/agyouthrise/rise-backend/internal/database"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/repository"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "config file path (default configs/config.{APP_ENV}.yaml)")
	target := flag.String("target", "all", "migration target: all, blogs, podcasts, gallery (comma separated)")
	dryRun := flag.Bool("dry-run", false, "show which tables would be created without executing")
	verify := flag.Bool("verify", false, "verify collection integrity (ids present and unique)")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	loaded := config.LoadDotEnv()
	if len(loaded) == 0 {
		log.Println("No .env file found, using environment variables")
	}

	path := *configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := gormlogger.Warn
	if *verbose {
		logLevel = gormlogger.Info
	}

	db, err := database.Open(cfg.Database, logLevel)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db) //nolint:errcheck

	kinds, err := parseTargets(*target)
	if err != nil {
		log.Fatalf("%v", err)
	}

	switch {
	case *dryRun:
		runDryRun(db, kinds)
	case *verify:
		if !runVerify(db, kinds) {
			os.Exit(1)
		}
	default:
		runMigration(db, kinds)
	}
}

func parseTargets(target string) ([]domain.Kind, error) {
	if target == "" || target == "all" {
		return domain.Kinds, nil
	}
	var kinds []domain.Kind
	for _, t := range strings.Split(target, ",") {
		kind, ok := domain.ParseKind(t)
		if !ok {
			return nil, &unknownTargetError{name: strings.TrimSpace(t)}
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

type unknownTargetError struct{ name string }

func (e *unknownTargetError) Error() string {
	return "unknown migration target: " + e.name
}

// model returns the gorm model backing a collection
func model(kind domain.Kind) interface{} {
	switch kind {
	case domain.KindPosts:
		return &domain.Post{}
	case domain.KindEpisodes:
		return &domain.Episode{}
	default:
		return &domain.GalleryItem{}
	}
}

func migrator(cols *repository.Collections, kind domain.Kind) func() error {
	switch kind {
	case domain.KindPosts:
		return cols.Posts.Migrate
	case domain.KindEpisodes:
		return cols.Episodes.Migrate
	default:
		return cols.Gallery.Migrate
	}
}

func runMigration(db *gorm.DB, kinds []domain.Kind) {
	start := time.Now()
	cols := repository.NewCollections(db)

	for _, kind := range kinds {
		log.Printf("[migrate] Starting: %s", kind)
		if err := migrator(cols, kind)(); err != nil {
			log.Printf("[migrate] FAILED %s: %v", kind, err)
			os.Exit(1)
		}
		log.Printf("[migrate] Completed %s", kind)
	}

	log.Printf("[migrate] All migrations completed in %v", time.Since(start))
}

func runDryRun(db *gorm.DB, kinds []domain.Kind) {
	m := db.Migrator()
	for _, kind := range kinds {
		if m.HasTable(model(kind)) {
			log.Printf("[dry-run] %s: table exists, columns would be reconciled", kind)
		} else {
			log.Printf("[dry-run] %s: table would be created", kind)
		}
	}
}

// runVerify reports row counts and id problems; false when any check fails
func runVerify(db *gorm.DB, kinds []domain.Kind) bool {
	ok := true
	for _, kind := range kinds {
		if !db.Migrator().HasTable(model(kind)) {
			log.Printf("[verify] %s: MISSING table", kind)
			ok = false
			continue
		}

		var total, blank, duplicated int64
		db.Model(model(kind)).Count(&total)
		db.Model(model(kind)).Where("doc_id = '' OR doc_id IS NULL").Count(&blank)
		db.Raw("SELECT COUNT(*) FROM (SELECT doc_id FROM " + kind.String() + " GROUP BY doc_id HAVING COUNT(*) > 1) d").Scan(&duplicated)

		status := "OK"
		if blank > 0 || duplicated > 0 {
			status = "FAIL"
			ok = false
		}
		log.Printf("[verify] %s: %s rows=%d blank_ids=%d duplicate_ids=%d", kind, status, total, blank, duplicated)
	}
	return ok
}
