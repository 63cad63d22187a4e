package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Isaiah-Swank/Boggle-AI/internal/httpserver"
	"github.com/Isaiah-Swank/Boggle-AI/internal/lexicon"
	"github.com/Isaiah-Swank/Boggle-AI/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// An empty lexicon is playable (every submit is invalid), so loading
	// never aborts startup; it just logs.
	lexicon.Init()
	words, prefixes := lexicon.Default().Stats()
	log.Info().Int("words", words).Int("prefixes", prefixes).Msg("lexicon loaded")

	db, err := openDB(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db)
	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Msg("starting boggle server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
