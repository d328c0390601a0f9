package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/juppuo/tottembo-shop.store/config"
	"github.com/juppuo/tottembo-shop.store/controllers"
	"github.com/juppuo/tottembo-shop.store/database"
	"github.com/juppuo/tottembo-shop.store/routes"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(os.Stdout)

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file, using environment")
	}
	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.GoogleClientID != "" {
		if err := controllers.InitOIDC(cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Google sign-in")
		}
	}

	r := routes.SetupRouter(db, cfg)
	log.Info().Str("port", cfg.Port).Msg("storefront listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
