package main

import (
	"flag"
	"log"
	"portal/internal/di"
	"portal/internal/structures"

	"github.com/joho/godotenv"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "./config/config.yaml", "path to the yaml config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "mirror logs to the console")
	flag.Parse()

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	_, cleanup, err := di.InitApp(flags)
	if cleanup != nil {
		cleanup()
	}
	if err != nil {
		log.Fatalf("portald: %s", err)
	}
}
