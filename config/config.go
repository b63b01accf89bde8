package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port           string
	Timezone       string
	DBPath         string
	SweepInterval  time.Duration
	KnowledgeCSV   string
	KnowledgeXLSX  string
	IngestDomains  string
	IngestMaxBytes int
	DevMode        bool
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	sweep, err := time.ParseDuration(get("SWEEP_INTERVAL", "60s"))
	if err != nil || sweep <= 0 {
		sweep = 60 * time.Second
	}
	cfg := AppConfig{
		Port:           get("PORT", "8080"),
		Timezone:       get("TZ", "Asia/Kolkata"),
		DBPath:         get("DB_PATH", "farmadvisor.db"),
		SweepInterval:  sweep,
		KnowledgeCSV:   get("KNOWLEDGE_CSV", ""),
		KnowledgeXLSX:  get("KNOWLEDGE_XLSX", ""),
		IngestDomains:  get("KB_ALLOWED_DOMAINS", ""),
		IngestMaxBytes: 1500000,
		DevMode:        get("DEV_MODE", "false") == "true",
	}
	log.Printf("[cfg] port=%s db=%s sweep=%s", cfg.Port, cfg.DBPath, cfg.SweepInterval)
	return cfg
}
