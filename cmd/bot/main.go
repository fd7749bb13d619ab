package main

import (
	"context"
	"expvar"
	"log"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"reviewbot/internal/db"
	"reviewbot/internal/enrich"
	"reviewbot/internal/ratelimiter"
	"reviewbot/internal/review"
	"reviewbot/internal/store"
)

var version = "1.0.0"

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 20
	defaultEnabled := true

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			log.Println("invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			log.Println("invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            time.Minute,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel

	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	return zap.New(core).Sugar(), nil
}

func mustEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("%s is required", key)
	}
	return val
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	cfg := config{
		addr: addr,
		env:  os.Getenv("ENV"),
		discord: discordConfig{
			token:   mustEnv("DISCORD_TOKEN"),
			appID:   mustEnv("DISCORD_APP_ID"),
			guildID: mustEnv("DISCORD_GUILD_ID"),
		},
		db: dbConfig{
			uri:      mustEnv("MONGODB_URI"),
			database: mustEnv("MONGODB_DATABASE"),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}

	logger, err := NewLogger()
	if err != nil {
		log.Fatalf("error creating logger: %v", err)
	}
	defer logger.Sync()

	client, err := db.New(cfg.db.uri)
	if err != nil {
		logger.Fatal(err)
	}
	defer client.Disconnect(context.Background())
	logger.Info("database connection established")

	storage := store.NewStorage(client.Database(cfg.db.database))

	resolver := enrich.NewResolver(&http.Client{Timeout: 5 * time.Second})

	session, err := discordgo.New("Bot " + cfg.discord.token)
	if err != nil {
		logger.Fatal(err)
	}

	service := review.NewService(
		storage,
		resolver,
		&userDirectory{session: session},
		&channelPublisher{session: session},
		&roleSyncer{session: session},
		logger,
	)

	app := &application{
		config:  cfg,
		logger:  logger,
		service: service,
		session: session,
		rateLimiter: ratelimiter.NewFixedWindowLimiter(
			cfg.rateLimiter.RequestsPerTimeFrame,
			cfg.rateLimiter.TimeFrame,
		),
	}

	// Metrics served on /v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	logger.Fatal(app.run())
}
