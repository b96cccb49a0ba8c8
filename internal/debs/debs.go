package deps

import (
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/klokal/databuilder/config"
	"github.com/klokal/databuilder/internal/db"
	"github.com/klokal/databuilder/internal/http/gemini"
	"github.com/klokal/databuilder/util/storage"
	"github.com/klokal/databuilder/util/websockets"
)

type Dependencies struct {
	DB         *db.DB
	Cloudinary *storage.Cloudinary
	WebSocket  *websockets.WebSocketManager
	Gemini     *gemini.GeminiClient
	Redis      *redis.Client
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	cloudinary := storage.NewCloudinary(cfg)
	websocket := websockets.NewWebSocketManager()
	geminiClient := gemini.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	deps := Dependencies{
		DB:         database,
		Cloudinary: cloudinary,
		WebSocket:  websocket,
		Gemini:     geminiClient,
		Redis:      redisClient,
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}
