package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Gateway   GatewayConfig
	Ai        AIConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	HubLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type GatewayConfig struct {
	// SharedKey is the single secret devices and viewers present as ?key=
	SharedKey string
	// PeerSendBuffer is the outbound queue length of every socket
	PeerSendBuffer int
}

type AIConfig struct {
	LLMProvider    string // "ollama"
	OllamaBaseURL  string
	LLMModel       string
	VisionBaseURL  string
	VisionModel    string
	RequestTimeout time.Duration
}

// TelemetryConfig holds the device-specific thermistor calibration.
// temperatureC = round(raw*TemperatureScale + TemperatureOffset)
type TelemetryConfig struct {
	TemperatureScale  float64
	TemperatureOffset float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/gateway.log"),
			HubLogFilePath:     getEnv("HUB_LOG_FILE_PATH", "logs/websocket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Gateway: GatewayConfig{
			SharedKey:      getEnv("GATEWAY_KEY", "RANDOM_STUFF"),
			PeerSendBuffer: getEnvAsInt("PEER_SEND_BUFFER", 64),
		},
		Ai: AIConfig{
			LLMProvider:    getEnv("LLM_PROVIDER", "ollama"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:       getEnv("LLM_MODEL", "llama3:8b-instruct-q8_0"),
			VisionBaseURL:  getEnv("VISION_BASE_URL", "http://localhost:11434"),
			VisionModel:    getEnv("VISION_MODEL", "llava:7b-v1.6-vicuna-q8_0"),
			RequestTimeout: getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Telemetry: TelemetryConfig{
			TemperatureScale:  getEnvAsFloat("TEMPERATURE_SCALE", 0.03),
			TemperatureOffset: getEnvAsFloat("TEMPERATURE_OFFSET", -31.94),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
