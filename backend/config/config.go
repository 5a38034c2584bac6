package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	// Registration codes required to sign up as instructor or administrator.
	InstructorCode string
	AdminCode      string

	// Whether reactivating a cancelled enrollment notifies the course owner
	// again. First enrollment always notifies.
	NotifyOnReenroll bool
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "routinet"),
		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		InstructorCode:   getEnv("INSTRUCTOR_CODE", "ENSEIGNANT2024"),
		AdminCode:        getEnv("ADMIN_CODE", "ADMIN2024"),
		NotifyOnReenroll: getEnv("NOTIFY_ON_REENROLL", "false") == "true",
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
