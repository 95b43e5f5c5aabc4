package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port         int
	Env          string
	SecretKey    string
	JWTAlgorithm string
	Pepper       string
	Database     PostgresConfig
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

// LoadConfig reads configuration from the process environment, loading a
// .env file first if one is present. In production the signing secret must
// be supplied explicitly, the app refuses to start on the dev default.
func LoadConfig(prod bool) Config {
	if err := godotenv.Load(); err == nil {
		logrus.Info("loaded .env file")
	}

	env := getEnv("ENV", "dev")
	if prod {
		env = "prod"
	}

	c := Config{
		Port:         getEnvInt("PORT", 1111),
		Env:          env,
		SecretKey:    getEnv("SECRET_KEY", "secret-random-string"),
		JWTAlgorithm: getEnv("JWT_ALGORITHM", "HS256"),
		Pepper:       getEnv("PEPPER", "secret-random-pepper"),
		Database: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "go_twitter"),
		},
	}

	if c.IsProd() {
		if _, set := os.LookupEnv("SECRET_KEY"); !set {
			panic("SECRET_KEY must be set in production")
		}
	}
	return c
}

func getEnv(key, fallback string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		logrus.WithField("key", key).Warn("invalid numeric env value, using fallback")
		return fallback
	}
	return n
}
