package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/banshee-data/presence.report/internal/monitoring"
)

// Environment holds CLI defaults read from the process environment and an
// optional .env file.
type Environment struct {
	ConfigPath   string
	DBPath       string
	MQTTBroker   string
	MQTTTopic    string
	MQTTClientID string
	SerialPort   string
	SerialBaud   int
}

// Default values used when the environment leaves a setting unset.
const (
	DefaultMQTTTopic    = "presence/{dataset}/state"
	DefaultMQTTClientID = "presence-report"
	DefaultSerialBaud   = 115200
)

// LoadEnvironment loads files (default ".env") if present, then reads the
// PRESENCE_* variables. Variables already set in the process win.
func LoadEnvironment(files ...string) Environment {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		monitoring.Logf("warning: failed to load env file: %v", err)
	}
	return Environment{
		ConfigPath:   getEnv("PRESENCE_CONFIG", ""),
		DBPath:       getEnv("PRESENCE_DB", ""),
		MQTTBroker:   getEnv("PRESENCE_MQTT_BROKER", ""),
		MQTTTopic:    getEnv("PRESENCE_MQTT_TOPIC", DefaultMQTTTopic),
		MQTTClientID: getEnv("PRESENCE_MQTT_CLIENT_ID", DefaultMQTTClientID),
		SerialPort:   getEnv("PRESENCE_SERIAL_PORT", ""),
		SerialBaud:   getEnvInt("PRESENCE_SERIAL_BAUD", DefaultSerialBaud),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		monitoring.Logf("warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return n
}
