package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearPresenceEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PRESENCE_CONFIG", "PRESENCE_DB", "PRESENCE_MQTT_BROKER", "PRESENCE_MQTT_TOPIC",
		"PRESENCE_MQTT_CLIENT_ID", "PRESENCE_SERIAL_PORT", "PRESENCE_SERIAL_BAUD",
	} {
		t.Setenv(key, "")
		// godotenv never overrides a variable that is set, even to "".
		os.Unsetenv(key)
	}
}

func TestLoadEnvironment_Defaults(t *testing.T) {
	clearPresenceEnv(t)

	env := LoadEnvironment(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, Environment{
		MQTTTopic:    DefaultMQTTTopic,
		MQTTClientID: DefaultMQTTClientID,
		SerialBaud:   DefaultSerialBaud,
	}, env)
}

func TestLoadEnvironment_FromFileAndProcess(t *testing.T) {
	clearPresenceEnv(t)
	t.Setenv("PRESENCE_DB", "/var/lib/presence/runs.db")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"PRESENCE_MQTT_BROKER=tcp://broker.local:1883\n"+
			"PRESENCE_SERIAL_PORT=/dev/ttyUSB0\n"+
			"PRESENCE_SERIAL_BAUD=921600\n"), 0o644))

	env := LoadEnvironment(path)

	assert.Equal(t, "/var/lib/presence/runs.db", env.DBPath)
	assert.Equal(t, "tcp://broker.local:1883", env.MQTTBroker)
	assert.Equal(t, "/dev/ttyUSB0", env.SerialPort)
	assert.Equal(t, 921600, env.SerialBaud)
}

func TestLoadEnvironment_BadBaud(t *testing.T) {
	clearPresenceEnv(t)
	t.Setenv("PRESENCE_SERIAL_BAUD", "fast")

	env := LoadEnvironment(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, DefaultSerialBaud, env.SerialBaud)
}
