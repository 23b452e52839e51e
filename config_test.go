package mqtt311

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server: broker.example.net
port: 1884
client_id: meter-7
user: alice
password: s3cret
keepalive: 30
ping_interval: 5
response_time: 4
clean_init: false
clean: false
max_repubs: 2
will:
  topic: t/dead
  message: bye
  retain: true
  qos: 1
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	o := applyOptions(cfg.Options()...)
	require.NoError(t, o.validate())

	assert.Equal(t, "broker.example.net", o.server)
	assert.Equal(t, "broker.example.net:1884", o.address())
	assert.Equal(t, "meter-7", o.clientID)
	assert.Equal(t, "alice", o.username)
	assert.Equal(t, []byte("s3cret"), o.password)
	assert.Equal(t, uint16(30), o.keepAlive)
	assert.Equal(t, 5*time.Second, o.pingInterval)
	assert.Equal(t, 4*time.Second, o.responseTime)
	assert.False(t, o.cleanInit)
	assert.False(t, o.clean)
	assert.Equal(t, 2, o.maxRepubs)
	assert.Equal(t, "t/dead", o.willTopic)
	assert.Equal(t, []byte("bye"), o.willPayload)
	assert.True(t, o.willRetain)
	assert.Equal(t, byte(1), o.willQoS)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "server: broker.local\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	o := applyOptions(cfg.Options()...)
	require.NoError(t, o.validate())
	assert.Equal(t, DefaultKeepAlive, o.keepAlive)
	assert.True(t, o.cleanInit)
	assert.Equal(t, DefaultMaxRepubs, o.maxRepubs)
}

func TestLoadConfigTLSPort(t *testing.T) {
	path := writeConfig(t, "server: broker.local\nssl: true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	o := applyOptions(cfg.Options()...)
	assert.Equal(t, "broker.local:8883", o.address())
	assert.NotNil(t, o.tlsConfig)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, "server: [broken\n")
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
