package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "mongodb://127.0.0.1:27017", c.MongoURI)
	assert.Equal(t, "memberhub", c.MongoDatabase)
	assert.Equal(t, "127.0.0.1:6379", c.RedisAddr)
	assert.Equal(t, 7*24*time.Hour, c.SessionTokenValidity)
	assert.Equal(t, 2*time.Hour, c.OTPTokenValidity)
	assert.Equal(t, 2*time.Minute, c.OTPCodeTTL)
	assert.Equal(t, "admin@example.com", c.AdminEmail)
	assert.Equal(t, 5*time.Second, c.RequestTimeout)
	assert.Empty(t, c.SecretKey, "secret must have no default")
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("SESSION_TOKEN_VALIDITY", "48h")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, "mongodb://db.internal:27017", c.MongoURI)
	assert.Equal(t, 48*time.Hour, c.SessionTokenValidity)
	// untouched fields keep their defaults
	assert.Equal(t, ":8080", c.Addr)
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()

	require.Error(t, c.Validate(), "missing secret must be fatal")

	c.SecretKey = "k"
	require.NoError(t, c.Validate())

	c.MongoURI = ""
	require.Error(t, c.Validate(), "missing mongo URI must be fatal")
}
