package logger

import (
	"path/filepath"
	"testing"

	"zamar-backend/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestNew_Console(t *testing.T) {
	log := New(config.LogConfig{Level: "debug", Format: "text"})

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestNew_FileRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zamar.log")
	log := New(config.LogConfig{Level: "warn", Format: "json", File: path, MaxSizeMB: 1})

	out, ok := log.Out.(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, path, out.Filename)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
}

func TestParseLevel_FallsBackToInfo(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, logrus.ErrorLevel, parseLevel("ERROR"))
}
