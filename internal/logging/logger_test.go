package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLoggingState() {
	loggersMu.Lock()
	loggers = make(map[Category]*Logger)
	loggersMu.Unlock()

	configMu.Lock()
	config = loggingConfig{}
	configLoaded = false
	configMu.Unlock()

	logsDir = ""
	workspace = ""
	logLevel = LevelInfo
}

func TestAllCategoriesLog(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".editor")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"boot": true,
				"session": true,
				"completion": true,
				"provider": true
			}
		}
	}`

	configPath := filepath.Join(configDir, "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	resetLoggingState()
	require.NoError(t, Initialize(tempDir))
	defer CloseAll()

	categories := []Category{CategoryBoot, CategorySession, CategoryCompletion, CategoryProvider}
	for _, cat := range categories {
		logger := Get(cat)
		logger.Info("test message for %s", cat)
	}

	logsDirPath := filepath.Join(tempDir, ".editor", "logs")
	entries, err := os.ReadDir(logsDirPath)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), len(categories))
}

func TestDebugModeDisabled(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_disabled")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	resetLoggingState()
	require.NoError(t, Initialize(tempDir))
	defer CloseAll()

	assert.False(t, IsDebugMode(), "expected debug mode disabled when no config present")

	logsDirPath := filepath.Join(tempDir, ".editor", "logs")
	_, err = os.Stat(logsDirPath)
	assert.True(t, os.IsNotExist(err), "expected no logs directory to be created when debug mode is disabled")
}

func TestCategoryFiltering(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_filter")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".editor")
	os.MkdirAll(configDir, 0755)

	configContent := `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"completion": true,
				"provider": false
			}
		}
	}`
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte(configContent), 0644)

	resetLoggingState()
	require.NoError(t, Initialize(tempDir))
	defer CloseAll()

	assert.True(t, IsCategoryEnabled(CategoryCompletion), "expected completion category to be enabled")
	assert.False(t, IsCategoryEnabled(CategoryProvider), "expected provider category to be disabled")
	// Unknown categories default to enabled when a category map is present
	// but the category itself isn't listed.
	assert.True(t, IsCategoryEnabled(CategoryBoot), "expected unlisted category to default to enabled")
}

func TestLogLevelFiltering(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_level")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".editor")
	os.MkdirAll(configDir, 0755)
	configContent := `{"logging": {"level": "warn", "debug_mode": true}}`
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte(configContent), 0644)

	resetLoggingState()
	require.NoError(t, Initialize(tempDir))
	defer CloseAll()

	logger := Get(CategoryCompletion)
	logger.Debug("should not appear")
	logger.Info("should not appear")
	logger.Warn("should appear")

	logPath := filepath.Join(tempDir, ".editor", "logs", time.Now().Format("2006-01-02")+"_completion.log")
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)
	assert.False(t, strings.Contains(content, "should not appear"), "debug/info messages leaked through at warn level")
	assert.True(t, strings.Contains(content, "should appear"), "warn message missing from log file")
}

func TestConcurrentLogging(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_concurrent")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".editor")
	os.MkdirAll(configDir, 0755)
	configContent := `{"logging": {"level": "debug", "debug_mode": true}}`
	os.WriteFile(filepath.Join(configDir, "config.json"), []byte(configContent), 0644)

	resetLoggingState()
	require.NoError(t, Initialize(tempDir))
	defer CloseAll()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Get(CategoryCompletion).Debug("concurrent message %d", n)
		}(i)
	}
	wg.Wait()
}
