package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"divinewithin/internal/core/model"
	"divinewithin/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	MeditationMinutes int    `yaml:"meditation_minutes"`
	MeditationType    string `yaml:"meditation_type"`
	BreathworkMinutes int    `yaml:"breathwork_minutes"`
	Technique         string `yaml:"technique"`
	ReminderEnabled   bool   `yaml:"reminder_enabled"`
	ReminderTime      string `yaml:"reminder_time"`
	StreakCapDays     int    `yaml:"streak_cap_days"`
	LogLevel          string `yaml:"log_level"`
	LogFormat         string `yaml:"log_format"`
	MetricsAddr       string `yaml:"metrics_addr"`
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		MeditationMinutes: int(settings.MeditationDuration / time.Minute),
		MeditationType:    string(settings.MeditationType),
		BreathworkMinutes: int(settings.BreathworkDuration / time.Minute),
		Technique:         string(settings.Technique),
		ReminderEnabled:   settings.ReminderEnabled,
		ReminderTime:      fmt.Sprintf("%02d:%02d", settings.ReminderHour, settings.ReminderMinute),
		StreakCapDays:     settings.StreakCapDays,
		LogLevel:          settings.LogLevel,
		LogFormat:         settings.LogFormat,
		MetricsAddr:       settings.MetricsAddr,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ParseClock parses "HH:MM" into hour and minute.
func ParseClock(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour, minute, nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.MeditationMinutes > 0 {
		settings.MeditationDuration = time.Duration(fileData.MeditationMinutes) * time.Minute
	}
	if meditationType, err := model.ParseMeditationType(fileData.MeditationType); err == nil {
		settings.MeditationType = meditationType
	}
	if fileData.BreathworkMinutes > 0 {
		settings.BreathworkDuration = time.Duration(fileData.BreathworkMinutes) * time.Minute
	}
	if technique, err := model.ParseTechnique(fileData.Technique); err == nil {
		settings.Technique = technique
	}
	if hour, minute, err := ParseClock(fileData.ReminderTime); err == nil {
		settings.ReminderHour = hour
		settings.ReminderMinute = minute
	}
	if fileData.StreakCapDays > 0 {
		settings.StreakCapDays = fileData.StreakCapDays
	}
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	if fileData.LogFormat == "json" || fileData.LogFormat == "text" {
		settings.LogFormat = fileData.LogFormat
	}

	settings.ReminderEnabled = fileData.ReminderEnabled
	settings.MetricsAddr = fileData.MetricsAddr
}
