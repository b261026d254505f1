// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")

	v.BindEnv("db.path", "db_path")

	v.BindEnv("redis.host", "redis_host")
	v.BindEnv("redis.port", "redis_port")
	v.BindEnv("redis.password", "redis_password")
	v.BindEnv("redis.db", "redis_db")

	v.BindEnv("storage.folder_path", "folder_path")

	v.BindEnv("queue.workers", "queue_workers")
	v.BindEnv("queue.max_attempts", "queue_max_attempts")
	v.BindEnv("queue.retry_backoff", "queue_retry_backoff")
	v.BindEnv("queue.job_timeout", "queue_job_timeout")

	v.BindEnv("upload.max_size", "upload_max_size")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)

	v.SetDefault("db.path", "database.db")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.folder_path", "/tmp/files_manager")

	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.max_attempts", 3)
	v.SetDefault("queue.retry_backoff", 500*time.Millisecond)
	v.SetDefault("queue.job_timeout", 2*time.Minute)

	v.SetDefault("upload.max_size", 50)

	if err := v.ReadInConfig(); err != nil {
		// The defaults and env vars cover everything, so a missing
		// config.toml is not fatal
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("storage.folder_path") == "" {
		return errors.New("storage.folder_path can't be empty")
	}

	if v.GetInt("queue.workers") <= 0 {
		return errors.New("queue.workers must be bigger than 0")
	}

	if v.GetInt("queue.max_attempts") <= 0 {
		return errors.New("queue.max_attempts must be bigger than 0")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}

// SetupLogger replaces the global zap logger with one configured
// from app.log_level. Both the API and the worker binary use it.
func SetupLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	var level zapcore.Level
	if err := level.Set(v.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
