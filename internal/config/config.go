package config

import (
	"os"
	"strconv"

	"mailmerge/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Import     ImportConfig
	SerialDate SerialDateConfig
	Sentinels  SentinelConfig
	Validation ValidationConfig
	Batch      BatchConfig
}

// ImportConfig holds header discovery and row filtering settings
type ImportConfig struct {
	HeaderScanLimit int // rows inspected while looking for the header row
	MinHeaderCells  int // non-empty cells required to accept a header row
	MinRowCells     int // non-empty cells required to retain a data row
}

// SerialDateConfig documents the assumed spreadsheet date convention.
// The defaults follow the 1900 date system: day zero is 1899-12-30 UTC,
// which sits EpochOffsetDays before the Unix epoch. Other engines differ
// by a day because of the historical 1900 leap-year bug, so the offset is
// configuration rather than a constant.
type SerialDateConfig struct {
	EpochOffsetDays int     // days between serial day zero and 1970-01-01
	MinSerial       float64 // smallest value treated as a plausible serial date
	MaxSerial       float64 // largest value treated as a plausible serial date
}

// SentinelConfig holds the in-band marker formats for unresolved values
type SentinelConfig struct {
	UnmappedFormat string // fmt verb receives the token name
	MissingFormat  string // fmt verb receives the column name
}

// ValidationConfig holds the advisory thresholds
type ValidationConfig struct {
	MinMessageLength int
	MaxMessageLength int
	MinPhoneDigits   int
	MaxPhoneDigits   int
}

// BatchConfig holds row-rendering settings
type BatchConfig struct {
	Parallelism int // 1 = sequential
	YieldEvery  int // cooperative yield cadence in sequential mode
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Import: ImportConfig{
			HeaderScanLimit: getEnvInt("MERGE_HEADER_SCAN_LIMIT", 25),
			MinHeaderCells:  getEnvInt("MERGE_MIN_HEADER_CELLS", 3),
			MinRowCells:     getEnvInt("MERGE_MIN_ROW_CELLS", 2),
		},
		SerialDate: SerialDateConfig{
			EpochOffsetDays: getEnvInt("MERGE_SERIAL_EPOCH_OFFSET", 25569),
			MinSerial:       getEnvFloat("MERGE_SERIAL_MIN", 20000),
			MaxSerial:       getEnvFloat("MERGE_SERIAL_MAX", 80000),
		},
		Sentinels: SentinelConfig{
			UnmappedFormat: getEnv("MERGE_UNMAPPED_FORMAT", "[UNMAPPED: %s]"),
			MissingFormat:  getEnv("MERGE_MISSING_FORMAT", "[MISSING: %s]"),
		},
		Validation: ValidationConfig{
			MinMessageLength: getEnvInt("MERGE_MIN_MESSAGE_LENGTH", 20),
			MaxMessageLength: getEnvInt("MERGE_MAX_MESSAGE_LENGTH", 5000),
			MinPhoneDigits:   getEnvInt("MERGE_MIN_PHONE_DIGITS", 10),
			MaxPhoneDigits:   getEnvInt("MERGE_MAX_PHONE_DIGITS", 15),
		},
		Batch: BatchConfig{
			Parallelism: getEnvInt("MERGE_PARALLELISM", 1),
			YieldEvery:  getEnvInt("MERGE_YIELD_EVERY", 50),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(c *Config) error {
	if c.Import.HeaderScanLimit < 1 {
		return errors.New(errors.CodeConfig, "header scan limit must be at least 1")
	}
	if c.Import.MinRowCells < 1 {
		return errors.New(errors.CodeConfig, "minimum row cells must be at least 1")
	}
	if c.SerialDate.MinSerial >= c.SerialDate.MaxSerial {
		return errors.New(errors.CodeConfig, "serial date range is inverted")
	}
	if c.Validation.MinMessageLength >= c.Validation.MaxMessageLength {
		return errors.New(errors.CodeConfig, "message length thresholds are inverted")
	}
	if c.Batch.Parallelism < 1 {
		return errors.New(errors.CodeConfig, "parallelism must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
