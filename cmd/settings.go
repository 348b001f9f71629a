package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// settingsFile is looked up in the working directory, after -C is applied.
const settingsFile = "mg.yaml"

// settings govern where the CLI finds its files. Precedence, lowest to
// highest: built-in defaults, mg.yaml, environment (a .env file fills gaps in
// the environment first), command line flags.
type settings struct {
	// DocFile is the path of the document file (JSONL format).
	DocFile string `yaml:"doc_file"`
	// DefaultCurrency seeds new documents created by init.
	DefaultCurrency string `yaml:"default_currency"`
	// RatesDB is the path of the exchange rate database (SQLite). Empty
	// leaves multi-currency conversions at their neutral rate of 1.
	RatesDB string `yaml:"rates_db"`
}

func defaultSettings() settings {
	return settings{
		DocFile:         "moneyguru.jsonl",
		DefaultCurrency: "USD",
	}
}

// loadSettings resolves the effective settings in precedence order.
func loadSettings() (settings, error) {
	s := defaultSettings()

	if raw, err := os.ReadFile(settingsFile); err == nil {
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return s, fmt.Errorf("cannot parse %s: %w", settingsFile, err)
		}
	} else if !os.IsNotExist(err) {
		return s, fmt.Errorf("cannot read %s: %w", settingsFile, err)
	}

	// A .env file populates the environment without clobbering variables
	// that are already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return s, fmt.Errorf("cannot load .env: %w", err)
	}

	if v := os.Getenv("MG_DOC_FILE"); v != "" {
		s.DocFile = v
	}
	if v := os.Getenv("MG_DEFAULT_CURRENCY"); v != "" {
		s.DefaultCurrency = v
	}
	if v := os.Getenv("MG_RATES_DB"); v != "" {
		s.RatesDB = v
	}

	if *docFile != "" {
		s.DocFile = *docFile
	}
	return s, nil
}
