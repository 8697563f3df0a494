package store

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/sms-ledger/internal/categorizer"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"

	"gopkg.in/yaml.v3"
)

// RuleConfig is one category entry of a rules file.
type RuleConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// RulesConfig is the top-level structure of a rules file.
type RulesConfig struct {
	Categories []RuleConfig `yaml:"categories"`
}

// RuleStore loads keyword tables that replace the built-in categorizer rules.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store for the given rules file name or path.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RuleStore{RulesFile: rulesFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	// Check if it's an absolute path
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".sms-ledger", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".sms-ledger", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadRules reads the rules file. A missing file yields no rules and no error,
// so callers fall back to the built-in table.
func (s *RuleStore) LoadRules() ([]categorizer.Rule, error) {
	if s.RulesFile == "" {
		return nil, nil
	}

	filePath, err := s.FindConfigFile(s.RulesFile)
	if err != nil {
		s.logger.Warn("Rules file not found, using built-in categories",
			logging.F(logging.FieldInputFile, s.RulesFile))
		return nil, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	var cfg RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", filePath, err)
	}

	rules := make([]categorizer.Rule, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		rules = append(rules, categorizer.Rule{
			Category: models.Category(c.Name),
			Keywords: c.Keywords,
		})
	}
	s.logger.Debug("Loaded category rules",
		logging.F(logging.FieldInputFile, filePath),
		logging.F(logging.FieldCount, len(rules)))
	return rules, nil
}
