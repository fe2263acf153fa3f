package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lungmap/radpipe/helper"
)

// Config holds all tunables of a pipeline run. Zero values are filled in
// from DefaultConfig by Validate.
type Config struct {
	// Vocabulary lists the pneumonia-indicative terms matched against
	// suggestive_of sources (case-insensitive substring match).
	Vocabulary []string `yaml:"vocabulary"`

	// Topic modeling
	NumTopics int   `yaml:"num_topics"`
	TopicSeed int64 `yaml:"topic_seed"`

	// Classifier: "logistic" or "boosted".
	Classifier    string  `yaml:"classifier"`
	TestFraction  float64 `yaml:"test_fraction"`
	SplitSeed     int64   `yaml:"split_seed"`
	BoostedRounds int     `yaml:"boosted_rounds"`
	LearningRate  float64 `yaml:"learning_rate"`

	// Workers is the per-document fan-out for parse and analyze.
	Workers int `yaml:"workers"`

	// File paths
	CohortPath      string `yaml:"cohort_path"`
	AnnotationsPath string `yaml:"annotations_path"`
	FeaturesPath    string `yaml:"features_path"`
	ReportPath      string `yaml:"report_path"`
}

// DefaultVocabulary are the pneumonia-indicative terms of the default
// suggestive-pattern matcher.
var DefaultVocabulary = []string{
	"consolidation",
	"opacity",
	"infiltrate",
	"pneumonia",
	"ground glass",
	"patchy",
	"focal",
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Vocabulary:    append([]string{}, DefaultVocabulary...),
		NumTopics:     8,
		TopicSeed:     42,
		Classifier:    "boosted",
		TestFraction:  0.2,
		SplitSeed:     42,
		BoostedRounds: 100,
		LearningRate:  0.1,
		Workers:       1,
	}
}

// LoadConfig reads a YAML configuration file and fills unset values with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, helper.NewError("read config file", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, helper.NewError("parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate fills zero values with defaults and rejects invalid settings.
func (c *Config) Validate() error {
	defaults := DefaultConfig()

	if len(c.Vocabulary) == 0 {
		c.Vocabulary = defaults.Vocabulary
	}
	if c.NumTopics == 0 {
		c.NumTopics = defaults.NumTopics
	}
	if c.TopicSeed == 0 {
		c.TopicSeed = defaults.TopicSeed
	}
	if c.Classifier == "" {
		c.Classifier = defaults.Classifier
	}
	if c.TestFraction == 0 {
		c.TestFraction = defaults.TestFraction
	}
	if c.SplitSeed == 0 {
		c.SplitSeed = defaults.SplitSeed
	}
	if c.BoostedRounds == 0 {
		c.BoostedRounds = defaults.BoostedRounds
	}
	if c.LearningRate == 0 {
		c.LearningRate = defaults.LearningRate
	}
	if c.Workers <= 0 {
		c.Workers = defaults.Workers
	}

	if c.NumTopics < 0 {
		return fmt.Errorf("num_topics must be non-negative, got %d", c.NumTopics)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction must be in (0,1), got %g", c.TestFraction)
	}
	switch c.Classifier {
	case "logistic", "boosted":
	default:
		return fmt.Errorf("unknown classifier %q", c.Classifier)
	}

	return nil
}
