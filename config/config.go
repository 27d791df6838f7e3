/*
Copyright 2024 Reconcile Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pohlai88/reconcile/model"
)

var ConfigStore atomic.Value

// MatchingDefaults carries tenant-level overrides for the matching
// thresholds and weights. Zero values fall back to the engine defaults when
// converted with ToMatchingConfig.
type MatchingDefaults struct {
	AutoMatchThreshold float64 `json:"auto_match_threshold" envconfig:"RECON_AUTO_MATCH_THRESHOLD"`
	SuggestThreshold   float64 `json:"suggest_threshold" envconfig:"RECON_SUGGEST_THRESHOLD"`
	AmountTolerance    float64 `json:"amount_tolerance" envconfig:"RECON_AMOUNT_TOLERANCE"`
	DateToleranceDays  int     `json:"date_tolerance_days" envconfig:"RECON_DATE_TOLERANCE_DAYS"`
	AmountWeight       float64 `json:"amount_weight" envconfig:"RECON_AMOUNT_WEIGHT"`
	DateWeight         float64 `json:"date_weight" envconfig:"RECON_DATE_WEIGHT"`
	ReferenceWeight    float64 `json:"reference_weight" envconfig:"RECON_REFERENCE_WEIGHT"`
	DescriptionWeight  float64 `json:"description_weight" envconfig:"RECON_DESCRIPTION_WEIGHT"`
	SimilarityCutoff   float64 `json:"similarity_cutoff" envconfig:"RECON_SIMILARITY_CUTOFF"`
	DisableFuzzy       bool    `json:"disable_fuzzy" envconfig:"RECON_DISABLE_FUZZY"`
}

// ImportConfig tunes statement import behavior at the application boundary.
type ImportConfig struct {
	DefaultFormat       string `json:"default_format" envconfig:"RECON_DEFAULT_FORMAT"`
	DateRangeBufferDays int    `json:"date_range_buffer_days" envconfig:"RECON_DATE_RANGE_BUFFER_DAYS"`
}

type Configuration struct {
	ProjectName string           `json:"project_name" envconfig:"RECON_PROJECT_NAME"`
	LogLevel    string           `json:"log_level" envconfig:"RECON_LOG_LEVEL"`
	Matching    MatchingDefaults `json:"matching"`
	Import      ImportConfig     `json:"import"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return errors.Wrap(err, "opening config file")
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&cnf); err != nil {
			return errors.Wrap(err, "decoding config file")
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	if err := envconfig.Process("recon", &cnf); err != nil {
		return errors.Wrap(err, "processing environment config")
	}

	cnf.addDefaults()

	ConfigStore.Store(&cnf)
	return nil
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded. Create a json file called recon.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) addDefaults() {
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	if cnf.ProjectName == "" {
		cnf.ProjectName = "Reconcile"
	}
	if cnf.LogLevel == "" {
		cnf.LogLevel = "info"
	}
	if cnf.Import.DefaultFormat == "" {
		cnf.Import.DefaultFormat = "generic"
	}
	if cnf.Import.DateRangeBufferDays == 0 {
		cnf.Import.DateRangeBufferDays = 30
	}
}

// ToMatchingConfig converts the application-level overrides into a
// per-call matching config, filling unset fields from the engine defaults.
func (m MatchingDefaults) ToMatchingConfig() model.MatchingConfig {
	cfg := model.MatchingConfig{
		AutoMatchThreshold: m.AutoMatchThreshold,
		SuggestThreshold:   m.SuggestThreshold,
		DateToleranceDays:  m.DateToleranceDays,
		AmountWeight:       m.AmountWeight,
		DateWeight:         m.DateWeight,
		ReferenceWeight:    m.ReferenceWeight,
		DescriptionWeight:  m.DescriptionWeight,
		SimilarityCutoff:   m.SimilarityCutoff,
	}
	if m.AmountTolerance > 0 {
		cfg.AmountTolerance = decimal.NewFromFloat(m.AmountTolerance)
	}
	if m.DisableFuzzy {
		fuzzy := false
		cfg.FuzzyDescription = &fuzzy
	}
	return cfg.Normalize()
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.addDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}

// SetupLogger applies the configured level to the global logrus logger.
func (cnf *Configuration) SetupLogger() {
	level, err := logrus.ParseLevel(cnf.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
