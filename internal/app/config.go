package app

import (
	"errors"
	"fmt"
	"reflect"
)

// Contracts the application knows how to run.
const (
	ContractHelper   = "helper"
	ContractNotifier = "notifier"
)

// Resource is a binding handed to the registry before plugins are looked up.
type Resource struct {
	Name  string
	Type  reflect.Type
	Value any
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SearchPath []string // directories and archive bundles; empty reads PLUGINSPI_PATH
	Marker     string
	Contract   string
	Event      string // notifier event name
	Resources  []Resource

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Contract {
	case "":
		cfg.Contract = ContractHelper
	case ContractHelper, ContractNotifier:
	default:
		return nil, fmt.Errorf("unknown contract %q: must be '%s' or '%s'", cfg.Contract, ContractHelper, ContractNotifier)
	}
	if cfg.Event == "" {
		cfg.Event = "plugins"
	}
	for _, res := range cfg.Resources {
		if res.Name == "" {
			return nil, errors.New("resource name must not be empty")
		}
	}

	return &cfg, nil
}
