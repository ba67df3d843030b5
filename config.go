package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dnldd/roll/shared"
	"github.com/joho/godotenv"
)

// Config is the configuration struct for the service.
type Config struct {
	// Market is the market the tracked universes trade on.
	Market string
	// Tickers are the base tickers of the tracked continuous contract universes.
	Tickers []string
	// MarketHoursPath is the filepath to the market hours database.
	MarketHoursPath string
	// MappingDir is the directory holding contract mapping files.
	MappingDir string
	// Backtest is the backtesting flag.
	Backtest bool
	// BacktestStart is the backtest range start date.
	BacktestStart string
	// BacktestEnd is the backtest range end date.
	BacktestEnd string
	// DatabaseEndpoint is the roll event database endpoint.
	DatabaseEndpoint string
	// DatabaseUser is the database user.
	DatabaseUser string
	// DatabasePass is the database user pass.
	DatabasePass string

	registeredFlags map[string]bool
}

// Validate asserts the config has sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.Market == "" {
		errs = errors.Join(errs, fmt.Errorf("no market provided for roll service"))
	}
	if len(cfg.Tickers) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no tickers provided for roll service"))
	}
	if cfg.MarketHoursPath == "" {
		errs = errors.Join(errs, fmt.Errorf("market hours path cannot be an empty string"))
	}
	if cfg.MappingDir == "" {
		errs = errors.Join(errs, fmt.Errorf("mapping directory cannot be an empty string"))
	}
	if cfg.Backtest {
		if cfg.BacktestStart == "" {
			errs = errors.Join(errs, fmt.Errorf("backtest start cannot be an empty string"))
		} else if _, err := time.Parse(shared.DateLayout, cfg.BacktestStart); err != nil {
			errs = errors.Join(errs, fmt.Errorf("parsing backtest start: %w", err))
		}
		if cfg.BacktestEnd == "" {
			errs = errors.Join(errs, fmt.Errorf("backtest end cannot be an empty string"))
		} else if _, err := time.Parse(shared.DateLayout, cfg.BacktestEnd); err != nil {
			errs = errors.Join(errs, fmt.Errorf("parsing backtest end: %w", err))
		}
	}

	return errs
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Slice:
		// Only handle []string
		if val.Elem().Type().Elem().Kind() == reflect.String {
			var def []string
			if defValue != "" {
				def = strings.Split(defValue, ",")
			}
			flag.Func(name, usage, func(s string) error {
				*value.(*[]string) = strings.Split(s, ",")
				return nil
			})
			// Set default if not provided via flag
			if len(def) > 0 {
				*value.(*[]string) = def
			}
		} else {
			return fmt.Errorf("%s: unsupported slice type", name)
		}
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	err = cfg.registerFlag("market", &cfg.Market, "the market the tracked universes trade on")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("tickers", &cfg.Tickers, "the tracked continuous contract tickers")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("markethourspath", &cfg.MarketHoursPath, "the market hours database filepath")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("mappingdir", &cfg.MappingDir, "the contract mapping files directory")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("backtest", &cfg.Backtest, "the backtest flag")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("backteststart", &cfg.BacktestStart, "the backtest range start date")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("backtestend", &cfg.BacktestEnd, "the backtest range end date")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("databaseendpoint", &cfg.DatabaseEndpoint, "the roll event database endpoint")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("databaseuser", &cfg.DatabaseUser, "the database user")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("databasepass", &cfg.DatabasePass, "the database user pass")
	if err != nil {
		return err
	}

	// Parse command-line flags.
	flag.Parse()

	return cfg.Validate()
}
