package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrLoadFailed wraps every configuration loading failure.
var ErrLoadFailed = errors.New("failed to load configuration")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> value
)

// fileLayerDefaultTag replaces envDefault while overlaying a file, so unset
// variables keep the values read from the file.
const fileLayerDefaultTag = "envFileDefault"

func loadDotenv() {
	dotenvOnce.Do(func() {
		// A missing .env file is the normal case outside development.
		_ = godotenv.Load()
	})
}

// Load parses environment variables into cfg. Each type is parsed once per
// process; later calls receive a copy of the cached value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil destination", ErrLoadFailed)
	}
	typ := reflect.TypeFor[T]()
	if v, ok := cache.Load(typ); ok {
		*cfg = v.(T)
		return nil
	}

	loadDotenv()

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return errors.Join(ErrLoadFailed, err)
	}
	v, _ := cache.LoadOrStore(typ, loaded)
	*cfg = v.(T)
	return nil
}

// MustLoad is Load that panics on failure. Intended for process startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

// LoadFile reads a YAML file into cfg and then applies environment variables
// on top. Variables that are not set leave file values untouched, and
// envDefault tags are ignored: the file is expected to be complete.
// Results are not cached.
func LoadFile[T any](path string, cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil destination", ErrLoadFailed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrLoadFailed, fmt.Errorf("failed to read config file: %w", err))
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Join(ErrLoadFailed, fmt.Errorf("failed to parse config file: %w", err))
	}

	loadDotenv()

	if err := env.ParseWithOptions(cfg, env.Options{DefaultValueTagName: fileLayerDefaultTag}); err != nil {
		return errors.Join(ErrLoadFailed, err)
	}
	return nil
}
