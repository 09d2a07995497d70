package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Well-known credential names.
const (
	OpenAIKey    = "OPENAI_API_KEY"
	AnthropicKey = "ANTHROPIC_API_KEY"
)

// Resolver maps a credential name to its value.
type Resolver interface {
	Resolve(name string) string
}

// Option configures a resolver.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for missing-credential warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Env resolves names from the process environment.
type Env struct {
	logger *slog.Logger
}

var _ Resolver = (*Env)(nil)

// NewEnv loads the given dotenv files (".env" when none are named) into the
// environment, without overriding variables that are already set, and
// returns a resolver over the environment. Missing files are not an error.
func NewEnv(files []string, opts ...Option) (*Env, error) {
	o := buildOptions(opts)

	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				o.logger.Debug("dotenv file not found", "file", file)
				continue
			}
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return &Env{logger: o.logger}, nil
}

// Resolve returns the environment value of name, or "" with a warning.
func (e *Env) Resolve(name string) string {
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		e.logger.Warn("credential not found", "name", name)
		return ""
	}
	return value
}

// File resolves names from a dotenv file read once at construction.
type File struct {
	values map[string]string
	logger *slog.Logger
}

var _ Resolver = (*File)(nil)

// NewFile parses the dotenv file at path.
func NewFile(path string, opts ...Option) (*File, error) {
	o := buildOptions(opts)

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &File{values: values, logger: o.logger}, nil
}

// Resolve returns the file's value of name, or "" with a warning.
func (f *File) Resolve(name string) string {
	value := f.values[name]
	if value == "" {
		f.logger.Warn("credential not found", "name", name)
	}
	return value
}

// Static resolves names from a fixed map. Handy for tests and for callers
// that already hold their keys.
type Static map[string]string

var _ Resolver = Static(nil)

func (s Static) Resolve(name string) string {
	return s[name]
}
