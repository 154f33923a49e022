package engine

import (
	"fmt"
	"strings"
)

// Config is a parsed compiler invocation: the arguments a request supplies
// to describe how its source buffer should be compiled.
type Config struct {
	ModuleName string
	IndexDir   string
	Inputs     []string
}

// ConfigError reports a malformed or unusable compiler invocation.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// ParseArgs builds a Config from request-supplied compiler arguments.
// Flags take a value in the following argument; anything that is not a
// flag is an input filename. The arguments arrive inside a request rather
// than on the process command line, so this does not go through the flag
// package.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-module-name":
			i++
			if i >= len(args) {
				return nil, &ConfigError{Message: "missing value for -module-name"}
			}
			cfg.ModuleName = args[i]
		case "-index":
			i++
			if i >= len(args) {
				return nil, &ConfigError{Message: "missing value for -index"}
			}
			cfg.IndexDir = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, &ConfigError{Message: fmt.Sprintf("unknown argument: %s", arg)}
			}
			cfg.Inputs = append(cfg.Inputs, arg)
		}
	}
	return cfg, nil
}

// Key returns a stable cache key component for the configuration.
func (c *Config) Key() string {
	return c.ModuleName + "\x1f" + c.IndexDir + "\x1f" + strings.Join(c.Inputs, "\x1f")
}
