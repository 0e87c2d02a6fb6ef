package emulator

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/simpleos/cpu"
)

const (
	DEFAULT_TIMEOUT = time.Second // Default bound on a single protocol operation.
)

// Config is the machine configuration.
type Config struct {
	cpu.Layout               // Address space layout.
	Timeout    time.Duration // Bound on each protocol operation; 0 is unbounded.
	Verbose    bool          // Enables verbose logging.
	Pipe       bool          // Connect engine and memory over OS pipes.
}

// DefaultConfig returns the standard machine.
func DefaultConfig() Config {
	return Config{
		Layout:  cpu.DefaultLayout(),
		Timeout: DEFAULT_TIMEOUT,
	}
}

// Validate checks the configuration.
func (config Config) Validate() (err error) {
	err = config.Layout.Validate()
	if err != nil {
		return
	}

	if config.Timeout < 0 {
		err = &ErrConfig{Name: "TIMEOUT_MS", Err: ErrConfigRange}
		return
	}

	return
}

// configInt32 assigns a starlark integer to an int32 field.
func configInt32(field *int32) func(starlark.Value) error {
	return func(value starlark.Value) (err error) {
		v32, err := starlark.AsInt32(value)
		if err != nil {
			return
		}
		*field = int32(v32)
		return
	}
}

// LoadConfig reads a starlark configuration script, applied over the
// default configuration.
//
// The script may only assign the names MEMORY_SIZE, USER_LIMIT, HANDLER,
// SYSTEM_STACK, TIMER, TIMEOUT_MS, VERBOSE and PIPE. Names starting
// with '_' are private to the script.
func LoadConfig(filesys afero.Fs, name string) (config Config, err error) {
	config = DefaultConfig()

	data, err := afero.ReadFile(filesys, name)
	if err != nil {
		return
	}

	thread := &starlark.Thread{Name: name}
	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, name, data, nil)
	if err != nil {
		return
	}

	setters := map[string]func(starlark.Value) error{
		"MEMORY_SIZE":  configInt32(&config.Size),
		"USER_LIMIT":   configInt32(&config.UserLimit),
		"HANDLER":      configInt32(&config.Handler),
		"SYSTEM_STACK": configInt32(&config.SystemStack),
		"TIMER": func(value starlark.Value) (err error) {
			return starlark.AsInt(value, &config.Timer)
		},
		"TIMEOUT_MS": func(value starlark.Value) (err error) {
			var ms int
			err = starlark.AsInt(value, &ms)
			config.Timeout = time.Duration(ms) * time.Millisecond
			return
		},
		"VERBOSE": func(value starlark.Value) (err error) {
			config.Verbose = bool(value.Truth())
			return
		},
		"PIPE": func(value starlark.Value) (err error) {
			config.Pipe = bool(value.Truth())
			return
		},
	}

	for _, key := range globals.Keys() {
		if strings.HasPrefix(key, "_") {
			continue
		}
		set, ok := setters[key]
		if !ok {
			err = &ErrConfig{Name: key, Err: ErrConfigUnknown}
			return
		}
		value := globals[key]
		_err := set(value)
		if _err != nil {
			err = &ErrConfig{Name: key, Err: fmt.Errorf("%w: %v", ErrConfigType, _err)}
			return
		}
	}

	err = config.Validate()
	return
}
