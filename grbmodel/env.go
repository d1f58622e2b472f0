// Copyright 2026 The grb Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package grbmodel

import (
	"fmt"
	"math"
	"time"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine"
)

// Env is a loaded engine environment. It holds global parameters and is the parent of every
// Model created from it.
//
// Note that Go will not track memory allocated by the engine. The caller must call Close()
// when the environment is no longer needed. Close also releases any models still open.
// An Env and its models must not be used from several goroutines at once.
type Env struct {
	eng    engine.Engine
	handle engine.EnvHandle
	models map[*Model]struct{}
}

type envConfig struct {
	eng     engine.Engine
	logFile string
}

// EnvOption configures NewEnv.
type EnvOption func(*envConfig)

// WithEngine selects the engine implementation instead of the registered default.
func WithEngine(e engine.Engine) EnvOption {
	return func(c *envConfig) {
		c.eng = e
	}
}

// WithLogFile makes the engine append its log to the file at `path`.
func WithLogFile(path string) EnvOption {
	return func(c *envConfig) {
		c.logFile = path
	}
}

// NewEnv loads a new environment.
func NewEnv(opts ...EnvOption) (*Env, error) {
	cfg := envConfig{eng: engine.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.eng == nil {
		return nil, ErrNoEngine
	}

	h, code := cfg.eng.LoadEnv(cfg.logFile)
	if code != engine.OK {
		err := check(cfg.eng, h, "LoadEnv", code)
		// A failed load can still allocate an environment holding the error text.
		cfg.eng.FreeEnv(h)
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("grb: LoadEnv returned no environment: %w", ErrInvalidHandle)
	}
	log.V(1).Infof("grb: loaded environment (log file %q)", cfg.logFile)
	return &Env{eng: cfg.eng, handle: h, models: make(map[*Model]struct{})}, nil
}

func (env *Env) valid() error {
	if env == nil || env.handle == nil {
		return ErrInvalidHandle
	}
	return nil
}

// Close releases the environment, first closing every model created from it that is still
// open. It is safe to call Close more than once.
func (env *Env) Close() {
	if env == nil || env.handle == nil {
		return
	}
	for m := range env.models {
		log.Warningf("grb: closing model %q still open at environment close", m.name)
		m.Close()
	}
	env.eng.FreeEnv(env.handle)
	env.handle = nil
	log.V(1).Info("grb: released environment")
}

// SetThreads sets the number of threads used by models created after this call; 0 lets the
// engine choose.
func (env *Env) SetThreads(n int) error {
	return env.SetIntParam(engine.ParamThreads, n)
}

// SetTimeLimit bounds the solve time of models created after this call.
func (env *Env) SetTimeLimit(d time.Duration) error {
	return env.SetFloatParam(engine.ParamTimeLimit, d.Seconds())
}

// SetOutput enables or disables engine log output.
func (env *Env) SetOutput(enabled bool) error {
	v := 0
	if enabled {
		v = 1
	}
	return env.SetIntParam(engine.ParamOutputFlag, v)
}

// SetIntParam sets an integer parameter by name.
func (env *Env) SetIntParam(name string, value int) error {
	if err := env.valid(); err != nil {
		return err
	}
	return setIntParam(env.eng, env.handle, name, value)
}

// SetFloatParam sets a floating-point parameter by name.
func (env *Env) SetFloatParam(name string, value float64) error {
	if err := env.valid(); err != nil {
		return err
	}
	return setFloatParam(env.eng, env.handle, name, value)
}

// SetStringParam sets a string parameter by name.
func (env *Env) SetStringParam(name, value string) error {
	if err := env.valid(); err != nil {
		return err
	}
	return setStringParam(env.eng, env.handle, name, value)
}

func setIntParam(eng engine.Engine, h engine.EnvHandle, name string, value int) error {
	if value < math.MinInt32 || value > math.MaxInt32 {
		return fmt.Errorf("grb: parameter %q: %d does not fit in 32 bits: %w", name, value, ErrInvalidArgument)
	}
	return check(eng, h, "SetIntParam", eng.SetIntParam(h, name, int32(value)))
}

func setFloatParam(eng engine.Engine, h engine.EnvHandle, name string, value float64) error {
	if math.IsNaN(value) {
		return fmt.Errorf("grb: parameter %q: NaN: %w", name, ErrInvalidArgument)
	}
	return check(eng, h, "SetDblParam", eng.SetDblParam(h, name, value))
}

func setStringParam(eng engine.Engine, h engine.EnvHandle, name, value string) error {
	return check(eng, h, "SetStrParam", eng.SetStrParam(h, name, value))
}
