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
	"errors"
	"fmt"

	log "github.com/golang/glog"
	"github.com/grbkit/grb/engine"
)

// Precondition errors. These are returned before any engine call is made.
var (
	// ErrMixedModels holds the error when elements added to a model are different.
	ErrMixedModels = errors.New("elements are not part of the same model")
	// ErrLengthMismatch is returned when parallel lists have different lengths.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrInvalidHandle is returned by operations on a closed or never-initialized Env or Model.
	ErrInvalidHandle = errors.New("invalid or released engine handle")
	// ErrStaleSolution is returned by a Solution whose model changed after it was produced.
	ErrStaleSolution = errors.New("model changed since the solution was produced")
	// ErrInvalidArgument is returned for values that cannot be passed to the engine.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoEngine is returned by NewEnv when no engine was registered or supplied.
	ErrNoEngine = errors.New("no engine linked; import an engine package or use WithEngine")
)

// ErrNoErrorMessage is wrapped by an Error when the engine failed but had no error text.
var ErrNoErrorMessage = errors.New("engine provided no error message")

// codeError matches an Error by engine code in errors.Is.
type codeError engine.Code

func (c codeError) Error() string {
	return fmt.Sprintf("engine error code %d", int32(c))
}

// Sentinels for common engine error codes, for use with errors.Is.
var (
	ErrOutOfMemory       error = codeError(engine.ErrorOutOfMemory)
	ErrUnknownAttribute  error = codeError(engine.ErrorUnknownAttribute)
	ErrDataNotAvailable  error = codeError(engine.ErrorDataNotAvailable)
	ErrIndexOutOfRange   error = codeError(engine.ErrorIndexOutOfRange)
	ErrUnknownParameter  error = codeError(engine.ErrorUnknownParameter)
	ErrValueOutOfRange   error = codeError(engine.ErrorValueOutOfRange)
	ErrNoLicense         error = codeError(engine.ErrorNoLicense)
	ErrSizeLimitExceeded error = codeError(engine.ErrorSizeLimitExceeded)
	ErrFileWrite         error = codeError(engine.ErrorFileWrite)
	ErrNotSupported      error = codeError(engine.ErrorNotSupported)
)

// Error is a failed engine call.
type Error struct {
	Op   string      // Engine call that failed (e.g., "AddVar", "Optimize")
	Code engine.Code // Engine result code
	Msg  string      // Engine error text; empty when the engine gave none

	noMessage bool
}

func (e *Error) Error() string {
	if e.noMessage {
		return fmt.Sprintf("grb: %s failed with code %d: %v", e.Op, e.Code, ErrNoErrorMessage)
	}
	return fmt.Sprintf("grb: %s failed with code %d: %s", e.Op, e.Code, e.Msg)
}

// Unwrap returns ErrNoErrorMessage when the engine had no text for the failure.
func (e *Error) Unwrap() error {
	if e.noMessage {
		return ErrNoErrorMessage
	}
	return nil
}

// Is matches the engine code sentinels such as ErrDataNotAvailable.
func (e *Error) Is(target error) bool {
	c, ok := target.(codeError)
	return ok && engine.Code(c) == e.Code
}

// PartialError is returned by batch operations that stopped part way. Exactly Completed
// elements were applied, in order, before Err occurred; later elements were not attempted.
type PartialError struct {
	Completed int
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("grb: stopped after %d completed assignments: %v", e.Completed, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// check translates an engine result code. `env` is the environment that recorded the error.
func check(eng engine.Engine, env engine.EnvHandle, op string, code engine.Code) error {
	if code == engine.OK {
		return nil
	}
	msg, ok := eng.ErrorMsg(env)
	if !ok || msg == "" {
		log.Warningf("grb: %s failed with code %d and no error message", op, code)
		return &Error{Op: op, Code: code, noMessage: true}
	}
	return &Error{Op: op, Code: code, Msg: msg}
}

// mixedModelsErrorf logs and returns an error wrapping ErrMixedModels.
func mixedModelsErrorf(format string, a ...any) error {
	args := make([]any, len(a)+1)
	copy(args, a)
	args[len(a)] = ErrMixedModels
	err := fmt.Errorf(format+": %w", args...)
	log.Errorf("%v", err)
	return err
}
