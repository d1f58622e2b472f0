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

// Package gurobi links the Gurobi C library and registers it as the default engine.
//
// Import it for its side effect:
//
//	import _ "github.com/grbkit/grb/engine/gurobi"
//
// The binding is only compiled with cgo enabled and the `gurobi` build tag. Headers and the
// shared library are located through the usual cgo environment, for example:
//
//	export CGO_CFLAGS="-I${GUROBI_HOME}/include"
//	export CGO_LDFLAGS="-L${GUROBI_HOME}/lib"
//	go build -tags gurobi ./...
//
// Without the tag the package builds empty and `Available` is false.
package gurobi
