// Copyright (c) 2025-present deep.rent GmbH (https://deep.rent)
//
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

package casing_test

import (
	"testing"

	"github.com/deep-rent/cling/internal/casing"
	"github.com/stretchr/testify/assert"
)

func TestKebab(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "verbose", want: "verbose"},
		{in: "dryRun", want: "dry-run"},
		{in: "DryRun", want: "dry-run"},
		{in: "HTTPProxy", want: "http-proxy"},
		{in: "maxRetries", want: "max-retries"},
		{in: "ipv6", want: "ipv6"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, casing.Kebab(tc.in))
		})
	}
}
