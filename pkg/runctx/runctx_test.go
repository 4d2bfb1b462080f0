// Copyright 2025 walteh LLC
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

package runctx

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRunContext(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	rc := New(now, WithDryRun(true), WithLogger(zerolog.New(zerolog.NewTestWriter(t))))

	assert.True(t, rc.DryRun())
	assert.True(t, rc.NowUTC().Equal(now))
	assert.Equal(t, now.Local().Format(StampLayout), rc.Stamp())
	assert.Equal(t, rc.Now(), rc.Now(), "clock is captured once")
	assert.NotNil(t, rc.Logger())

	quiet := New(now)
	assert.False(t, quiet.DryRun())
	assert.Equal(t, zerolog.Disabled, quiet.Logger().GetLevel())
}
