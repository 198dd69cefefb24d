/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tomoncle/rostersearch/utils"
)

func TestDefaultLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	utils.ConfigureOutput(&buf)
	t.Cleanup(func() { utils.ConfigureOutput(os.Stdout) })

	l := NewLogger("DATABASE_TEST")
	l.SetLevel(LogLevelInfo)
	l.Info("connected", "dbname", "roster", "dangling")
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "connected")
	assert.Contains(t, out, "dbname=roster")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "dangling")
}

func TestInitLoggerKeepsFirst(t *testing.T) {
	first := GetLogger()
	InitLogger(NopLogger())
	assert.Equal(t, first, GetLogger())
}
