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
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want SQLError
		ok   bool
	}{
		{name: "nil", err: nil, want: UnknownErr},
		{name: "no rows", err: fmt.Errorf("get: %w", sql.ErrNoRows), want: NoRowsErr, ok: true},
		{name: "deadline", err: context.DeadlineExceeded, want: TimeoutErr, ok: true},
		{name: "canceled", err: context.Canceled, want: CanceledErr, ok: true},
		{name: "bad conn", err: driver.ErrBadConn, want: ConnectionErr, ok: true},
		{name: "mysql unknown column", err: &mysql.MySQLError{Number: 1054, Message: "Unknown column"}, want: NoColumnErr, ok: true},
		{name: "mysql missing table", err: &mysql.MySQLError{Number: 1146}, want: NoTableErr, ok: true},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1213}, want: UnknownErr, ok: true},
		{name: "sqlite column", err: errors.New("SQL logic error: no such column: m.nope (1)"), want: NoColumnErr, ok: true},
		{name: "sqlite table", err: errors.New("no such table: member"), want: NoTableErr, ok: true},
		{name: "postgres table", err: errors.New(`pq: relation "member" does not exist`), want: NoTableErr, ok: true},
		{name: "syntax", err: errors.New(`near "SELEC": syntax error`), want: SyntaxErr, ok: true},
		{name: "closed", err: errors.New("sql: database is closed"), want: ConnectionErr, ok: true},
		{name: "other", err: errors.New("boom"), want: UnknownErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyError(tt.err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSQLErrorString(t *testing.T) {
	assert.Equal(t, "connection", ConnectionErr.String())
	assert.Equal(t, "no_rows", NoRowsErr.String())
	assert.Equal(t, "unknown", SQLError(99).String())
}
