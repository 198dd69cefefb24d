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
	"strings"

	"github.com/go-sql-driver/mysql"
)

// SQLError is a coarse, driver-independent category of a store failure.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoColumnErr
	NoTableErr
	SyntaxErr
	InvalidTypeCastErr
	ConnectionErr
	TimeoutErr
	CanceledErr
)

func (e SQLError) String() string {
	switch e {
	case NoRowsErr:
		return "no_rows"
	case NoColumnErr:
		return "no_column"
	case NoTableErr:
		return "no_table"
	case SyntaxErr:
		return "syntax"
	case InvalidTypeCastErr:
		return "invalid_type_cast"
	case ConnectionErr:
		return "connection"
	case TimeoutErr:
		return "timeout"
	case CanceledErr:
		return "canceled"
	default:
		return "unknown"
	}
}

// ClassifyError maps a driver error from mysql, postgres or sqlite onto an
// SQLError. The second result is false when err does not look like a store
// error at all.
func ClassifyError(err error) (SQLError, bool) {
	if err == nil {
		return UnknownErr, false
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return NoRowsErr, true
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutErr, true
	case errors.Is(err, context.Canceled):
		return CanceledErr, true
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone), errors.Is(err, mysql.ErrInvalidConn):
		return ConnectionErr, true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1054:
			return NoColumnErr, true
		case 1146:
			return NoTableErr, true
		case 1064:
			return SyntaxErr, true
		case 2002, 2003, 2006, 2013:
			return ConnectionErr, true
		default:
			return UnknownErr, true
		}
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "sqlstate 42703"),
		strings.Contains(s, "undefined column"),
		strings.Contains(s, "no such column"),
		strings.Contains(s, "column") && strings.Contains(s, "does not exist"):
		return NoColumnErr, true
	case strings.Contains(s, "sqlstate 42p01"),
		strings.Contains(s, "undefined table"),
		strings.Contains(s, "no such table"),
		strings.Contains(s, "relation") && strings.Contains(s, "does not exist"):
		return NoTableErr, true
	case strings.Contains(s, "sqlstate 42601"),
		strings.Contains(s, "syntax error"):
		return SyntaxErr, true
	case strings.Contains(s, "datatype mismatch"),
		strings.Contains(s, "sqlstate 42804"):
		return InvalidTypeCastErr, true
	case strings.Contains(s, "database is closed"),
		strings.Contains(s, "connection refused"),
		strings.Contains(s, "broken pipe"),
		strings.Contains(s, "bad connection"):
		return ConnectionErr, true
	}
	return UnknownErr, false
}
