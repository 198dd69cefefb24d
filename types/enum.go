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

package types

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// PageStrategy selects how a page query obtains its total element count.
type PageStrategy int

const (
	// StrategyAlwaysCount runs the content query and a separate count query.
	StrategyAlwaysCount PageStrategy = iota
	// StrategyDeferredTotal runs the count query only when the total cannot be
	// derived from the content that came back.
	StrategyDeferredTotal
	// StrategySinglePass reads the total from a window count carried on every row.
	StrategySinglePass
)

var _ BaseEnum = StrategyAlwaysCount

var pageStrategyNames = map[PageStrategy][2]string{
	StrategyAlwaysCount:   {"always_count", "content query plus count query"},
	StrategyDeferredTotal: {"deferred_total", "count query only when the total is unknown"},
	StrategySinglePass:    {"single_pass", "total carried by the content query"},
}

// ParsePageStrategy maps a strategy name back to its value.
func ParsePageStrategy(name string) (PageStrategy, bool) {
	for s, n := range pageStrategyNames {
		if n[0] == name {
			return s, true
		}
	}
	return PageStrategy(IllegalValue), false
}

func (s PageStrategy) IsValid() bool {
	_, ok := pageStrategyNames[s]
	return ok
}

func (s PageStrategy) Number() int {
	if !s.IsValid() {
		return IllegalValue
	}
	return int(s)
}

func (s PageStrategy) Name() string {
	if n, ok := pageStrategyNames[s]; ok {
		return n[0]
	}
	return IllegalName
}

func (s PageStrategy) Desc() string {
	if n, ok := pageStrategyNames[s]; ok {
		return n[1]
	}
	return IllegalDesc
}

func (s PageStrategy) String() string {
	return s.Name()
}
