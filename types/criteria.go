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

import (
	"fmt"
	"strings"
)

// SearchCriteria holds the optional member search filters. A nil field puts no
// constraint on its column.
type SearchCriteria struct {
	Name     *string `form:"name" json:"name,omitempty"`
	TeamName *string `form:"teamName" json:"teamName,omitempty"`
	AgeGoe   *int    `form:"ageGoe" json:"ageGoe,omitempty" binding:"omitempty,gte=0"`
	AgeLoe   *int    `form:"ageLoe" json:"ageLoe,omitempty" binding:"omitempty,gte=0"`
}

// IsEmpty reports whether no filter is set.
func (c *SearchCriteria) IsEmpty() bool {
	return c == nil || (c.Name == nil && c.TeamName == nil && c.AgeGoe == nil && c.AgeLoe == nil)
}

func (c *SearchCriteria) String() string {
	if c.IsEmpty() {
		return "{}"
	}
	parts := make([]string, 0, 4)
	if c.Name != nil {
		parts = append(parts, fmt.Sprintf("name=%q", *c.Name))
	}
	if c.TeamName != nil {
		parts = append(parts, fmt.Sprintf("teamName=%q", *c.TeamName))
	}
	if c.AgeGoe != nil {
		parts = append(parts, fmt.Sprintf("ageGoe=%d", *c.AgeGoe))
	}
	if c.AgeLoe != nil {
		parts = append(parts, fmt.Sprintf("ageLoe=%d", *c.AgeLoe))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
