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

package repository

import (
	"github.com/tomoncle/rostersearch/model"
	"github.com/tomoncle/rostersearch/types"
	"github.com/uptrace/bun"
)

// relationTeam marks predicates that read from the joined team table.
const relationTeam = "team"

// predicateFunc produces one condition for its criteria field, or nil when the
// field is absent.
type predicateFunc func(c *types.SearchCriteria) *types.QueryFilter

// memberPredicates lists one producer per searchable field. A new filter is
// one more entry here.
var memberPredicates = []predicateFunc{
	nameEq,
	teamNameEq,
	ageGoe,
	ageLoe,
}

func nameEq(c *types.SearchCriteria) *types.QueryFilter {
	if c.Name == nil {
		return nil
	}
	return types.NewQueryFilter("m.name = ?", *c.Name)
}

func teamNameEq(c *types.SearchCriteria) *types.QueryFilter {
	if c.TeamName == nil {
		return nil
	}
	return types.NewRelationFilter(relationTeam, "t.name = ?", *c.TeamName)
}

func ageGoe(c *types.SearchCriteria) *types.QueryFilter {
	if c.AgeGoe == nil {
		return nil
	}
	return types.NewQueryFilter("m.age >= ?", *c.AgeGoe)
}

func ageLoe(c *types.SearchCriteria) *types.QueryFilter {
	if c.AgeLoe == nil {
		return nil
	}
	return types.NewQueryFilter("m.age <= ?", *c.AgeLoe)
}

// BuildPredicates turns the present criteria fields into conditions to be
// combined with AND. No criteria, or only absent fields, yields no condition.
func BuildPredicates(c *types.SearchCriteria) []*types.QueryFilter {
	if c == nil {
		return nil
	}
	filters := make([]*types.QueryFilter, 0, len(memberPredicates))
	for _, p := range memberPredicates {
		if f := p(c); f != nil {
			filters = append(filters, f)
		}
	}
	return filters
}

// RequiresJoin reports whether any filter reads from relation.
func RequiresJoin(filters []*types.QueryFilter, relation string) bool {
	for _, f := range filters {
		if f.Relation == relation {
			return true
		}
	}
	return false
}

func applyFilters(q *bun.SelectQuery, filters []*types.QueryFilter) *bun.SelectQuery {
	for _, f := range filters {
		q = q.Where(f.Schema, f.Args...)
	}
	return q
}

func joinTeam(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Join("LEFT JOIN ? AS ? ON ?.id = ?.team_id",
		bun.Ident(model.TeamTable), bun.Ident(model.TeamAlias),
		bun.Ident(model.TeamAlias), bun.Ident(model.MemberAlias))
}
