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
	"context"
	"fmt"

	"github.com/tomoncle/rostersearch/database"
	"github.com/tomoncle/rostersearch/metrics"
	"github.com/tomoncle/rostersearch/model"
	"github.com/tomoncle/rostersearch/types"
	"github.com/uptrace/bun"
)

// memberSortColumns maps the sort properties callers may use onto columns of
// the member/team join.
var memberSortColumns = map[string]string{
	"id":       "m.id",
	"memberId": "m.id",
	"name":     "m.name",
	"username": "m.name",
	"age":      "m.age",
	"teamId":   "t.id",
	"teamName": "t.name",
}

const defaultSortColumn = "m.id"

type memberRepository struct {
	db     bun.IDB
	logger database.Logger
}

// NewMemberRepository returns a MemberRepository reading through db, which may
// be a *bun.DB or a transaction owned by the caller.
func NewMemberRepository(db bun.IDB, logger database.Logger) MemberRepository {
	if logger == nil {
		logger = database.GetLogger()
	}
	return &memberRepository{db: db, logger: logger}
}

func (r *memberRepository) Search(ctx context.Context, criteria *types.SearchCriteria) ([]*model.MemberTeam, error) {
	q := r.contentQuery(BuildPredicates(criteria)).OrderExpr("? ASC", bun.Safe(defaultSortColumn))
	var rows []*model.MemberTeam
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, newQueryExecutionError(opContent, err)
	}
	if rows == nil {
		rows = make([]*model.MemberTeam, 0)
	}
	return rows, nil
}

func (r *memberRepository) SearchPage(ctx context.Context, criteria *types.SearchCriteria, page *types.PageRequest, strategy types.PageStrategy) (*types.PageResult[*model.MemberTeam], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	orders, err := memberOrderColumns(page.GetOrders())
	if err != nil {
		return nil, err
	}
	filters := BuildPredicates(criteria)

	var (
		result  *types.PageResult[*model.MemberTeam]
		counted bool
	)
	switch strategy {
	case types.StrategyAlwaysCount:
		result, err = r.pageAlwaysCount(ctx, filters, orders, page)
		counted = true
	case types.StrategyDeferredTotal:
		result, counted, err = r.pageDeferredTotal(ctx, filters, orders, page)
	case types.StrategySinglePass:
		result, counted, err = r.pageSinglePass(ctx, filters, orders, page)
	default:
		return nil, fmt.Errorf("unsupported page strategy %d", strategy)
	}
	if err != nil {
		return nil, err
	}

	metrics.ObservePage(strategy.Name())
	metrics.ObserveCount(strategy.Name(), counted)
	if !counted {
		r.logger.Debug("Count query elided", "strategy", strategy.Name(), "page", page.GetPage(),
			"size", page.GetPageSize(), "content", len(result.Content), "total", result.Total)
	}
	return result, nil
}

func (r *memberRepository) pageAlwaysCount(ctx context.Context, filters []*types.QueryFilter, orders []bun.Safe, page *types.PageRequest) (*types.PageResult[*model.MemberTeam], error) {
	content, err := r.fetchContent(ctx, filters, orders, page)
	if err != nil {
		return nil, err
	}
	return GetCountedPage(ctx, content, page, r.countFunc(filters))
}

func (r *memberRepository) pageDeferredTotal(ctx context.Context, filters []*types.QueryFilter, orders []bun.Safe, page *types.PageRequest) (*types.PageResult[*model.MemberTeam], bool, error) {
	content, err := r.fetchContent(ctx, filters, orders, page)
	if err != nil {
		return nil, false, err
	}
	return GetPage(ctx, content, page, r.countFunc(filters))
}

// memberTeamTotal is a content row carrying the window count of the whole
// filtered result.
type memberTeamTotal struct {
	model.MemberTeam
	TotalCount int64 `bun:"total_count"`
}

// pageSinglePass reads the total from count(*) OVER () on the content rows.
// The count still runs over the join. An empty page past the first one has no
// row to read it from, so it falls back to the count query.
func (r *memberRepository) pageSinglePass(ctx context.Context, filters []*types.QueryFilter, orders []bun.Safe, page *types.PageRequest) (*types.PageResult[*model.MemberTeam], bool, error) {
	q := r.contentQuery(filters).ColumnExpr("count(*) OVER () AS total_count")
	q = orderAndLimit(q, orders, page)

	var rows []memberTeamTotal
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, false, newQueryExecutionError(opContent, err)
	}

	content := make([]*model.MemberTeam, len(rows))
	for i := range rows {
		content[i] = &rows[i].MemberTeam
	}
	switch {
	case len(rows) > 0:
		return types.NewPageResult(content, page, rows[0].TotalCount), false, nil
	case page.GetOffset() == 0:
		return types.NewPageResult(content, page, 0), false, nil
	}
	result, err := GetCountedPage(ctx, content, page, r.countFunc(filters))
	return result, true, err
}

func (r *memberRepository) fetchContent(ctx context.Context, filters []*types.QueryFilter, orders []bun.Safe, page *types.PageRequest) ([]*model.MemberTeam, error) {
	q := orderAndLimit(r.contentQuery(filters), orders, page)
	var rows []*model.MemberTeam
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, newQueryExecutionError(opContent, err)
	}
	return rows, nil
}

// contentQuery selects the flattened projection over member LEFT JOIN team,
// so members without a team are kept with null team columns.
func (r *memberRepository) contentQuery(filters []*types.QueryFilter) *bun.SelectQuery {
	q := r.db.NewSelect().
		Model((*model.Member)(nil)).
		ColumnExpr("m.id AS member_id").
		ColumnExpr("m.name AS username").
		ColumnExpr("m.age AS age").
		ColumnExpr("t.id AS team_id").
		ColumnExpr("t.name AS team_name")
	return applyFilters(joinTeam(q), filters)
}

// countFunc counts matching members. The team join is added only when a
// filter reads from it: a member has at most one team, so the left join never
// changes the number of member rows.
func (r *memberRepository) countFunc(filters []*types.QueryFilter) CountFunc {
	return func(ctx context.Context) (int64, error) {
		q := r.db.NewSelect().Model((*model.Member)(nil))
		if RequiresJoin(filters, relationTeam) {
			q = joinTeam(q)
		}
		n, err := applyFilters(q, filters).Count(ctx)
		if err != nil {
			return 0, newQueryExecutionError(opCount, err)
		}
		return int64(n), nil
	}
}

func orderAndLimit(q *bun.SelectQuery, orders []bun.Safe, page *types.PageRequest) *bun.SelectQuery {
	for _, o := range orders {
		q = q.OrderExpr("?", o)
	}
	return q.Offset(page.GetOffset()).Limit(page.GetPageSize())
}

// memberOrderColumns resolves sort properties to ORDER BY terms and appends
// the member id as a tie breaker so that pages are stable.
func memberOrderColumns(orders []types.Order) ([]bun.Safe, error) {
	out := make([]bun.Safe, 0, len(orders)+1)
	byID := false
	for _, o := range orders {
		col, ok := memberSortColumns[o.Property]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported sort property %q", ErrInvalidPageRequest, o.Property)
		}
		byID = byID || col == defaultSortColumn
		out = append(out, bun.Safe(col+" "+string(o.Direction)))
	}
	if !byID {
		out = append(out, bun.Safe(defaultSortColumn+" ASC"))
	}
	return out, nil
}
