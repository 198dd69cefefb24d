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
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/rostersearch/database"
	"github.com/tomoncle/rostersearch/internal/dbtest"
	"github.com/tomoncle/rostersearch/metrics"
	"github.com/tomoncle/rostersearch/model"
	"github.com/tomoncle/rostersearch/types"
	"github.com/uptrace/bun"
)

var strategies = []types.PageStrategy{
	types.StrategyAlwaysCount,
	types.StrategyDeferredTotal,
	types.StrategySinglePass,
}

func newMemberRepo(t *testing.T) (MemberRepository, *dbtest.Roster, *database.QueryRecorder) {
	db, rec := dbtest.Open(t)
	roster := dbtest.Seed(t, db)
	rec.Reset()
	return NewMemberRepository(db, database.NopLogger()), roster, rec
}

func usernames(rows []*model.MemberTeam) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		if r.Username != nil {
			out[i] = *r.Username
		}
	}
	return out
}

func ages(rows []*model.MemberTeam) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Age
	}
	return out
}

func countQueries(rec *database.QueryRecorder) int {
	n := 0
	for _, q := range rec.Queries() {
		if strings.Contains(q.Query, "count(*)") && !strings.Contains(q.Query, "OVER ()") {
			n++
		}
	}
	return n
}

func TestSearchWithoutCriteriaReturnsEveryMember(t *testing.T) {
	repo, roster, rec := newMemberRepo(t)

	rows, err := repo.Search(context.Background(), &types.SearchCriteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2", "member3", "member4"}, usernames(rows))
	assert.Equal(t, 1, rec.Len())

	first := rows[0]
	assert.Equal(t, roster.Members[0].ID, first.MemberID)
	require.NotNil(t, first.TeamID)
	assert.Equal(t, roster.TeamA.ID, *first.TeamID)
	require.NotNil(t, first.TeamName)
	assert.Equal(t, "teamA", *first.TeamName)

	rows, err = repo.Search(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestSearchFilters(t *testing.T) {
	repo, _, _ := newMemberRepo(t)

	tests := []struct {
		name     string
		criteria types.SearchCriteria
		want     []string
	}{
		{name: "name", criteria: types.SearchCriteria{Name: types.Ptr("member2")}, want: []string{"member2"}},
		{name: "team name", criteria: types.SearchCriteria{TeamName: types.Ptr("teamB")}, want: []string{"member3", "member4"}},
		{name: "min age", criteria: types.SearchCriteria{AgeGoe: types.Ptr(25)}, want: []string{"member3", "member4"}},
		{name: "min age inclusive", criteria: types.SearchCriteria{AgeGoe: types.Ptr(20)}, want: []string{"member2", "member3", "member4"}},
		{name: "max age", criteria: types.SearchCriteria{AgeLoe: types.Ptr(10)}, want: []string{"member1"}},
		{name: "age range", criteria: types.SearchCriteria{AgeGoe: types.Ptr(15), AgeLoe: types.Ptr(35)}, want: []string{"member2", "member3"}},
		{name: "exact age", criteria: types.SearchCriteria{AgeGoe: types.Ptr(30), AgeLoe: types.Ptr(30)}, want: []string{"member3"}},
		{name: "all fields", criteria: types.SearchCriteria{Name: types.Ptr("member4"), TeamName: types.Ptr("teamB"), AgeGoe: types.Ptr(40), AgeLoe: types.Ptr(40)}, want: []string{"member4"}},
		{name: "no match", criteria: types.SearchCriteria{Name: types.Ptr("member1"), TeamName: types.Ptr("teamB")}, want: []string{}},
		{name: "empty name matches nothing", criteria: types.SearchCriteria{Name: types.Ptr("")}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := repo.Search(context.Background(), &tt.criteria)
			require.NoError(t, err)
			assert.Equal(t, tt.want, usernames(rows))
		})
	}
}

func TestSearchMinAgeRowsAreAtLeastMin(t *testing.T) {
	repo, _, _ := newMemberRepo(t)

	for _, lo := range []int{0, 10, 11, 30, 41} {
		rows, err := repo.Search(context.Background(), &types.SearchCriteria{AgeGoe: types.Ptr(lo)})
		require.NoError(t, err)
		for _, a := range ages(rows) {
			assert.GreaterOrEqual(t, a, lo)
		}
	}
}

func TestSearchMaxAgeIsAnUpperBound(t *testing.T) {
	repo, _, _ := newMemberRepo(t)

	rows, err := repo.Search(context.Background(), &types.SearchCriteria{AgeLoe: types.Ptr(20)})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, ages(rows))
	for _, a := range ages(rows) {
		assert.LessOrEqual(t, a, 20)
	}
}

func TestSearchKeepsMembersWithoutTeam(t *testing.T) {
	repo, _, _ := newMemberRepo(t)
	loner := dbtest.AddMember(t, repo.(*memberRepository).db, "loner", 50, nil)

	rows, err := repo.Search(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	last := rows[4]
	assert.Equal(t, loner.ID, last.MemberID)
	assert.Equal(t, "loner", *last.Username)
	assert.Nil(t, last.TeamID)
	assert.Nil(t, last.TeamName)

	rows, err = repo.Search(context.Background(), &types.SearchCriteria{TeamName: types.Ptr("teamA")})
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2"}, usernames(rows))

	for _, s := range strategies {
		page, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(0, 2), s)
		require.NoError(t, err, s.Name())
		assert.Equal(t, int64(5), page.Total, s.Name())
	}
}

func TestSearchMemberWithoutName(t *testing.T) {
	repo, _, _ := newMemberRepo(t)
	r := repo.(*memberRepository)
	_, err := r.db.NewInsert().Model(&model.Member{Age: 60}).Exec(context.Background())
	require.NoError(t, err)

	rows, err := repo.Search(context.Background(), &types.SearchCriteria{AgeGoe: types.Ptr(60)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Username)
}

func TestSearchPageDeferredTotalShortFirstPageSkipsCount(t *testing.T) {
	repo, _, rec := newMemberRepo(t)

	page, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(0, 10), types.StrategyDeferredTotal)
	require.NoError(t, err)
	assert.Len(t, page.Content, 4)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, rec.Len())
	assert.Zero(t, countQueries(rec))
}

func TestSearchPageDeferredTotalFullPageCounts(t *testing.T) {
	repo, _, rec := newMemberRepo(t)

	page, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(0, 2), types.StrategyDeferredTotal)
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2"}, usernames(page.Content))
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages())
	assert.True(t, page.HasNext())
	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, 1, countQueries(rec))
}

func TestSearchPageDeferredTotalShortLastPageSkipsCount(t *testing.T) {
	repo, _, rec := newMemberRepo(t)

	page, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(1, 3), types.StrategyDeferredTotal)
	require.NoError(t, err)
	assert.Equal(t, []string{"member4"}, usernames(page.Content))
	assert.Equal(t, int64(4), page.Total)
	assert.True(t, page.IsLast())
	assert.Zero(t, countQueries(rec))
}

func TestSearchPageDeferredTotalEmptyPastEndCounts(t *testing.T) {
	repo, _, rec := newMemberRepo(t)

	page, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(5, 2), types.StrategyDeferredTotal)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.NotNil(t, page.Content)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, countQueries(rec))
}

func TestSearchPageAlwaysCountRunsCount(t *testing.T) {
	repo, _, rec := newMemberRepo(t)

	page, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(0, 10), types.StrategyAlwaysCount)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, 1, countQueries(rec))

	queries := rec.Queries()
	assert.NotContains(t, queries[0].Query, "count(*)", "content runs first")
}

func TestSearchPageSinglePassIsOneQuery(t *testing.T) {
	repo, _, rec := newMemberRepo(t)

	page, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(0, 2), types.StrategySinglePass)
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2"}, usernames(page.Content))
	assert.Equal(t, int64(4), page.Total)
	require.Equal(t, 1, rec.Len())
	assert.Contains(t, rec.Queries()[0].Query, "OVER ()")
}

func TestSearchPageSinglePassEmptyResult(t *testing.T) {
	repo, _, rec := newMemberRepo(t)
	none := &types.SearchCriteria{Name: types.Ptr("nobody")}

	page, err := repo.SearchPage(context.Background(), none, types.NewPageRequest(0, 2), types.StrategySinglePass)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Zero(t, page.Total)
	assert.Equal(t, 1, rec.Len())

	rec.Reset()
	page, err = repo.SearchPage(context.Background(), nil, types.NewPageRequest(3, 2), types.StrategySinglePass)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 1, countQueries(rec))
}

func TestSearchPageStrategiesAgree(t *testing.T) {
	repo, _, _ := newMemberRepo(t)

	criteria := []*types.SearchCriteria{
		nil,
		{AgeGoe: types.Ptr(15)},
		{AgeLoe: types.Ptr(30)},
		{TeamName: types.Ptr("teamA")},
		{TeamName: types.Ptr("teamB"), AgeGoe: types.Ptr(35)},
		{Name: types.Ptr("nobody")},
	}
	requests := []*types.PageRequest{
		types.NewPageRequest(0, 1),
		types.NewPageRequest(0, 2),
		types.NewPageRequest(1, 2),
		types.NewPageRequest(1, 3),
		types.NewPageRequest(0, 10),
		types.NewPageRequest(4, 1),
		types.NewPageRequest(7, 3),
		types.NewPageRequest(0, 3, types.Order{Property: "age", Direction: types.Desc}),
	}
	for ci, c := range criteria {
		for _, req := range requests {
			t.Run(fmt.Sprintf("%d %s", ci, req), func(t *testing.T) {
				var want *types.PageResult[*model.MemberTeam]
				for _, s := range strategies {
					page, err := repo.SearchPage(context.Background(), c, req, s)
					require.NoError(t, err, s.Name())
					assert.LessOrEqual(t, len(page.Content), req.GetPageSize())
					assert.GreaterOrEqual(t, page.Total, int64(len(page.Content)))
					if want == nil {
						want = page
						continue
					}
					assert.Equal(t, want.Total, page.Total, s.Name())
					assert.Equal(t, usernames(want.Content), usernames(page.Content), s.Name())
				}
			})
		}
	}
}

func TestSearchPageIsRepeatable(t *testing.T) {
	repo, _, _ := newMemberRepo(t)
	req := types.NewPageRequest(0, 3, types.Order{Property: "teamName", Direction: types.Desc})

	first, err := repo.SearchPage(context.Background(), nil, req, types.StrategyDeferredTotal)
	require.NoError(t, err)
	second, err := repo.SearchPage(context.Background(), nil, req, types.StrategyDeferredTotal)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"member3", "member4", "member1"}, usernames(first.Content))
}

func TestSearchPageSort(t *testing.T) {
	repo, _, _ := newMemberRepo(t)

	page, err := repo.SearchPage(context.Background(), nil,
		types.NewPageRequest(0, 4, types.Order{Property: "age", Direction: types.Desc}), types.StrategyAlwaysCount)
	require.NoError(t, err)
	assert.Equal(t, []int{40, 30, 20, 10}, ages(page.Content))

	page, err = repo.SearchPage(context.Background(), nil,
		types.NewPageRequest(0, 4, types.Order{Property: "username", Direction: types.Asc}), types.StrategyAlwaysCount)
	require.NoError(t, err)
	assert.Equal(t, []string{"member1", "member2", "member3", "member4"}, usernames(page.Content))
}

func TestSearchPageRejectsBadRequestBeforeQuerying(t *testing.T) {
	repo, _, rec := newMemberRepo(t)

	bad := []*types.PageRequest{
		nil,
		types.NewPageRequest(0, 0),
		types.NewPageRequest(0, -1),
		types.NewPageRequest(-1, 10),
		types.NewPageRequest(0, 10, types.Order{Property: "password", Direction: types.Asc}),
		types.NewPageRequest(0, 10, types.Order{Property: "age", Direction: "SIDEWAYS"}),
	}
	for _, req := range bad {
		for _, s := range strategies {
			_, err := repo.SearchPage(context.Background(), nil, req, s)
			assert.ErrorIs(t, err, ErrInvalidPageRequest)
		}
	}
	assert.Zero(t, rec.Len())
}

func TestSearchPageUnknownStrategy(t *testing.T) {
	repo, _, rec := newMemberRepo(t)

	_, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(0, 10), types.PageStrategy(42))
	assert.Error(t, err)
	assert.Zero(t, rec.Len())
}

func TestCountJoinsTeamOnlyWhenFiltered(t *testing.T) {
	repo, _, rec := newMemberRepo(t)

	_, err := repo.SearchPage(context.Background(), &types.SearchCriteria{AgeGoe: types.Ptr(0)},
		types.NewPageRequest(0, 1), types.StrategyAlwaysCount)
	require.NoError(t, err)
	queries := rec.Queries()
	require.Len(t, queries, 2)
	assert.Contains(t, queries[0].Query, "LEFT JOIN")
	assert.NotContains(t, queries[1].Query, "JOIN")

	rec.Reset()
	page, err := repo.SearchPage(context.Background(), &types.SearchCriteria{TeamName: types.Ptr("teamA")},
		types.NewPageRequest(0, 1), types.StrategyAlwaysCount)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	queries = rec.Queries()
	require.Len(t, queries, 2)
	assert.Contains(t, queries[1].Query, "LEFT JOIN")
}

func TestSearchPageWrapsStoreErrors(t *testing.T) {
	repo, _, _ := newMemberRepo(t)
	require.NoError(t, repo.(*memberRepository).db.(*bun.DB).Close())

	for _, s := range strategies {
		_, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(0, 10), s)
		var qe *QueryExecutionError
		require.True(t, errors.As(err, &qe), s.Name())
		assert.Equal(t, opContent, qe.Op)
		assert.Equal(t, database.ConnectionErr, qe.Kind)
		assert.NotNil(t, errors.Unwrap(err))
	}

	_, err := repo.Search(context.Background(), nil)
	var qe *QueryExecutionError
	assert.ErrorAs(t, err, &qe)
}

func TestSearchPageRecordsCountMetrics(t *testing.T) {
	repo, _, _ := newMemberRepo(t)
	name := types.StrategyDeferredTotal.Name()
	elided := metrics.CountQueries().WithLabelValues(name, metrics.OutcomeElided)
	executed := metrics.CountQueries().WithLabelValues(name, metrics.OutcomeExecuted)
	elidedBefore, executedBefore := testutil.ToFloat64(elided), testutil.ToFloat64(executed)

	_, err := repo.SearchPage(context.Background(), nil, types.NewPageRequest(0, 10), types.StrategyDeferredTotal)
	require.NoError(t, err)
	_, err = repo.SearchPage(context.Background(), nil, types.NewPageRequest(0, 2), types.StrategyDeferredTotal)
	require.NoError(t, err)

	assert.Equal(t, elidedBefore+1, testutil.ToFloat64(elided))
	assert.Equal(t, executedBefore+1, testutil.ToFloat64(executed))
}
