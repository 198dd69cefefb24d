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

// Package dbtest opens throwaway in-memory SQLite databases with the member
// and team tables created, for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/rostersearch/database"
	"github.com/tomoncle/rostersearch/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open returns a database private to t and a recorder of the statements run
// after the schema was created.
func Open(t testing.TB) (*bun.DB, *database.QueryRecorder) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	mm := database.NewMigrationManager(db, database.NopLogger())
	require.NoError(t, mm.RunMigrations(context.Background()))

	rec := database.NewQueryRecorder()
	db.AddQueryHook(rec)
	return db, rec
}

// Roster is the fixture stored by Seed.
type Roster struct {
	TeamA, TeamB *model.Team
	Members      []*model.Member
}

// Seed stores teamA and teamB with member1..member4 aged 10, 20, 30 and 40;
// the first two play for teamA and the others for teamB.
func Seed(t testing.TB, db bun.IDB) *Roster {
	t.Helper()
	ctx := context.Background()

	r := &Roster{TeamA: &model.Team{Name: "teamA"}, TeamB: &model.Team{Name: "teamB"}}
	_, err := db.NewInsert().Model(&[]*model.Team{r.TeamA, r.TeamB}).Exec(ctx)
	require.NoError(t, err)

	r.Members = []*model.Member{
		model.NewMember("member1", 10, r.TeamA),
		model.NewMember("member2", 20, r.TeamA),
		model.NewMember("member3", 30, r.TeamB),
		model.NewMember("member4", 40, r.TeamB),
	}
	_, err = db.NewInsert().Model(&r.Members).Exec(ctx)
	require.NoError(t, err)
	return r
}

// AddMember stores one more member, with no team when team is nil.
func AddMember(t testing.TB, db bun.IDB, name string, age int, team *model.Team) *model.Member {
	t.Helper()
	m := model.NewMember(name, age, team)
	_, err := db.NewInsert().Model(m).Exec(context.Background())
	require.NoError(t, err)
	return m
}
