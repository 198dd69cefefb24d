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

package database_test

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/rostersearch/database"
	_ "github.com/tomoncle/rostersearch/model"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func openSQLite(t *testing.T) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func memoryConfig() *database.Config {
	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = database.SQLiteMemory
	cfg.ConnectionConfig.HealthCheckInterval = 0
	return cfg
}

func TestRegisteredModelsOrder(t *testing.T) {
	models := database.GetRegisteredModels()
	require.GreaterOrEqual(t, len(models), 2)
	for i := 1; i < len(models); i++ {
		assert.LessOrEqual(t, models[i-1].Priority(), models[i].Priority())
	}
}

func TestMigrationsCreateTablesOnce(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	mm := database.NewMigrationManager(db, database.NopLogger())

	require.NoError(t, mm.RunMigrations(ctx))
	require.NoError(t, mm.RunMigrations(ctx))

	applied, err := mm.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "001", applied[0].Version)

	for _, table := range []string{"team", "member"} {
		var n int
		err := db.NewSelect().
			ColumnExpr("count(*)").
			TableExpr("sqlite_master").
			Where("type = 'table' AND name = ?", table).
			Scan(ctx, &n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestMigrationsWithoutForeignKeys(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	mm := database.NewMigrationManager(db, database.NopLogger())
	mm.SetForeignKeys(false)
	require.NoError(t, mm.RunMigrations(ctx))

	var ddl string
	err := db.NewSelect().
		ColumnExpr("sql").
		TableExpr("sqlite_master").
		Where("type = 'table' AND name = 'member'").
		Scan(ctx, &ddl)
	require.NoError(t, err)
	assert.NotContains(t, ddl, "REFERENCES")
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	manager := database.NewDatabaseManager(&cfg.ConnectionConfig)
	manager.SetLogger(database.NopLogger())

	status := manager.HealthCheck(ctx)
	assert.False(t, status.Healthy)
	assert.Error(t, manager.Ping(ctx))
	assert.Error(t, manager.RunMigrations(ctx))

	require.NoError(t, manager.Connect(ctx))
	require.NoError(t, manager.Connect(ctx))
	require.NoError(t, manager.Ping(ctx))
	require.NoError(t, manager.RunMigrations(ctx))
	require.NotNil(t, manager.GetDB())
	require.NotNil(t, manager.GetSQLDB())

	status = manager.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, manager.GetStats().MaxOpenConns)

	require.NoError(t, manager.Disconnect())
	assert.Nil(t, manager.GetDB())
	assert.Equal(t, &database.DBStats{}, manager.GetStats())
	require.NoError(t, manager.Disconnect())
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	cfg := memoryConfig()
	cfg.ConnectionConfig.Type = "oracle"
	_, err := database.NewDatabaseFactory().CreateFromConfig(cfg)
	assert.ErrorContains(t, err, "unsupported database type")

	_, err = database.NewDatabaseFactory().CreateFromConfig(nil)
	assert.Error(t, err)
}

func TestFactoryEnvOverrides(t *testing.T) {
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_NAME", database.SQLiteMemory)
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_SLOW_QUERY_TIME", "250ms")

	cfg := database.DefaultConfig()
	cfg.ConnectionConfig.Type = "oracle"
	f := database.NewDatabaseFactory()
	f.SetLogger(database.NopLogger())
	_, err := f.CreateFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.ConnectionConfig.Type)
	assert.Equal(t, database.SQLiteMemory, cfg.ConnectionConfig.DBName)
	assert.Equal(t, 7, cfg.ConnectionConfig.MaxOpenConns)
	assert.Equal(t, "250ms", cfg.ConnectionConfig.SlowQueryTime.String())
}

func TestInitDB(t *testing.T) {
	ctx := context.Background()
	_, err := database.InitDB(ctx, nil)
	assert.Error(t, err)

	db, err := database.InitDB(ctx, memoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB() })
	assert.Same(t, db, database.GetDB())
	assert.NotNil(t, database.GetDatabaseManager())
	assert.True(t, database.GetHealthStatus(ctx).Healthy)

	n, err := db.NewSelect().TableExpr("member").Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, database.CloseDB())
	assert.Nil(t, database.GetDB())
	assert.False(t, database.GetHealthStatus(ctx).Healthy)
	assert.Equal(t, &database.DBStats{}, database.GetDatabaseStats())
}

func TestQueryHooks(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	var buf bytes.Buffer
	rec := database.NewQueryRecorder()
	db.AddQueryHook(database.NewQueryHook(true, &buf))
	db.AddQueryHook(rec)

	t.Setenv("BUNDEBUG", "2")
	_, err := db.ExecContext(ctx, "SELECT 1")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "SELECT 1")

	buf.Reset()
	t.Setenv("BUNDEBUG", "0")
	_, err = db.ExecContext(ctx, "SELECT 2")
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	t.Setenv("BUNDEBUG", "1")
	_, err = db.ExecContext(ctx, "SELEC 3")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "SELEC 3")

	queries := rec.Queries()
	require.Equal(t, 3, rec.Len())
	assert.Equal(t, "SELECT 2", queries[1].Query)
	assert.Error(t, queries[2].Err)
	rec.Reset()
	assert.Zero(t, rec.Len())
}
