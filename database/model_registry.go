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
	"sort"
	"sync"

	"github.com/uptrace/bun"
)

var defaultRegistry = &modelRegistry{}

// SQLModel is a table created on startup. Instance returns a bun model
// pointer; tables are created in ascending Priority so that referenced
// tables exist before the tables pointing at them.
type SQLModel interface {
	Instance() interface{}
	Priority() int
	ForeignKeys() []ForeignKey
}

// ForeignKey declares that Column of the model table references RefColumn of
// RefTable. OnDelete is the referential action, e.g. "SET NULL"; empty leaves
// the database default.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
}

// clause renders the key as a bun ForeignKey query whose identifiers are
// quoted by the dialect of the query it is applied to.
func (fk ForeignKey) clause() (string, []interface{}) {
	query := "(?) REFERENCES ? (?)"
	if fk.OnDelete != "" {
		query += " ON DELETE " + fk.OnDelete
	}
	return query, []interface{}{bun.Ident(fk.Column), bun.Ident(fk.RefTable), bun.Ident(fk.RefColumn)}
}

// ModelRegistry stores SQL models and hands them out by priority.
type ModelRegistry interface {
	Register(model SQLModel)
	Models() []SQLModel
}

type modelRegistry struct {
	mu     sync.RWMutex
	models []SQLModel
}

func (r *modelRegistry) Register(model SQLModel) {
	r.mu.Lock()
	r.models = append(r.models, model)
	r.mu.Unlock()
}

// Models returns a copy ordered by priority. Equal priorities keep their
// registration order.
func (r *modelRegistry) Models() []SQLModel {
	r.mu.RLock()
	sorted := append([]SQLModel(nil), r.models...)
	r.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return sorted
}

// ModelAdapter is the SQLModel built by NewModelAdapter.
type ModelAdapter struct {
	instance    interface{}
	priority    int
	foreignKeys []ForeignKey
}

func NewModelAdapter(instance interface{}, priority int, foreignKeys ...ForeignKey) SQLModel {
	return &ModelAdapter{instance: instance, priority: priority, foreignKeys: foreignKeys}
}

// Instance returns the bun model whose table gets created.
func (a *ModelAdapter) Instance() interface{} { return a.instance }

// Priority returns the creation order; lower values are created first.
func (a *ModelAdapter) Priority() int { return a.priority }

// ForeignKeys returns the references added when foreign keys are enabled.
func (a *ModelAdapter) ForeignKeys() []ForeignKey { return a.foreignKeys }

// GetRegisteredModels returns the models of the default registry by priority.
func GetRegisteredModels() []SQLModel {
	return defaultRegistry.Models()
}

// RegisteredModel adds a model to the default registry.
func RegisteredModel(model SQLModel) {
	defaultRegistry.Register(model)
}

// RegisteredModelInstances returns the bun models of the default registry, as
// passed to bun.DB.RegisterModel.
func RegisteredModelInstances() []interface{} {
	models := GetRegisteredModels()
	instances := make([]interface{}, 0, len(models))
	for _, m := range models {
		instances = append(instances, m.Instance())
	}
	return instances
}
