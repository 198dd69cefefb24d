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

// QueryFilter describes a single WHERE condition and its argument values.
// Relation names the joined relation the condition reads from; it is empty
// when the condition only touches the root table.
type QueryFilter struct {
	Schema   string
	Args     []interface{}
	Relation string
}

// NewQueryFilter creates a new query filter with schema and args.
func NewQueryFilter(schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{Schema: schema, Args: args}
}

// NewRelationFilter creates a query filter that needs the given relation joined.
func NewRelationFilter(relation string, schema string, args ...interface{}) *QueryFilter {
	return &QueryFilter{Schema: schema, Args: args, Relation: relation}
}

// Ptr returns a pointer to v. Handy for building optional criteria.
func Ptr[T any](v T) *T {
	return &v
}
