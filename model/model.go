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

// Package model declares the bun entities searched by the repository and the
// flattened projection returned to callers.
package model

import (
	"github.com/tomoncle/rostersearch/database"
	"github.com/uptrace/bun"
)

const (
	TeamTable   = "team"
	TeamAlias   = "t"
	MemberTable = "member"
	MemberAlias = "m"
)

func init() {
	database.RegisteredModel(database.NewModelAdapter((*Team)(nil), 1))
	database.RegisteredModel(database.NewModelAdapter((*Member)(nil), 2, database.ForeignKey{
		Column:    "team_id",
		RefTable:  TeamTable,
		RefColumn: "id",
		OnDelete:  "SET NULL",
	}))
}

// Team owns any number of members through member.team_id.
type Team struct {
	bun.BaseModel `bun:"table:team,alias:t"`

	ID      int64     `bun:"id,pk,autoincrement" json:"id"`
	Name    string    `bun:"name,notnull" json:"name"`
	Members []*Member `bun:"rel:has-many,join:id=team_id" json:"-"`
}

// Member belongs to at most one team.
type Member struct {
	bun.BaseModel `bun:"table:member,alias:m"`

	ID     int64   `bun:"id,pk,autoincrement" json:"id"`
	Name   *string `bun:"name" json:"name"`
	Age    int     `bun:"age,notnull" json:"age"`
	TeamID *int64  `bun:"team_id" json:"teamId,omitempty"`
	Team   *Team   `bun:"rel:belongs-to,join:team_id=id" json:"team,omitempty"`
}

// NewMember builds an unsaved member, optionally attached to team.
func NewMember(name string, age int, team *Team) *Member {
	m := &Member{Name: &name, Age: age}
	m.ChangeTeam(team)
	return m
}

// ChangeTeam moves the member to team, or detaches it when team is nil.
func (m *Member) ChangeTeam(team *Team) {
	m.Team = team
	if team == nil {
		m.TeamID = nil
		return
	}
	id := team.ID
	m.TeamID = &id
	team.Members = append(team.Members, m)
}

// MemberTeam is the flattened member/team row produced by a search. The team
// fields are nil for members without a team.
type MemberTeam struct {
	MemberID int64   `bun:"member_id" json:"memberId"`
	Username *string `bun:"username" json:"username"`
	Age      int     `bun:"age" json:"age"`
	TeamID   *int64  `bun:"team_id" json:"teamId"`
	TeamName *string `bun:"team_name" json:"teamName"`
}
