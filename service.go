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

// Package rostersearch searches team members with optional filters and pages the
// result, choosing per call how the page total is obtained.
package rostersearch

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomoncle/rostersearch/database"
	"github.com/tomoncle/rostersearch/model"
	"github.com/tomoncle/rostersearch/repository"
	"github.com/tomoncle/rostersearch/types"
	"github.com/uptrace/bun"
)

type Service[T any] interface {
	// Get returns a single entity by its identifier.
	Get(ctx context.Context, id any) (*T, error)

	// All returns all entities.
	All(ctx context.Context) ([]*T, error)

	// List returns entities that match the provided filter.
	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	// Count returns the number of entities that match the provided filter.
	Count(ctx context.Context, filter *types.QueryFilter) (int64, error)

	// Page returns a paginated list of entities.
	Page(ctx context.Context, page *types.PageRequest, filter *types.QueryFilter) (*types.PageResult[*T], error)

	// Save inserts one or more new entities.
	Save(ctx context.Context, model ...*T) error

	// Update modifies an existing entity.
	Update(ctx context.Context, model *T) error

	// Delete removes an entity by its identifier.
	Delete(ctx context.Context, id any) error

	// SaveWithTx inserts entities within an existing transaction.
	SaveWithTx(ctx context.Context, tx *bun.Tx, model ...*T) error
}

type baseServiceImpl[T any] struct {
	db   func() *bun.DB
	repo repository.Repository[T]
	once sync.Once
}

// NewService returns a default Service implementation using the generic
// repository backed by the global database connection.
func NewService[T any]() Service[T] {
	return &baseServiceImpl[T]{db: database.GetDB}
}

// NewServiceWithDB is NewService over an explicit database.
func NewServiceWithDB[T any](db *bun.DB) Service[T] {
	return &baseServiceImpl[T]{db: func() *bun.DB { return db }}
}

func (s *baseServiceImpl[T]) baseRepo() repository.Repository[T] {
	s.once.Do(func() { s.repo = repository.NewRepository[T](s.db()) })
	return s.repo
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id any) (*T, error) {
	return s.baseRepo().GetOne(ctx, id)
}

func (s *baseServiceImpl[T]) All(ctx context.Context) ([]*T, error) {
	return s.baseRepo().GetAll(ctx)
}

func (s *baseServiceImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	return s.baseRepo().List(ctx, filter)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, filter *types.QueryFilter) (int64, error) {
	return s.baseRepo().Count(ctx, filter)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, page *types.PageRequest, filter *types.QueryFilter) (*types.PageResult[*T], error) {
	return s.baseRepo().Page(ctx, page, filter)
}

func (s *baseServiceImpl[T]) Save(ctx context.Context, model ...*T) error {
	return s.baseRepo().Create(ctx, model...)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, model *T) error {
	return s.baseRepo().Update(ctx, model)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id any) error {
	return s.baseRepo().Delete(ctx, id)
}

func (s *baseServiceImpl[T]) SaveWithTx(ctx context.Context, tx *bun.Tx, model ...*T) error {
	return s.baseRepo().CreateWithTx(ctx, tx, model...)
}

// Seed sizes of Init.
const (
	SeedMemberCount = 100
	SeedTeamA       = "teamA"
	SeedTeamB       = "teamB"
)

// MemberService exposes the member search and the seed routine.
type MemberService struct {
	db      func() *bun.DB
	logger  database.Logger
	members Service[model.Member]
	repo    repository.MemberRepository
	once    sync.Once
}

// NewMemberService returns a MemberService over the global database.
func NewMemberService() *MemberService {
	return &MemberService{
		db:      database.GetDB,
		logger:  database.GetLogger(),
		members: NewService[model.Member](),
	}
}

// NewMemberServiceWithDB returns a MemberService over db.
func NewMemberServiceWithDB(db *bun.DB) *MemberService {
	return &MemberService{
		db:      func() *bun.DB { return db },
		logger:  database.GetLogger(),
		members: NewServiceWithDB[model.Member](db),
	}
}

func (s *MemberService) memberRepo() repository.MemberRepository {
	s.once.Do(func() { s.repo = repository.NewMemberRepository(s.db(), s.logger) })
	return s.repo
}

// Search returns every member matching criteria, with its team.
func (s *MemberService) Search(ctx context.Context, criteria *types.SearchCriteria) ([]*model.MemberTeam, error) {
	return s.memberRepo().Search(ctx, criteria)
}

// SearchPage returns one page of members matching criteria.
func (s *MemberService) SearchPage(ctx context.Context, criteria *types.SearchCriteria, page *types.PageRequest, strategy types.PageStrategy) (*types.PageResult[*model.MemberTeam], error) {
	return s.memberRepo().SearchPage(ctx, criteria, page, strategy)
}

// SearchPageSimple reads content and total in a single query.
func (s *MemberService) SearchPageSimple(ctx context.Context, criteria *types.SearchCriteria, page *types.PageRequest) (*types.PageResult[*model.MemberTeam], error) {
	return s.SearchPage(ctx, criteria, page, types.StrategySinglePass)
}

// SearchPageCount always runs the count query.
func (s *MemberService) SearchPageCount(ctx context.Context, criteria *types.SearchCriteria, page *types.PageRequest) (*types.PageResult[*model.MemberTeam], error) {
	return s.SearchPage(ctx, criteria, page, types.StrategyAlwaysCount)
}

// SearchPageComplex runs the count query only when the content does not
// already settle the total.
func (s *MemberService) SearchPageComplex(ctx context.Context, criteria *types.SearchCriteria, page *types.PageRequest) (*types.PageResult[*model.MemberTeam], error) {
	return s.SearchPage(ctx, criteria, page, types.StrategyDeferredTotal)
}

// Init stores teamA, teamB and member0..member99, where memberN is N years old
// and plays for teamA when N is even and teamB otherwise. Nothing is written
// when members already exist.
func (s *MemberService) Init(ctx context.Context) error {
	n, err := s.members.Count(ctx, nil)
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if n > 0 {
		s.logger.Info("Seed skipped, members present", "count", n)
		return nil
	}

	err = s.db().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		teamA := &model.Team{Name: SeedTeamA}
		teamB := &model.Team{Name: SeedTeamB}
		if err := repository.NewRepository[model.Team](tx).CreateWithTx(ctx, &tx, teamA, teamB); err != nil {
			return fmt.Errorf("insert teams: %w", err)
		}
		members := make([]*model.Member, 0, SeedMemberCount)
		for i := 0; i < SeedMemberCount; i++ {
			team := teamA
			if i%2 != 0 {
				team = teamB
			}
			members = append(members, model.NewMember(fmt.Sprintf("member%d", i), i, team))
		}
		if err := s.members.SaveWithTx(ctx, &tx, members...); err != nil {
			return fmt.Errorf("insert members: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Seed data stored", "teams", 2, "members", SeedMemberCount)
	return nil
}
