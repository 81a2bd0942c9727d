package repository

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"habitrpg/internal/domain"

	"github.com/google/uuid"
)

type weekKey struct {
	userID    uuid.UUID
	weekStart time.Time
}

type memoryState struct {
	users     map[uuid.UUID]domain.User
	habits    map[uuid.UUID]domain.Habit
	streaks   map[uuid.UUID]domain.UserStreak
	weekly    map[weekKey]domain.WeeklyProgress
	rewards   map[uint]domain.Reward
	purchases []domain.UserReward
	avatars   map[int]domain.Avatar

	nextRewardID   uint
	nextPurchaseID uint
}

func newMemoryState() *memoryState {
	return &memoryState{
		users:   make(map[uuid.UUID]domain.User),
		habits:  make(map[uuid.UUID]domain.Habit),
		streaks: make(map[uuid.UUID]domain.UserStreak),
		weekly:  make(map[weekKey]domain.WeeklyProgress),
		rewards: make(map[uint]domain.Reward),
		avatars: make(map[int]domain.Avatar),
	}
}

func (s *memoryState) clone() *memoryState {
	c := &memoryState{
		users:          make(map[uuid.UUID]domain.User, len(s.users)),
		habits:         make(map[uuid.UUID]domain.Habit, len(s.habits)),
		streaks:        make(map[uuid.UUID]domain.UserStreak, len(s.streaks)),
		weekly:         make(map[weekKey]domain.WeeklyProgress, len(s.weekly)),
		rewards:        make(map[uint]domain.Reward, len(s.rewards)),
		purchases:      append([]domain.UserReward(nil), s.purchases...),
		avatars:        make(map[int]domain.Avatar, len(s.avatars)),
		nextRewardID:   s.nextRewardID,
		nextPurchaseID: s.nextPurchaseID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.habits {
		c.habits[k] = v
	}
	for k, v := range s.streaks {
		c.streaks[k] = v
	}
	for k, v := range s.weekly {
		c.weekly[k] = v
	}
	for k, v := range s.rewards {
		c.rewards[k] = v
	}
	for k, v := range s.avatars {
		c.avatars[k] = v
	}
	return c
}

// MemoryStore is a domain.Store kept in process memory. Atomic works on a
// copy of the state and publishes it only when fn succeeds; transactions
// are serialized.
type MemoryStore struct {
	mu    sync.Mutex
	state *memoryState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

func (s *MemoryStore) Atomic(ctx context.Context, fn func(tx domain.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.clone()
	if err := fn(&memoryRepos{state: draft}); err != nil {
		return err
	}
	s.state = draft
	return nil
}

func (s *MemoryStore) repos() *memoryRepos {
	return &memoryRepos{state: nil, store: s}
}

func (s *MemoryStore) Users() domain.UserRepository { return memoryUsers{s.repos()} }
func (s *MemoryStore) Habits() domain.HabitRepository { return memoryHabits{s.repos()} }
func (s *MemoryStore) Streaks() domain.StreakRepository { return memoryStreaks{s.repos()} }
func (s *MemoryStore) Weekly() domain.WeeklyProgressRepository { return memoryWeekly{s.repos()} }
func (s *MemoryStore) Rewards() domain.RewardRepository { return memoryRewards{s.repos()} }
func (s *MemoryStore) Avatars() domain.AvatarRepository { return memoryAvatars{s.repos()} }

// memoryRepos is bound either to a transaction draft (state set) or to the
// live store (store set), in which case every call takes the store lock.
type memoryRepos struct {
	state *memoryState
	store *MemoryStore
}

func (r *memoryRepos) with(ctx context.Context, fn func(st *memoryState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.state != nil {
		return fn(r.state)
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(r.store.state)
}

func (r *memoryRepos) Users() domain.UserRepository { return memoryUsers{r} }
func (r *memoryRepos) Habits() domain.HabitRepository { return memoryHabits{r} }
func (r *memoryRepos) Streaks() domain.StreakRepository { return memoryStreaks{r} }
func (r *memoryRepos) Weekly() domain.WeeklyProgressRepository { return memoryWeekly{r} }
func (r *memoryRepos) Rewards() domain.RewardRepository { return memoryRewards{r} }
func (r *memoryRepos) Avatars() domain.AvatarRepository { return memoryAvatars{r} }

type memoryUsers struct{ *memoryRepos }

func (r memoryUsers) Create(ctx context.Context, u *domain.User) error {
	return r.with(ctx, func(st *memoryState) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username {
				return domain.ErrAlreadyExists
			}
		}
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		if _, ok := st.users[u.ID]; ok {
			return domain.ErrAlreadyExists
		}
		now := time.Now()
		u.CreatedAt, u.UpdatedAt = now, now
		st.users[u.ID] = *u
		return nil
	})
}

func (r memoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var out domain.User
	err := r.with(ctx, func(st *memoryState) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memoryUsers) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r memoryUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out *domain.User
	err := r.with(ctx, func(st *memoryState) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				found := u
				out = &found
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r memoryUsers) Update(ctx context.Context, u *domain.User) error {
	return r.with(ctx, func(st *memoryState) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrNotFound
		}
		u.UpdatedAt = time.Now()
		st.users[u.ID] = *u
		return nil
	})
}

func (r memoryUsers) ListPage(ctx context.Context, after uuid.UUID, limit int) ([]domain.User, error) {
	var out []domain.User
	err := r.with(ctx, func(st *memoryState) error {
		for id, u := range st.users {
			if bytes.Compare(id[:], after[:]) > 0 {
				out = append(out, u)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r memoryUsers) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	var out []domain.User
	err := r.with(ctx, func(st *memoryState) error {
		for _, u := range st.users {
			out = append(out, u)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].XP != out[j].XP {
			return out[i].XP > out[j].XP
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

type memoryHabits struct{ *memoryRepos }

func (r memoryHabits) Create(ctx context.Context, h *domain.Habit) error {
	return r.with(ctx, func(st *memoryState) error {
		if _, ok := st.users[h.UserID]; !ok {
			return domain.ErrNotFound
		}
		if h.ID == uuid.Nil {
			h.ID = uuid.New()
		}
		h.CreatedAt = time.Now()
		st.habits[h.ID] = *h
		return nil
	})
}

func (r memoryHabits) GetByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	var out domain.Habit
	err := r.with(ctx, func(st *memoryState) error {
		h, ok := st.habits[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memoryHabits) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	return r.GetByID(ctx, id)
}

func (r memoryHabits) ListByUser(ctx context.Context, userID uuid.UUID, includeDoneToday bool) ([]domain.Habit, error) {
	var out []domain.Habit
	err := r.with(ctx, func(st *memoryState) error {
		for _, h := range st.habits {
			if h.UserID != userID || (h.DoneToday && !includeDoneToday) {
				continue
			}
			out = append(out, h)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r memoryHabits) Update(ctx context.Context, h *domain.Habit) error {
	return r.with(ctx, func(st *memoryState) error {
		if _, ok := st.habits[h.ID]; !ok {
			return domain.ErrNotFound
		}
		st.habits[h.ID] = *h
		return nil
	})
}

func (r memoryHabits) Delete(ctx context.Context, id uuid.UUID) error {
	return r.with(ctx, func(st *memoryState) error {
		if _, ok := st.habits[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.habits, id)
		return nil
	})
}

func (r memoryHabits) ClearDoneToday(ctx context.Context) (int64, error) {
	var n int64
	err := r.with(ctx, func(st *memoryState) error {
		for id, h := range st.habits {
			if h.DoneToday {
				h.DoneToday = false
				st.habits[id] = h
				n++
			}
		}
		return nil
	})
	return n, err
}

type memoryStreaks struct{ *memoryRepos }

func (r memoryStreaks) Get(ctx context.Context, userID uuid.UUID) (*domain.UserStreak, error) {
	var out domain.UserStreak
	err := r.with(ctx, func(st *memoryState) error {
		s, ok := st.streaks[userID]
		if !ok {
			return domain.ErrNotFound
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memoryStreaks) Save(ctx context.Context, s *domain.UserStreak) error {
	return r.with(ctx, func(st *memoryState) error {
		if _, ok := st.users[s.UserID]; !ok {
			return domain.ErrNotFound
		}
		st.streaks[s.UserID] = *s
		return nil
	})
}

type memoryWeekly struct{ *memoryRepos }

func (r memoryWeekly) Get(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*domain.WeeklyProgress, error) {
	var out domain.WeeklyProgress
	err := r.with(ctx, func(st *memoryState) error {
		p, ok := st.weekly[weekKey{userID, weekStart}]
		if !ok {
			return domain.ErrNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memoryWeekly) Save(ctx context.Context, p *domain.WeeklyProgress) error {
	return r.with(ctx, func(st *memoryState) error {
		if _, ok := st.users[p.UserID]; !ok {
			return domain.ErrNotFound
		}
		st.weekly[weekKey{p.UserID, p.WeekStart}] = *p
		return nil
	})
}

type memoryRewards struct{ *memoryRepos }

func (r memoryRewards) Create(ctx context.Context, reward *domain.Reward) error {
	return r.with(ctx, func(st *memoryState) error {
		if reward.ID == 0 {
			st.nextRewardID++
			reward.ID = st.nextRewardID
		} else if _, ok := st.rewards[reward.ID]; ok {
			return domain.ErrAlreadyExists
		}
		st.nextRewardID = max(st.nextRewardID, reward.ID)
		st.rewards[reward.ID] = *reward
		return nil
	})
}

func (r memoryRewards) List(ctx context.Context) ([]domain.Reward, error) {
	var out []domain.Reward
	err := r.with(ctx, func(st *memoryState) error {
		for _, rw := range st.rewards {
			out = append(out, rw)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r memoryRewards) GetByID(ctx context.Context, id uint) (*domain.Reward, error) {
	var out domain.Reward
	err := r.with(ctx, func(st *memoryState) error {
		rw, ok := st.rewards[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = rw
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memoryRewards) RecordPurchase(ctx context.Context, p *domain.UserReward) error {
	return r.with(ctx, func(st *memoryState) error {
		if _, ok := st.users[p.UserID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.rewards[p.RewardID]; !ok {
			return domain.ErrNotFound
		}
		st.nextPurchaseID++
		p.ID = st.nextPurchaseID
		st.purchases = append(st.purchases, *p)
		return nil
	})
}

func (r memoryRewards) ListPurchases(ctx context.Context, userID uuid.UUID) ([]domain.UserReward, error) {
	var out []domain.UserReward
	err := r.with(ctx, func(st *memoryState) error {
		for i := len(st.purchases) - 1; i >= 0; i-- {
			if st.purchases[i].UserID == userID {
				out = append(out, st.purchases[i])
			}
		}
		return nil
	})
	return out, err
}

type memoryAvatars struct{ *memoryRepos }

func (r memoryAvatars) Create(ctx context.Context, a *domain.Avatar) error {
	return r.with(ctx, func(st *memoryState) error {
		if _, ok := st.avatars[a.ID]; ok {
			return domain.ErrAlreadyExists
		}
		st.avatars[a.ID] = *a
		return nil
	})
}

func (r memoryAvatars) List(ctx context.Context) ([]domain.Avatar, error) {
	var out []domain.Avatar
	err := r.with(ctx, func(st *memoryState) error {
		for _, a := range st.avatars {
			out = append(out, a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r memoryAvatars) GetByID(ctx context.Context, id int) (*domain.Avatar, error) {
	var out domain.Avatar
	err := r.with(ctx, func(st *memoryState) error {
		a, ok := st.avatars[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
