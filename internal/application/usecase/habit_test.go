package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"habitrpg/internal/clock"
	"habitrpg/internal/domain"
	"habitrpg/internal/infrastructure/repository"
	"habitrpg/internal/logger"
	"habitrpg/internal/progression"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is the start of an ISO week.
var monday = time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)

// movableClock lets a test walk through several days.
type movableClock struct {
	mu  sync.Mutex
	day time.Time
}

func (c *movableClock) Today() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

func (c *movableClock) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = c.day.AddDate(0, 0, 1)
}

func seedUser(t *testing.T, store domain.Store, name string) domain.User {
	t.Helper()
	u := progression.NewUser(domain.User{
		ID:       uuid.New(),
		Username: name,
		Email:    name + "@example.com",
		Password: "x",
	})
	require.NoError(t, store.Users().Create(context.Background(), &u))
	return u
}

func seedHabit(t *testing.T, uc *HabitUseCase, userID uuid.UUID, typ domain.HabitType, nature domain.HabitNature, xp int) uuid.UUID {
	t.Helper()
	id, err := uc.CreateHabit(context.Background(), userID, CreateHabitInput{
		Name:    string(typ) + " " + string(nature),
		Type:    typ,
		Nature:  nature,
		XPValue: xp,
	})
	require.NoError(t, err)
	return id
}

type fakeProgressCache struct {
	entries     map[string]domain.WeeklyProgress
	invalidated int
	// beforeFill runs between a reader's database load and its cache fill.
	beforeFill func()
}

func newFakeProgressCache() *fakeProgressCache {
	return &fakeProgressCache{entries: map[string]domain.WeeklyProgress{}}
}

func (c *fakeProgressCache) key(userID uuid.UUID, weekStart time.Time) string {
	return userID.String() + weekStart.Format(time.DateOnly)
}

func (c *fakeProgressCache) Get(_ context.Context, userID uuid.UUID, weekStart time.Time) (*domain.WeeklyProgress, bool, error) {
	p, ok := c.entries[c.key(userID, weekStart)]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *fakeProgressCache) Fill(_ context.Context, p *domain.WeeklyProgress) error {
	if hook := c.beforeFill; hook != nil {
		c.beforeFill = nil
		hook()
	}
	k := c.key(p.UserID, p.WeekStart)
	if _, ok := c.entries[k]; !ok {
		c.entries[k] = *p
	}
	return nil
}

func (c *fakeProgressCache) Put(_ context.Context, p *domain.WeeklyProgress) error {
	k := c.key(p.UserID, p.WeekStart)
	if cur, ok := c.entries[k]; ok && cur.HabitsCompleted >= p.HabitsCompleted {
		return nil
	}
	c.entries[k] = *p
	return nil
}

func (c *fakeProgressCache) Invalidate(_ context.Context, userID uuid.UUID, weekStart time.Time) error {
	c.invalidated++
	delete(c.entries, c.key(userID, weekStart))
	return nil
}

var errWeeklyWrite = errors.New("weekly write failed")

// failingWeeklyStore fails every weekly progress write made inside a
// transaction, after the habit and user rows were already written.
type failingWeeklyStore struct {
	*repository.MemoryStore
}

func (s failingWeeklyStore) Atomic(ctx context.Context, fn func(tx domain.Repositories) error) error {
	return s.MemoryStore.Atomic(ctx, func(tx domain.Repositories) error {
		return fn(failingWeeklyRepos{tx})
	})
}

type failingWeeklyRepos struct {
	domain.Repositories
}

func (r failingWeeklyRepos) Weekly() domain.WeeklyProgressRepository {
	return failingWeekly{r.Repositories.Weekly()}
}

type failingWeekly struct {
	domain.WeeklyProgressRepository
}

func (failingWeekly) Save(context.Context, *domain.WeeklyProgress) error {
	return errWeeklyWrite
}

func TestCreateHabit_Validation(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	user := seedUser(t, store, "ana")
	ctx := context.Background()

	cases := map[string]CreateHabitInput{
		"missing name":   {Type: domain.HabitGood, Nature: domain.NatureMental},
		"unknown type":   {Name: "x", Type: "neutral", Nature: domain.NatureMental},
		"unknown nature": {Name: "x", Type: domain.HabitGood, Nature: "spiritual"},
		"negative xp":    {Name: "x", Type: domain.HabitGood, Nature: domain.NatureMental, XPValue: -1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.CreateHabit(ctx, user.ID, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateHabit_DefaultsXPAndStartsFresh(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	user := seedUser(t, store, "ana")
	ctx := context.Background()

	id, err := uc.CreateHabit(ctx, user.ID, CreateHabitInput{
		Name:   "  Meditate ",
		Type:   domain.HabitGood,
		Nature: domain.NatureMental,
	})
	require.NoError(t, err)

	h, err := store.Habits().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Meditate", h.Name)
	assert.Equal(t, 10, h.XPValue)
	assert.False(t, h.DoneToday)
	assert.Nil(t, h.LastDone)
	assert.Zero(t, h.Streak)
}

func TestCreateHabit_UnknownUser(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())

	_, err := uc.CreateHabit(context.Background(), uuid.New(), CreateHabitInput{
		Name: "x", Type: domain.HabitGood, Nature: domain.NatureMental,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteHabit_GoodMental(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	user := seedUser(t, store, "ana")
	habitID := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NatureMental, 10)
	ctx := context.Background()

	res, err := uc.CompleteHabit(ctx, habitID, user.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.CompletionResult{
		XP:                 10,
		Level:              1,
		Rank:               "Unrepentant Slacker",
		Mana:               90,
		Health:             100,
		HabitStreak:        1,
		HabitLongestStreak: 1,
		UserStreak:         1,
		UserLongestStreak:  1,
	}, *res)

	u, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.DaysAlive)
	require.NotNil(t, u.LastActiveOn)
	assert.Equal(t, monday, *u.LastActiveOn)

	h, err := store.Habits().GetByID(ctx, habitID)
	require.NoError(t, err)
	assert.True(t, h.DoneToday)
	require.NotNil(t, h.LastDone)
	assert.Equal(t, monday, *h.LastDone)
}

func TestCompleteHabit_BadPhysicalFloorsXP(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	user := seedUser(t, store, "ana")
	habitID := seedHabit(t, uc, user.ID, domain.HabitBad, domain.NaturePhysical, 20)

	res, err := uc.CompleteHabit(context.Background(), habitID, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, res.XP)
	assert.Equal(t, 85, res.Health)
	assert.Equal(t, 100, res.Mana)
}

func TestCompleteHabit_TwiceSameDayLeavesStateUntouched(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	user := seedUser(t, store, "ana")
	habitID := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NatureMental, 10)
	ctx := context.Background()

	_, err := uc.CompleteHabit(ctx, habitID, user.ID)
	require.NoError(t, err)

	userAfterFirst, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	habitAfterFirst, err := store.Habits().GetByID(ctx, habitID)
	require.NoError(t, err)
	streakAfterFirst, err := store.Streaks().Get(ctx, user.ID)
	require.NoError(t, err)
	weekAfterFirst, err := store.Weekly().Get(ctx, user.ID, monday)
	require.NoError(t, err)

	_, err = uc.CompleteHabit(ctx, habitID, user.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyCompletedToday)

	userAfterSecond, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	habitAfterSecond, err := store.Habits().GetByID(ctx, habitID)
	require.NoError(t, err)
	streakAfterSecond, err := store.Streaks().Get(ctx, user.ID)
	require.NoError(t, err)
	weekAfterSecond, err := store.Weekly().Get(ctx, user.ID, monday)
	require.NoError(t, err)

	assert.Equal(t, userAfterFirst, userAfterSecond)
	assert.Equal(t, habitAfterFirst, habitAfterSecond)
	assert.Equal(t, streakAfterFirst, streakAfterSecond)
	assert.Equal(t, weekAfterFirst, weekAfterSecond)
}

func TestCompleteHabit_ConcurrentCallsSucceedOnce(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	user := seedUser(t, store, "ana")
	habitID := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NaturePhysical, 10)

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CompleteHabit(context.Background(), habitID, user.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyCompletedToday)
	}
	assert.Equal(t, 1, succeeded)

	u, err := store.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, u.XP)
}

func TestCompleteHabit_OwnershipAndMissing(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	owner := seedUser(t, store, "ana")
	other := seedUser(t, store, "bo")
	habitID := seedHabit(t, uc, owner.ID, domain.HabitGood, domain.NatureMental, 10)
	ctx := context.Background()

	_, err := uc.CompleteHabit(ctx, habitID, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = uc.CompleteHabit(ctx, uuid.New(), owner.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteHabit_StreakAcrossDays(t *testing.T) {
	store := repository.NewMemoryStore()
	clk := &movableClock{day: monday}
	uc := NewHabitUseCase(store, clk, nil, logger.Discard())
	user := seedUser(t, store, "ana")
	habitID := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NaturePhysical, 10)
	ctx := context.Background()

	const days = 5
	var res *domain.CompletionResult
	for i := range days {
		if i > 0 {
			clk.advance()
			_, err := uc.RunDailyReset(ctx, clk.Today())
			require.NoError(t, err)
		}
		var err error
		res, err = uc.CompleteHabit(ctx, habitID, user.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, days, res.HabitStreak)
	assert.Equal(t, days, res.HabitLongestStreak)
	assert.Equal(t, days, res.UserStreak)
	assert.Equal(t, days, res.UserLongestStreak)

	u, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, days, u.DaysAlive)
}

func TestCompleteHabit_DaysAliveCountsOncePerDay(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	user := seedUser(t, store, "ana")
	first := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NatureMental, 10)
	second := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NaturePhysical, 10)
	ctx := context.Background()

	_, err := uc.CompleteHabit(ctx, first, user.ID)
	require.NoError(t, err)
	res, err := uc.CompleteHabit(ctx, second, user.ID)
	require.NoError(t, err)

	u, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.DaysAlive)
	assert.Equal(t, 2, res.UserStreak)
}

func TestWeeklyProgress_NetXP(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday.AddDate(0, 0, 2)), nil, logger.Discard())
	user := seedUser(t, store, "ana")
	good := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NatureMental, 10)
	bad := seedHabit(t, uc, user.ID, domain.HabitBad, domain.NaturePhysical, 5)
	ctx := context.Background()

	_, err := uc.CompleteHabit(ctx, good, user.ID)
	require.NoError(t, err)
	_, err = uc.CompleteHabit(ctx, bad, user.ID)
	require.NoError(t, err)

	p, err := uc.GetWeeklyProgress(ctx, user.ID, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, monday, p.WeekStart)
	assert.Equal(t, 2, p.HabitsCompleted)
	assert.Equal(t, 1, p.GoodHabits)
	assert.Equal(t, 1, p.BadHabits)
	assert.Equal(t, 5, p.XPGained)
}

func TestWeeklyProgress_EmptyWeekIsZeroed(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	user := seedUser(t, store, "ana")

	p, err := uc.GetWeeklyProgress(context.Background(), user.ID, monday.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, domain.WeeklyProgress{UserID: user.ID, WeekStart: monday}, p)
}

func TestWeeklyProgress_CompletionRefreshesCache(t *testing.T) {
	store := repository.NewMemoryStore()
	cache := newFakeProgressCache()
	uc := NewHabitUseCase(store, clock.Fixed(monday), cache, logger.Discard())
	user := seedUser(t, store, "ana")
	habitID := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NatureMental, 10)
	ctx := context.Background()

	p, err := uc.GetWeeklyProgress(ctx, user.ID, monday)
	require.NoError(t, err)
	assert.Zero(t, p.HabitsCompleted)
	assert.Len(t, cache.entries, 1)

	_, err = uc.CompleteHabit(ctx, habitID, user.ID)
	require.NoError(t, err)
	assert.Zero(t, cache.invalidated)

	p, err = uc.GetWeeklyProgress(ctx, user.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, 1, p.HabitsCompleted)
	assert.Equal(t, 10, p.XPGained)
}

func TestWeeklyProgress_ReaderCannotOverwriteNewerCommit(t *testing.T) {
	store := repository.NewMemoryStore()
	cache := newFakeProgressCache()
	uc := NewHabitUseCase(store, clock.Fixed(monday), cache, logger.Discard())
	user := seedUser(t, store, "ana")
	habitID := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NatureMental, 10)
	ctx := context.Background()

	// The completion commits after the reader loaded the empty week.
	cache.beforeFill = func() {
		_, err := uc.CompleteHabit(ctx, habitID, user.ID)
		require.NoError(t, err)
	}

	stale, err := uc.GetWeeklyProgress(ctx, user.ID, monday)
	require.NoError(t, err)
	assert.Zero(t, stale.HabitsCompleted)

	p, err := uc.GetWeeklyProgress(ctx, user.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, 1, p.HabitsCompleted)
}

func TestCompleteHabit_FailedWriteLeavesNothingBehind(t *testing.T) {
	mem := repository.NewMemoryStore()
	store := failingWeeklyStore{mem}
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	user := seedUser(t, store, "ana")
	habitID := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NatureMental, 10)
	ctx := context.Background()

	userBefore, err := mem.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	habitBefore, err := mem.Habits().GetByID(ctx, habitID)
	require.NoError(t, err)

	_, err = uc.CompleteHabit(ctx, habitID, user.ID)
	require.ErrorIs(t, err, errWeeklyWrite)

	userAfter, err := mem.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	habitAfter, err := mem.Habits().GetByID(ctx, habitID)
	require.NoError(t, err)
	assert.Equal(t, userBefore, userAfter)
	assert.Equal(t, habitBefore, habitAfter)

	_, err = mem.Streaks().Get(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = mem.Weekly().Get(ctx, user.ID, monday)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteHabit(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	owner := seedUser(t, store, "ana")
	other := seedUser(t, store, "bo")
	habitID := seedHabit(t, uc, owner.ID, domain.HabitGood, domain.NatureMental, 10)
	ctx := context.Background()

	assert.ErrorIs(t, uc.DeleteHabit(ctx, habitID, other.ID), domain.ErrNotOwner)
	assert.ErrorIs(t, uc.DeleteHabit(ctx, uuid.New(), owner.ID), domain.ErrNotFound)

	require.NoError(t, uc.DeleteHabit(ctx, habitID, owner.ID))
	_, err := store.Habits().GetByID(ctx, habitID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListHabits_HidesDoneToday(t *testing.T) {
	store := repository.NewMemoryStore()
	uc := NewHabitUseCase(store, clock.Fixed(monday), nil, logger.Discard())
	user := seedUser(t, store, "ana")
	done := seedHabit(t, uc, user.ID, domain.HabitGood, domain.NatureMental, 10)
	seedHabit(t, uc, user.ID, domain.HabitGood, domain.NaturePhysical, 10)
	ctx := context.Background()

	_, err := uc.CompleteHabit(ctx, done, user.ID)
	require.NoError(t, err)

	all, err := uc.ListHabits(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := uc.ListHabits(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.NotEqual(t, done, pending[0].ID)
}
