// Package memory holds in-memory implementations of the repository
// interfaces. They mirror the SQL semantics closely enough for service-level
// tests to run without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nudriin/antrian-rest-api/internal/dates"
	"github.com/nudriin/antrian-rest-api/internal/models"
)

type LocketRepo struct {
	mu     sync.Mutex
	byID   map[int64]models.Locket
	nextID int64
}

func NewLocketRepo() *LocketRepo {
	return &LocketRepo{byID: map[int64]models.Locket{}, nextID: 1}
}

func (r *LocketRepo) Create(_ context.Context, name string) (*models.Locket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := models.Locket{ID: r.nextID, Name: name, CreatedAt: time.Now()}
	r.byID[l.ID] = l
	r.nextID++
	return &l, nil
}

func (r *LocketRepo) CountByName(_ context.Context, name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.byID {
		if l.Name == name {
			n++
		}
	}
	return n, nil
}

func (r *LocketRepo) FindAll(_ context.Context) ([]models.Locket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Locket, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LocketRepo) FindByName(_ context.Context, name string) (*models.Locket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.byID {
		if l.Name == name {
			l := l
			return &l, nil
		}
	}
	return nil, nil
}

func (r *LocketRepo) FindByID(_ context.Context, id int64) (*models.Locket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.byID[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (r *LocketRepo) Update(_ context.Context, id int64, name string) (*models.Locket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	l.Name = name
	r.byID[id] = l
	return &l, nil
}

func (r *LocketRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

type QueueRepo struct {
	mu      sync.Mutex
	byID    map[int64]models.Queue
	nextID  int64
	lockets *LocketRepo // name lookup for distribution views
}

func NewQueueRepo(lockets *LocketRepo) *QueueRepo {
	return &QueueRepo{byID: map[int64]models.Queue{}, nextID: 1, lockets: lockets}
}

// Seed inserts a ticket verbatim; tests use it to plant rows from prior days.
func (r *QueueRepo) Seed(q models.Queue) models.Queue {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q.ID == 0 {
		q.ID = r.nextID
	}
	if q.ID >= r.nextID {
		r.nextID = q.ID + 1
	}
	r.byID[q.ID] = q
	return q
}

// Size is the total row count across all days.
func (r *QueueRepo) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *QueueRepo) InsertNext(_ context.Context, locketID, userID int64, day dates.Range, now time.Time) (*models.Queue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	last := 0
	for _, q := range r.byID {
		if q.LocketID == locketID && day.Contains(q.CreatedAt) && q.QueueNumber > last {
			last = q.QueueNumber
		}
	}
	q := models.Queue{
		ID:          r.nextID,
		QueueNumber: last + 1,
		Status:      models.StatusUndone,
		LocketID:    locketID,
		UserID:      userID,
		CreatedAt:   now,
	}
	r.byID[q.ID] = q
	r.nextID++
	return &q, nil
}

func (r *QueueRepo) FindByID(_ context.Context, id int64) (*models.Queue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.byID[id]; ok {
		return &q, nil
	}
	return nil, nil
}

func (r *QueueRepo) UpdateStatus(_ context.Context, id int64, status string, at time.Time) (*models.Queue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	q.Status = status
	q.UpdatedAt = &at
	r.byID[id] = q
	return &q, nil
}

func (r *QueueRepo) FindAllByLocket(_ context.Context, locketID int64, day dates.Range) ([]models.Queue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Queue
	for _, q := range r.byID {
		if q.LocketID == locketID && day.Contains(q.CreatedAt) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *QueueRepo) CountByLocket(_ context.Context, locketID int64, day dates.Range) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, q := range r.byID {
		if q.LocketID == locketID && day.Contains(q.CreatedAt) {
			n++
		}
	}
	return n, nil
}

func (r *QueueRepo) CountByLocketAndStatus(_ context.Context, locketID int64, status string, day dates.Range) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, q := range r.byID {
		if q.LocketID == locketID && q.Status == status && day.Contains(q.CreatedAt) {
			n++
		}
	}
	return n, nil
}

func (r *QueueRepo) CurrentNumber(_ context.Context, locketID int64, day dates.Range) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	num := 0
	var latest time.Time
	for _, q := range r.byID {
		if q.LocketID != locketID || q.Status != models.StatusDone || !day.Contains(q.CreatedAt) || q.UpdatedAt == nil {
			continue
		}
		if num == 0 || q.UpdatedAt.After(latest) {
			num = q.QueueNumber
			latest = *q.UpdatedAt
		}
	}
	return num, nil
}

func (r *QueueRepo) NextNumber(_ context.Context, locketID int64, day dates.Range) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	num := 0
	for _, q := range r.byID {
		if q.LocketID != locketID || q.Status != models.StatusUndone || !day.Contains(q.CreatedAt) {
			continue
		}
		if num == 0 || q.QueueNumber < num {
			num = q.QueueNumber
		}
	}
	return num, nil
}

func (r *QueueRepo) DeleteByLocketAndRange(_ context.Context, locketID int64, day dates.Range) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, q := range r.byID {
		if q.LocketID == locketID && day.Contains(q.CreatedAt) {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *QueueRepo) DeleteByLocket(_ context.Context, locketID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, q := range r.byID {
		if q.LocketID == locketID {
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *QueueRepo) CountInRange(_ context.Context, rng dates.Range) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, q := range r.byID {
		if rng.Contains(q.CreatedAt) {
			n++
		}
	}
	return n, nil
}

func (r *QueueRepo) DailyDoneCounts(_ context.Context, since time.Time, loc *time.Location) ([]models.DailyCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDate := map[string]int{}
	for _, q := range r.byID {
		if q.Status == models.StatusDone && !q.CreatedAt.Before(since) {
			byDate[q.CreatedAt.In(loc).Format(time.DateOnly)]++
		}
	}
	out := make([]models.DailyCount, 0, len(byDate))
	for d, n := range byDate {
		out = append(out, models.DailyCount{Date: d, Total: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *QueueRepo) DoneDistributionByLocket(_ context.Context) ([]models.LocketDistribution, error) {
	lockets, _ := r.lockets.FindAll(context.Background())
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.LocketDistribution, 0, len(lockets))
	for _, l := range lockets {
		n := 0
		for _, q := range r.byID {
			if q.LocketID == l.ID && q.Status == models.StatusDone {
				n++
			}
		}
		out = append(out, models.LocketDistribution{Name: l.Name, Total: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *QueueRepo) DailyDoneCountsByLocket(_ context.Context, since *time.Time, loc *time.Location) ([]models.LocketDailyRow, error) {
	names := map[int64]string{}
	lockets, _ := r.lockets.FindAll(context.Background())
	for _, l := range lockets {
		names[l.ID] = l.Name
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	type key struct {
		name string
		date string
	}
	buckets := map[key]int{}
	for _, q := range r.byID {
		if q.Status != models.StatusDone {
			continue
		}
		if since != nil && q.CreatedAt.Before(*since) {
			continue
		}
		name, ok := names[q.LocketID]
		if !ok {
			continue
		}
		buckets[key{name, q.CreatedAt.In(loc).Format(time.DateOnly)}]++
	}
	out := make([]models.LocketDailyRow, 0, len(buckets))
	for k, n := range buckets {
		out = append(out, models.LocketDailyRow{Name: k.name, Date: k.date, Total: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

type UserRepo struct {
	mu     sync.Mutex
	byID   map[int64]models.User
	hashes map[int64]string
	nextID int64
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: map[int64]models.User{}, hashes: map[int64]string{}, nextID: 1}
}

func (r *UserRepo) Create(_ context.Context, email, name, role, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := models.User{ID: r.nextID, Email: email, Name: name, Role: role}
	r.byID[u.ID] = u
	r.hashes[u.ID] = passwordHash
	r.nextID++
	return &u, nil
}

func (r *UserRepo) CountByEmail(_ context.Context, email string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.byID {
		if u.Email == email {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*models.User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			u := u
			return &u, r.hashes[u.ID], nil
		}
	}
	return nil, "", nil
}

func (r *UserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepo) FindAll(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	delete(r.hashes, id)
	return nil
}

func (r *UserRepo) EmailsByRole(_ context.Context, role string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, u := range r.byID {
		if u.Role == role {
			out = append(out, u.Email)
		}
	}
	sort.Strings(out)
	return out, nil
}
