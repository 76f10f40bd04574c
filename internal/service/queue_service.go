package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nudriin/antrian-rest-api/internal/apperr"
	"github.com/nudriin/antrian-rest-api/internal/dates"
	"github.com/nudriin/antrian-rest-api/internal/models"
	"github.com/nudriin/antrian-rest-api/internal/repository"
)

// QueueService is the ticket-numbering and status-transition core plus its
// read-side views. All day scoping uses the configured timezone's calendar
// day, never UTC midnight.
type QueueService struct {
	queues  repository.QueueRepository
	lockets repository.LocketRepository
	users   repository.UserRepository
	dates   *dates.Service
	log     zerolog.Logger
}

func NewQueueService(
	queues repository.QueueRepository,
	lockets repository.LocketRepository,
	users repository.UserRepository,
	d *dates.Service,
	log zerolog.Logger,
) *QueueService {
	return &QueueService{queues: queues, lockets: lockets, users: users, dates: d, log: log}
}

// requireLocket gates every locket-scoped operation. A nonexistent locket is
// 404 even when the aggregate over zero rows would be a valid zero.
func (s *QueueService) requireLocket(ctx context.Context, locketID int64) error {
	if locketID < 1 {
		return apperr.BadRequest("locket id must be a positive number")
	}
	l, err := s.lockets.FindByID(ctx, locketID)
	if err != nil {
		return err
	}
	if l == nil {
		return apperr.NotFound("locket not found")
	}
	return nil
}

// Draw allocates today's next queue number for the locket and persists an
// UNDONE ticket owned by the caller.
func (s *QueueService) Draw(ctx context.Context, locketID, userID int64) (*models.Queue, error) {
	if err := s.requireLocket(ctx, locketID); err != nil {
		return nil, err
	}

	q, err := s.queues.InsertNext(ctx, locketID, userID, s.dates.TodayRange(), s.dates.Now())
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("locket_id", locketID).
		Int64("user_id", userID).
		Int("queue_number", q.QueueNumber).
		Msg("queue drawn")
	return q, nil
}

func (s *QueueService) transition(ctx context.Context, queueID int64, status string) (*models.Queue, error) {
	if queueID < 1 {
		return nil, apperr.BadRequest("queue id must be a positive number")
	}
	q, err := s.queues.FindByID(ctx, queueID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperr.NotFound("queue not found")
	}
	// updated_at is overwritten even when the status does not change.
	return s.queues.UpdateStatus(ctx, queueID, status, s.dates.Now())
}

func (s *QueueService) MarkDone(ctx context.Context, queueID int64) (*models.Queue, error) {
	return s.transition(ctx, queueID, models.StatusDone)
}

// MarkPending parks a ticket. It leaves both the DONE and UNDONE views; no
// transition back to UNDONE is exposed.
func (s *QueueService) MarkPending(ctx context.Context, queueID int64) (*models.Queue, error) {
	return s.transition(ctx, queueID, models.StatusPending)
}

// ResetDay irreversibly deletes today's tickets for the locket. Tickets from
// prior days are untouched.
func (s *QueueService) ResetDay(ctx context.Context, locketID int64, caller *models.User) error {
	if caller == nil {
		return apperr.Unauthorized("Unauthorized")
	}
	u, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperr.Unauthorized("Unauthorized")
	}
	if err := s.requireLocket(ctx, locketID); err != nil {
		return err
	}

	n, err := s.queues.DeleteByLocketAndRange(ctx, locketID, s.dates.TodayRange())
	if err != nil {
		return err
	}
	s.log.Info().
		Int64("locket_id", locketID).
		Int64("user_id", caller.ID).
		Int64("deleted", n).
		Msg("queue reset")
	return nil
}

// ---------------------------------------------------------------------------
// Read-side views
// ---------------------------------------------------------------------------

func (s *QueueService) CountToday(ctx context.Context, locketID int64) (int, error) {
	if err := s.requireLocket(ctx, locketID); err != nil {
		return 0, err
	}
	return s.queues.CountByLocket(ctx, locketID, s.dates.TodayRange())
}

// Current is the number of the most-recently-updated DONE ticket today, 0
// when nothing has been served yet.
func (s *QueueService) Current(ctx context.Context, locketID int64) (int, error) {
	if err := s.requireLocket(ctx, locketID); err != nil {
		return 0, err
	}
	return s.queues.CurrentNumber(ctx, locketID, s.dates.TodayRange())
}

// Next is the smallest UNDONE number today, 0 when the queue is drained.
func (s *QueueService) Next(ctx context.Context, locketID int64) (int, error) {
	if err := s.requireLocket(ctx, locketID); err != nil {
		return 0, err
	}
	return s.queues.NextNumber(ctx, locketID, s.dates.TodayRange())
}

func (s *QueueService) Remaining(ctx context.Context, locketID int64) (int, error) {
	if err := s.requireLocket(ctx, locketID); err != nil {
		return 0, err
	}
	return s.queues.CountByLocketAndStatus(ctx, locketID, models.StatusUndone, s.dates.TodayRange())
}

func (s *QueueService) ListToday(ctx context.Context, locketID int64) ([]models.Queue, error) {
	if err := s.requireLocket(ctx, locketID); err != nil {
		return nil, err
	}
	out, err := s.queues.FindAllByLocket(ctx, locketID, s.dates.TodayRange())
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Queue{}
	}
	return out, nil
}

// Statistics returns global ticket counts for today, the ISO week (Mon-Sun),
// the calendar month, and the trailing six calendar months.
func (s *QueueService) Statistics(ctx context.Context) (*models.QueueStats, error) {
	var stats models.QueueStats
	var err error

	if stats.Today, err = s.queues.CountInRange(ctx, s.dates.TodayRange()); err != nil {
		return nil, err
	}
	if stats.ThisWeek, err = s.queues.CountInRange(ctx, s.dates.WeekRange()); err != nil {
		return nil, err
	}
	month := s.dates.MonthRange()
	if stats.ThisMonth, err = s.queues.CountInRange(ctx, month); err != nil {
		return nil, err
	}
	sixMonths := dates.Range{From: s.dates.MonthsBack(5), To: month.To}
	if stats.LastSixMonths, err = s.queues.CountInRange(ctx, sixMonths); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DailyCountsLastNDays buckets DONE tickets per calendar day over the
// trailing n days.
func (s *QueueService) DailyCountsLastNDays(ctx context.Context, n int) ([]models.DailyCount, error) {
	if n < 1 {
		return nil, apperr.BadRequest("day count must be a positive number")
	}
	out, err := s.queues.DailyDoneCounts(ctx, s.dates.DaysBack(n), s.dates.Location())
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.DailyCount{}
	}
	return out, nil
}

func (s *QueueService) DistributionByLocket(ctx context.Context) ([]models.LocketDistribution, error) {
	out, err := s.queues.DoneDistributionByLocket(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.LocketDistribution{}
	}
	return out, nil
}

func (s *QueueService) DailyCountsByLocketLastMonth(ctx context.Context) (models.LocketDailyCounts, error) {
	since := s.dates.DaysBack(30)
	return s.dailyCountsByLocket(ctx, &since)
}

func (s *QueueService) DailyCountsByLocketLastSixMonth(ctx context.Context) (models.LocketDailyCounts, error) {
	since := s.dates.MonthsBack(5)
	return s.dailyCountsByLocket(ctx, &since)
}

func (s *QueueService) DailyCountsByLocketAllTime(ctx context.Context) (models.LocketDailyCounts, error) {
	return s.dailyCountsByLocket(ctx, nil)
}

func (s *QueueService) dailyCountsByLocket(ctx context.Context, since *time.Time) (models.LocketDailyCounts, error) {
	rows, err := s.queues.DailyDoneCountsByLocket(ctx, since, s.dates.Location())
	if err != nil {
		return nil, err
	}
	out := models.LocketDailyCounts{}
	for _, row := range rows {
		byDate, ok := out[row.Name]
		if !ok {
			byDate = map[string]int{}
			out[row.Name] = byDate
		}
		byDate[row.Date] = row.Total
	}
	return out, nil
}
