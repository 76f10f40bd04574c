package postgres

import (
	"context"
	"time"

	"github.com/nudriin/antrian-rest-api/internal/dates"
	"github.com/nudriin/antrian-rest-api/internal/models"
	"github.com/nudriin/antrian-rest-api/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QueueRepo struct{ db *pgxpool.Pool }

func NewQueueRepo(db *pgxpool.Pool) repository.QueueRepository { return &QueueRepo{db: db} }

// InsertNext allocates MAX(queue_number)+1 within the day window and inserts
// the ticket in one transaction. The FOR UPDATE on the locket row serializes
// concurrent draws against the same locket so numbers stay gapless.
func (r *QueueRepo) InsertNext(ctx context.Context, locketID, userID int64, day dates.Range, now time.Time) (*models.Queue, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var lockID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM lockets WHERE id=$1 FOR UPDATE`, locketID).Scan(&lockID); err != nil {
		return nil, err
	}

	var last int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(queue_number), 0)
		FROM queues
		WHERE locket_id=$1 AND created_at >= $2 AND created_at < $3`,
		locketID, day.From, day.To).Scan(&last)
	if err != nil {
		return nil, err
	}

	var q models.Queue
	err = tx.QueryRow(ctx, `
		INSERT INTO queues (queue_number, status, locket_id, user_id, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, queue_number, status, locket_id, user_id, created_at, updated_at`,
		last+1, models.StatusUndone, locketID, userID, now).
		Scan(&q.ID, &q.QueueNumber, &q.Status, &q.LocketID, &q.UserID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QueueRepo) FindByID(ctx context.Context, id int64) (*models.Queue, error) {
	var q models.Queue
	err := r.db.QueryRow(ctx, `
		SELECT id, queue_number, status, locket_id, user_id, created_at, updated_at
		FROM queues WHERE id=$1`, id).
		Scan(&q.ID, &q.QueueNumber, &q.Status, &q.LocketID, &q.UserID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *QueueRepo) UpdateStatus(ctx context.Context, id int64, status string, at time.Time) (*models.Queue, error) {
	var q models.Queue
	err := r.db.QueryRow(ctx, `
		UPDATE queues SET status=$1, updated_at=$2 WHERE id=$3
		RETURNING id, queue_number, status, locket_id, user_id, created_at, updated_at`,
		status, at, id).
		Scan(&q.ID, &q.QueueNumber, &q.Status, &q.LocketID, &q.UserID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *QueueRepo) FindAllByLocket(ctx context.Context, locketID int64, day dates.Range) ([]models.Queue, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, queue_number, status, locket_id, user_id, created_at, updated_at
		FROM queues
		WHERE locket_id=$1 AND created_at >= $2 AND created_at < $3
		ORDER BY id DESC`,
		locketID, day.From, day.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Queue
	for rows.Next() {
		var q models.Queue
		if err := rows.Scan(&q.ID, &q.QueueNumber, &q.Status, &q.LocketID, &q.UserID, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *QueueRepo) CountByLocket(ctx context.Context, locketID int64, day dates.Range) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM queues
		WHERE locket_id=$1 AND created_at >= $2 AND created_at < $3`,
		locketID, day.From, day.To).Scan(&n)
	return n, err
}

func (r *QueueRepo) CountByLocketAndStatus(ctx context.Context, locketID int64, status string, day dates.Range) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM queues
		WHERE locket_id=$1 AND status=$2 AND created_at >= $3 AND created_at < $4`,
		locketID, status, day.From, day.To).Scan(&n)
	return n, err
}

func (r *QueueRepo) CurrentNumber(ctx context.Context, locketID int64, day dates.Range) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE((
			SELECT queue_number FROM queues
			WHERE locket_id=$1 AND status=$2 AND created_at >= $3 AND created_at < $4
			ORDER BY updated_at DESC NULLS LAST
			LIMIT 1
		), 0)`,
		locketID, models.StatusDone, day.From, day.To).Scan(&n)
	return n, err
}

func (r *QueueRepo) NextNumber(ctx context.Context, locketID int64, day dates.Range) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MIN(queue_number), 0) FROM queues
		WHERE locket_id=$1 AND status=$2 AND created_at >= $3 AND created_at < $4`,
		locketID, models.StatusUndone, day.From, day.To).Scan(&n)
	return n, err
}

func (r *QueueRepo) DeleteByLocketAndRange(ctx context.Context, locketID int64, day dates.Range) (int64, error) {
	ct, err := r.db.Exec(ctx, `
		DELETE FROM queues
		WHERE locket_id=$1 AND created_at >= $2 AND created_at < $3`,
		locketID, day.From, day.To)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *QueueRepo) DeleteByLocket(ctx context.Context, locketID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM queues WHERE locket_id=$1`, locketID)
	return err
}

func (r *QueueRepo) CountInRange(ctx context.Context, rng dates.Range) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM queues WHERE created_at >= $1 AND created_at < $2`,
		rng.From, rng.To).Scan(&n)
	return n, err
}

// DailyDoneCounts buckets DONE tickets by calendar date in the given zone.
func (r *QueueRepo) DailyDoneCounts(ctx context.Context, since time.Time, loc *time.Location) ([]models.DailyCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at AT TIME ZONE $1, 'YYYY-MM-DD') AS date, COUNT(*) AS total
		FROM queues
		WHERE status=$2 AND created_at >= $3
		GROUP BY 1
		ORDER BY 1 ASC`,
		loc.String(), models.StatusDone, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DailyCount
	for rows.Next() {
		var d models.DailyCount
		if err := rows.Scan(&d.Date, &d.Total); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *QueueRepo) DoneDistributionByLocket(ctx context.Context) ([]models.LocketDistribution, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.name, COUNT(q.id) AS total
		FROM lockets l
		LEFT JOIN queues q ON q.locket_id = l.id AND q.status = $1
		GROUP BY l.name
		ORDER BY l.name ASC`,
		models.StatusDone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LocketDistribution
	for rows.Next() {
		var d models.LocketDistribution
		if err := rows.Scan(&d.Name, &d.Total); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *QueueRepo) DailyDoneCountsByLocket(ctx context.Context, since *time.Time, loc *time.Location) ([]models.LocketDailyRow, error) {
	sql := `
		SELECT l.name, to_char(q.created_at AT TIME ZONE $1, 'YYYY-MM-DD') AS date, COUNT(*) AS total
		FROM queues q
		JOIN lockets l ON l.id = q.locket_id
		WHERE q.status = $2`
	args := []any{loc.String(), models.StatusDone}
	if since != nil {
		sql += ` AND q.created_at >= $3`
		args = append(args, *since)
	}
	sql += `
		GROUP BY l.name, 2
		ORDER BY l.name ASC, 2 ASC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LocketDailyRow
	for rows.Next() {
		var lr models.LocketDailyRow
		if err := rows.Scan(&lr.Name, &lr.Date, &lr.Total); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}
