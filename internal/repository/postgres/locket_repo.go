package postgres

import (
	"context"

	"github.com/nudriin/antrian-rest-api/internal/models"
	"github.com/nudriin/antrian-rest-api/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocketRepo struct{ db *pgxpool.Pool }

func NewLocketRepo(db *pgxpool.Pool) repository.LocketRepository { return &LocketRepo{db: db} }

func (r *LocketRepo) Create(ctx context.Context, name string) (*models.Locket, error) {
	var l models.Locket
	err := r.db.QueryRow(ctx, `
		INSERT INTO lockets (name)
		VALUES ($1)
		RETURNING id, name, created_at`, name).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LocketRepo) CountByName(ctx context.Context, name string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM lockets WHERE name=$1`, name).Scan(&n)
	return n, err
}

func (r *LocketRepo) FindAll(ctx context.Context) ([]models.Locket, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM lockets ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Locket
	for rows.Next() {
		var l models.Locket
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LocketRepo) FindByName(ctx context.Context, name string) (*models.Locket, error) {
	var l models.Locket
	err := r.db.QueryRow(ctx, `
		SELECT id, name, created_at FROM lockets WHERE name=$1`, name).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LocketRepo) FindByID(ctx context.Context, id int64) (*models.Locket, error) {
	var l models.Locket
	err := r.db.QueryRow(ctx, `
		SELECT id, name, created_at FROM lockets WHERE id=$1`, id).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LocketRepo) Update(ctx context.Context, id int64, name string) (*models.Locket, error) {
	var l models.Locket
	err := r.db.QueryRow(ctx, `
		UPDATE lockets SET name=$1 WHERE id=$2
		RETURNING id, name, created_at`, name, id).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LocketRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM lockets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
