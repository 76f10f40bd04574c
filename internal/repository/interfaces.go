package repository

import (
	"context"
	"time"

	"github.com/nudriin/antrian-rest-api/internal/dates"
	"github.com/nudriin/antrian-rest-api/internal/models"
)

type LocketRepository interface {
	Create(ctx context.Context, name string) (*models.Locket, error)
	CountByName(ctx context.Context, name string) (int, error)
	FindAll(ctx context.Context) ([]models.Locket, error)
	FindByName(ctx context.Context, name string) (*models.Locket, error)
	FindByID(ctx context.Context, id int64) (*models.Locket, error)
	Update(ctx context.Context, id int64, name string) (*models.Locket, error)
	Delete(ctx context.Context, id int64) error
}

type QueueRepository interface {
	// InsertNext allocates the next queue number for the locket within day
	// and persists the ticket, serialized per locket.
	InsertNext(ctx context.Context, locketID, userID int64, day dates.Range, now time.Time) (*models.Queue, error)
	FindByID(ctx context.Context, id int64) (*models.Queue, error)
	UpdateStatus(ctx context.Context, id int64, status string, at time.Time) (*models.Queue, error)
	FindAllByLocket(ctx context.Context, locketID int64, day dates.Range) ([]models.Queue, error)
	CountByLocket(ctx context.Context, locketID int64, day dates.Range) (int, error)
	CountByLocketAndStatus(ctx context.Context, locketID int64, status string, day dates.Range) (int, error)
	// CurrentNumber is the latest-updated DONE ticket's number in day, 0 if none.
	CurrentNumber(ctx context.Context, locketID int64, day dates.Range) (int, error)
	// NextNumber is the smallest UNDONE ticket's number in day, 0 if none.
	NextNumber(ctx context.Context, locketID int64, day dates.Range) (int, error)
	DeleteByLocketAndRange(ctx context.Context, locketID int64, day dates.Range) (int64, error)
	DeleteByLocket(ctx context.Context, locketID int64) error

	CountInRange(ctx context.Context, r dates.Range) (int, error)
	DailyDoneCounts(ctx context.Context, since time.Time, loc *time.Location) ([]models.DailyCount, error)
	DoneDistributionByLocket(ctx context.Context) ([]models.LocketDistribution, error)
	// DailyDoneCountsByLocket groups DONE tickets per locket per day; a nil
	// since means all time.
	DailyDoneCountsByLocket(ctx context.Context, since *time.Time, loc *time.Location) ([]models.LocketDailyRow, error)
}

type UserRepository interface {
	Create(ctx context.Context, email, name, role, passwordHash string) (*models.User, error)
	CountByEmail(ctx context.Context, email string) (int, error)
	FindByEmail(ctx context.Context, email string) (*models.User, string /*passwordHash*/, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
	EmailsByRole(ctx context.Context, role string) ([]string, error)
}
