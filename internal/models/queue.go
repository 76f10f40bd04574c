package models

import "time"

// Ticket statuses. A ticket starts UNDONE; admins move it to DONE or park it
// as PENDING. There is no transition back from PENDING.
const (
	StatusUndone  = "UNDONE"
	StatusDone    = "DONE"
	StatusPending = "PENDING"
)

// Queue is one drawn ticket. QueueNumber is unique per locket per calendar
// day, contiguous from 1 in arrival order. UpdatedAt stays nil until the
// first status transition.
type Queue struct {
	ID          int64      `json:"id"`
	QueueNumber int        `json:"queue_number"`
	Status      string     `json:"status"`
	LocketID    int64      `json:"locket_id"`
	UserID      int64      `json:"user_id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// QueueStats are the global ticket counts shown on the admin dashboard.
type QueueStats struct {
	Today         int `json:"today"`
	ThisWeek      int `json:"thisWeek"`
	ThisMonth     int `json:"thisMonth"`
	LastSixMonths int `json:"lastSixMonths"`
}

// DailyCount is one bucket of a per-day DONE-ticket histogram.
type DailyCount struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

// LocketDistribution is the all-time DONE-ticket total for one locket.
type LocketDistribution struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// LocketDailyRow is one (locket, date) bucket of served tickets as it comes
// back from the store; the service pivots rows into LocketDailyCounts.
type LocketDailyRow struct {
	Name  string
	Date  string
	Total int
}

// LocketDailyCounts maps locket name -> ISO date -> DONE-ticket count.
type LocketDailyCounts map[string]map[string]int
