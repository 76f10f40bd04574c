package models

import "time"

// Locket is a named service counter owning a daily ticket queue.
type Locket struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
