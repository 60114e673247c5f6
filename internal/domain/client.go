package domain

import "time"

// Client is an external customer the business bills and runs projects for.
type Client struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Company   string
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
