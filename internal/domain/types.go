package domain

import "time"

// DateLayout is the wire and storage format for expiry dates.
const DateLayout = "2006-01-02"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AuthUser is the read-only projection of a signed-in user.
type AuthUser struct {
	ID    string
	Email string
}

type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

type Zone struct {
	ID        int64
	UserID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Photo struct {
	ID         int64
	UserID     string
	ZoneID     int64
	StorageKey string
	MimeType   string
	UploadedAt time.Time
}

// Item is a pantry item. ExpiryDate is a civil date held at midnight UTC.
type Item struct {
	ID         int64
	UserID     string
	ZoneID     *int64
	PhotoID    *int64
	Name       string
	Quantity   int
	ExpiryDate *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ItemFields are the user-editable columns of an Item.
type ItemFields struct {
	Name       string
	Quantity   int
	ExpiryDate *time.Time
	ZoneID     *int64
	PhotoID    *int64
}
