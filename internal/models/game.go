package models

import "time"

// Pola available, borrowed_by, borrowed_date i return_date zmieniają się zawsze
// razem - tylko operacje wypożyczenia/zwrotu mogą je modyfikować.
type Game struct {
	ID           string     `json:"id"`
	OwnerID      int64      `json:"owner_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Available    bool       `json:"available"`
	BorrowedBy   *int64     `json:"borrowed_by,omitempty"`
	BorrowedDate *time.Time `json:"borrowed_date,omitempty"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ModifiedAt   time.Time  `json:"modified_at"`
}
