// model/rental.go
package model

import "time"

type RentalStatus string

const (
	RentalBorrowed RentalStatus = "BORROWED"
	RentalOverdue  RentalStatus = "OVERDUE"
	RentalReturned RentalStatus = "RETURNED"
)

type Rental struct {
	ID         int64        `json:"id"`
	BookID     int64        `json:"bookId"`
	CustomerID int64        `json:"customerId"`
	WorkerID   int64        `json:"workerId"`
	BorrowedAt time.Time    `json:"borrowedAt"`
	DueDate    time.Time    `json:"dueDate"`
	Status     RentalStatus `json:"status"`
	ReturnedAt *time.Time   `json:"returnedAt,omitempty"`
}

// RentalRow is a rental joined with its book, and for the staff listing
// the customer as well.
type RentalRow struct {
	Rental
	Book     Book          `json:"book"`
	Customer *CustomerInfo `json:"customer,omitempty"`
}

type CustomerInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateRentalReq struct {
	BookID     int64 `json:"bookId" validate:"required,gt=0"`
	CustomerID int64 `json:"customerId" validate:"required,gt=0"`
	DueDays    int   `json:"dueDays" validate:"omitempty,gt=0"`
}
