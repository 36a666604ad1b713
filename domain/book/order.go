package book

import (
	"errors"
	"fmt"
	"time"
)

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// ErrInvalidOrder is returned for orders that must never reach the book.
// Rejection is all-or-nothing: no engine or tree state changes.
var ErrInvalidOrder = errors.New("book: invalid order")

// Order is a pure domain entity. ID and Timestamp are assigned by the
// caller before submission; Seq is assigned by the service layer.
type Order struct {
	ID     string
	Price  int64
	Qty    int64
	Filled int64
	Seq    uint64

	Side      Side
	Timestamp time.Time

	next *Order
	prev *Order
}

func (o *Order) Remaining() int64 {
	return o.Qty - o.Filled
}

// Next supports read-only traversal of a price level queue.
func (o *Order) Next() *Order {
	return o.next
}

// Validate enforces the submission preconditions.
func (o *Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidOrder)
	}
	if o.Price <= 0 {
		return fmt.Errorf("%w: price %d", ErrInvalidOrder, o.Price)
	}
	if o.Qty <= 0 {
		return fmt.Errorf("%w: quantity %d", ErrInvalidOrder, o.Qty)
	}
	return nil
}
