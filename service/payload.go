package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vanta/domain/book"
)

// Journal payload format: id|side|price|qty
func placePayload(o book.Order) []byte {
	return []byte(fmt.Sprintf("%s|%d|%d|%d", o.ID, o.Side, o.Price, o.Qty))
}

func parsePlacePayload(data []byte, seq uint64, ts int64) (book.Order, error) {
	parts := strings.Split(string(data), "|")
	if len(parts) != 4 {
		return book.Order{}, fmt.Errorf("invalid journal payload: %s", string(data))
	}

	side, err := strconv.Atoi(parts[1])
	if err != nil {
		return book.Order{}, err
	}

	price, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return book.Order{}, err
	}

	qty, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return book.Order{}, err
	}

	return book.Order{
		ID:        parts[0],
		Side:      book.Side(side),
		Price:     price,
		Qty:       qty,
		Seq:       seq,
		Timestamp: time.Unix(0, ts),
	}, nil
}
