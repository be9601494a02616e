package order

import (
	"crypto/rand"
	"fmt"
	"time"
)

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderNumber generates an order number of the form VV<yy><mm><XXXXXX>.
// The random suffix keeps numbers unguessable; the unique index on
// orders.order_number catches the rare collision and callers retry.
func NewOrderNumber() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate order number: %w", err)
	}
	for i, b := range buf {
		buf[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}

	now := time.Now()
	return fmt.Sprintf("VV%02d%02d%s", now.Year()%100, int(now.Month()), string(buf)), nil
}
