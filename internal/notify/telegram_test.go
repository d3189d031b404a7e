package notify

import (
	"testing"
	"time"

	"github.com/stocksim/stocksim/models"
)

func TestFormatTrade(t *testing.T) {
	tx := models.Transaction{
		ID:        "abc",
		Symbol:    "MSFT",
		Action:    "buy",
		Quantity:  10,
		Price:     412.5,
		Value:     4125,
		Timestamp: time.Now(),
	}
	got := FormatTrade(tx)
	want := "BUY 10.00 MSFT @ 412.50 (total 4125.00)"
	if got != want {
		t.Errorf("FormatTrade() = %q, want %q", got, want)
	}
}
