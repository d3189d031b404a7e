package ledger

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stocksim/stocksim/models"
)

// Parallel sells against one position: exactly the held quantity may
// execute, the rest must be rejected, and cash must balance. Run with
// -race to check the lock discipline as well.
func TestExecuteOrder_ConcurrentSells(t *testing.T) {
	const held = 50
	const attempts = 60

	quotes := &stubQuotes{price: 100}
	l := New(100000, quotes)
	ctx := context.Background()

	if _, err := l.ExecuteOrder(ctx, marketOrder("AAPL", "buy", held)); err != nil {
		t.Fatalf("setup buy failed: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	executed, rejected := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := l.ExecuteOrder(ctx, marketOrder("AAPL", "sell", 1))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && result.Status == models.OrderExecuted:
				executed++
			default:
				var perr *InsufficientPositionError
				if !errors.As(err, &perr) {
					t.Errorf("unexpected outcome: result=%+v err=%v", result, err)
					return
				}
				rejected++
			}
		}()
	}
	wg.Wait()

	if executed != held {
		t.Errorf("%d sells executed, want exactly %d", executed, held)
	}
	if rejected != attempts-held {
		t.Errorf("%d sells rejected, want %d", rejected, attempts-held)
	}

	snap := l.Snapshot()
	if _, ok := snap.Positions["AAPL"]; ok {
		t.Error("position should be fully closed after selling all held shares")
	}
	if math.Abs(snap.Cash-100000) > 1e-9 {
		t.Errorf("cash = %v, want restored 100000", snap.Cash)
	}
	// One buy plus one transaction per executed sell, nothing else.
	if len(snap.Transactions) != held+1 {
		t.Errorf("transaction log has %d entries, want %d", len(snap.Transactions), held+1)
	}
}

// Parallel buys against limited cash: the funds invariant must hold no
// matter how the executions interleave.
func TestExecuteOrder_ConcurrentBuysLimitedCash(t *testing.T) {
	const affordable = 10
	const attempts = 15

	quotes := &stubQuotes{price: 100}
	l := New(affordable*100, quotes)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	executed, rejected := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := l.ExecuteOrder(ctx, marketOrder("MSFT", "buy", 1))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && result.Status == models.OrderExecuted:
				executed++
			default:
				var ferr *InsufficientFundsError
				if !errors.As(err, &ferr) {
					t.Errorf("unexpected outcome: result=%+v err=%v", result, err)
					return
				}
				rejected++
			}
		}()
	}
	wg.Wait()

	if executed != affordable {
		t.Errorf("%d buys executed, want exactly %d", executed, affordable)
	}
	if rejected != attempts-affordable {
		t.Errorf("%d buys rejected, want %d", rejected, attempts-affordable)
	}

	snap := l.Snapshot()
	if snap.Cash < 0 {
		t.Errorf("cash went negative: %v", snap.Cash)
	}
	if math.Abs(snap.Cash) > 1e-9 {
		t.Errorf("cash = %v, want 0 after spending it all", snap.Cash)
	}
	if got := snap.Positions["MSFT"].Quantity; got != affordable {
		t.Errorf("position quantity = %v, want %d", got, affordable)
	}
}
