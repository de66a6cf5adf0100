package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	corenum "bookstock/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences UPSERT: every call bumps the
// counter by the increment argument (1 for strict allocations).
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}

	m.currentValue += increment
	m.calls++

	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenum.DefaultConfig(corenum.PrefixReceipt)
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RC-2026-00001" {
		t.Errorf("expected RC-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "RC-2026-00002" {
		t.Errorf("expected RC-2026-00002, got %s", num)
	}

	// Strict hits the DB on every call
	if q.calls != 2 {
		t.Errorf("expected 2 DB calls, got %d", q.calls)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenum.DefaultConfig(corenum.PrefixSupplyOrder)
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	opts := &corenum.Options{
		Strategy:  corenum.StrategyCached,
		RangeSize: 10,
	}

	// First call reserves 1..10 from the DB and returns 1
	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SO-2026-00001" {
		t.Errorf("expected SO-2026-00001, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to be 10, got %d", q.currentValue)
	}

	// Second call is served from memory, DB untouched
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SO-2026-00002" {
		t.Errorf("expected SO-2026-00002, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to stay 10, got %d", q.currentValue)
	}

	// Exhaust the range; the next call reserves 11..20
	for i := 0; i < 8; i++ {
		if _, err := svc.GetNextNumber(ctx, cfg, opts, period); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "SO-2026-00011" {
		t.Errorf("expected SO-2026-00011, got %s", num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected DB value to be 20, got %d", q.currentValue)
	}
}

func TestGetNextNumber_MonthReset(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()

	cfg := corenum.Config{
		Prefix:      "ADJ",
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "month",
	}

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	if got := buildKey(cfg, march); got != "ADJ_2026_03" {
		t.Errorf("expected key ADJ_2026_03, got %s", got)
	}
	if got := buildKey(cfg, april); got != "ADJ_2026_04" {
		t.Errorf("expected key ADJ_2026_04, got %s", got)
	}

	num, err := svc.GetNextNumber(ctx, cfg, nil, march)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ADJ-2026-00001" {
		t.Errorf("expected ADJ-2026-00001, got %s", num)
	}
}

func TestGetNextNumber_Concurrent(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenum.DefaultConfig(corenum.PrefixReceipt)
	opts := &corenum.Options{Strategy: corenum.StrategyCached, RangeSize: 100}
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	const workers = 100
	const perWorker = 100

	var wg sync.WaitGroup
	results := make(chan string, workers*perWorker)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				num, err := svc.GetNextNumber(ctx, cfg, opts, period)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				results <- num
			}
		}()
	}

	wg.Wait()
	close(results)

	seen := make(map[string]bool, workers*perWorker)
	for num := range results {
		if seen[num] {
			t.Fatalf("duplicate number allocated: %s", num)
		}
		seen[num] = true
	}
	if len(seen) != workers*perWorker {
		t.Errorf("expected %d distinct numbers, got %d", workers*perWorker, len(seen))
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"RC-2026-00042", 42},
		{"SO-00007", 7},
		{"garbage", -1},
		{"RC-", -1},
		{"RC-2026-abc", -1},
	}

	for _, tc := range cases {
		if got := ParseNumber(tc.in); got != tc.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
