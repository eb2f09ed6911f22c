package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNewRateLimiter(t *testing.T) {
	tests := []struct {
		name       string
		rate       float64
		bucketSize float64
		wantNil    bool
		wantTokens float64
	}{
		{
			name:       "standard rate",
			rate:       10.0,
			bucketSize: 100.0,
			wantTokens: 100.0,
		},
		{
			name:       "zero rate disables limiting",
			rate:       0.0,
			bucketSize: 100.0,
			wantNil:    true,
		},
		{
			name:       "bucket size below one is raised",
			rate:       5.0,
			bucketSize: 0,
			wantTokens: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRateLimiter(tt.rate, tt.bucketSize)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("NewRateLimiter() = %+v, want nil", got)
				}
				return
			}
			if got.rate != tt.rate {
				t.Errorf("rate = %v, want %v", got.rate, tt.rate)
			}
			if got.tokens != tt.wantTokens {
				t.Errorf("tokens = %v, want %v", got.tokens, tt.wantTokens)
			}
		})
	}
}

func TestRateLimiter_NilNeverBlocks(t *testing.T) {
	var rl *RateLimiter
	for i := 0; i < 100; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	tests := []struct {
		name       string
		rate       float64
		bucketSize float64
		requests   int
	}{
		{
			name:       "single request",
			rate:       10.0,
			bucketSize: 1.0,
			requests:   1,
		},
		{
			name:       "burst within bucket",
			rate:       10.0,
			bucketSize: 6.0,
			requests:   6,
		},
		{
			name:       "exceed bucket size",
			rate:       10.0,
			bucketSize: 1.0,
			requests:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.rate, tt.bucketSize)
			ctx := context.Background()

			start := time.Now()
			for i := 0; i < tt.requests; i++ {
				if err := rl.Wait(ctx); err != nil {
					t.Errorf("Wait() error = %v", err)
				}
			}
			duration := time.Since(start)

			if tt.requests > int(tt.bucketSize) {
				extra := float64(tt.requests - int(tt.bucketSize))
				expectedMinDuration := time.Duration(extra / tt.rate * float64(time.Second) * 0.9)
				if duration < expectedMinDuration {
					t.Errorf("Wait() duration = %v, want >= %v", duration, expectedMinDuration)
				}
			}
		})
	}
}

func TestRateLimiter_WaitWithContext(t *testing.T) {
	rl := NewRateLimiter(1.0, 1.0) // 1 request per second
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// First request should succeed
	if err := rl.Wait(ctx); err != nil {
		t.Errorf("First Wait() error = %v, want nil", err)
	}

	// Second request should timeout
	if err := rl.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("Second Wait() error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter(20.0, 5.0)
	ctx := context.Background()

	const goroutines = 10
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	start := time.Now()
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- rl.Wait(ctx)
		}()
	}
	wg.Wait()
	close(errs)
	duration := time.Since(start)

	for err := range errs {
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	}

	// 5 tokens up front, the other 5 arrive at 20/s.
	minExpectedDuration := 200 * time.Millisecond
	if duration < minExpectedDuration {
		t.Errorf("Duration = %v, want >= %v", duration, minExpectedDuration)
	}
}
