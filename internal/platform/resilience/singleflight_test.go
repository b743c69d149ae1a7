package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightCollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions int32
	var shared int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			value, err, wasShared := g.Do("nba|2024", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				time.Sleep(20 * time.Millisecond)
				return "done", nil
			})
			if err != nil {
				t.Errorf("Do: %v", err)
			}
			if value != "done" {
				t.Errorf("Do value = %v, want done", value)
			}
			if wasShared {
				atomic.AddInt32(&shared, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("function ran %d times, want 1", got)
	}
	if got := atomic.LoadInt32(&shared); got != workers-1 {
		t.Fatalf("%d callers shared the result, want %d", got, workers-1)
	}
}

func TestSingleFlightPropagatesErrors(t *testing.T) {
	var g SingleFlight
	sentinel := errors.New("fetch failed")

	_, err, wasShared := g.Do("wnba|2024", func() (any, error) {
		return nil, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Do error = %v, want %v", err, sentinel)
	}
	if wasShared {
		t.Fatal("sole caller reported a shared result")
	}
}

func TestSingleFlightForgetsKeyAfterCompletion(t *testing.T) {
	var g SingleFlight
	var executions int32

	for i := 0; i < 3; i++ {
		if _, err, _ := g.Do("nba|2023", func() (any, error) {
			atomic.AddInt32(&executions, 1)
			return nil, nil
		}); err != nil {
			t.Fatalf("Do: %v", err)
		}
	}

	if got := atomic.LoadInt32(&executions); got != 3 {
		t.Fatalf("sequential calls ran %d times, want 3", got)
	}
}
