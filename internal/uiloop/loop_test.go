package uiloop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoopRunsTasksInOrder(t *testing.T) {
	loop := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		if !loop.Post(func() { got = append(got, i) }) {
			t.Fatalf("Post %d rejected", i)
		}
	}
	if err := loop.Do(ctx, func() {}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task order broken: %v", got)
		}
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 tasks, got %d", len(got))
	}
}

func TestLoopTasksShareOneGoroutine(t *testing.T) {
	loop := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = loop.Do(ctx, func() { counter++ })
		}()
	}
	wg.Wait()

	var final int
	_ = loop.Do(ctx, func() { final = counter })
	if final != 50 {
		t.Fatalf("counter = %d, want 50", final)
	}
}

func TestLoopRejectsAfterStop(t *testing.T) {
	loop := New()
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	cancel()

	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatalf("loop did not stop on context cancel")
	}

	if loop.Post(func() {}) {
		t.Fatalf("expected Post to be rejected after stop")
	}
	if err := loop.Do(context.Background(), func() {}); !errors.Is(err, ErrStopped) {
		t.Fatalf("Do err = %v, want ErrStopped", err)
	}
	loop.Stop()
}
