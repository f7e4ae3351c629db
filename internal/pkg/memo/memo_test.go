package memo

import (
	"errors"
	"testing"
	"time"
)

func TestDo_ComputesOnce(t *testing.T) {
	c := New[string, int](8, 0)
	calls := 0
	compute := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Do("k", compute)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		if v != 42 {
			t.Fatalf("Do = %d, want 42", v)
		}
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
}

func TestDo_ErrorsAreNotCached(t *testing.T) {
	c := New[string, int](8, 0)
	calls := 0
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if _, err := c.Do("k", func() (int, error) { calls++; return 0, boom }); !errors.Is(err, boom) {
			t.Fatalf("Do err = %v, want boom", err)
		}
	}
	if calls != 2 {
		t.Errorf("failing compute ran %d times, want 2 (no caching)", calls)
	}

	v, err := c.Do("k", func() (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Errorf("recovery Do = %d, %v", v, err)
	}
}

func TestCache_EvictsBySize(t *testing.T) {
	c := New[int, int](2, 0)
	c.Add(1, 1)
	c.Add(2, 2)
	c.Add(3, 3)
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2 after eviction", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Error("oldest entry survived past the size bound")
	}
}

func TestCache_ExpiresByTTL(t *testing.T) {
	c := New[string, string](8, 30*time.Millisecond)
	c.Add("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry missing immediately after Add")
	}
	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("entry survived past its TTL")
	}
}
