// Package kvtest holds the behavioural contract every kv backend must pass.
package kvtest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"slidecore/internal/kv/core"
)

// RunContract exercises get/set/delete semantics against store. The store is
// expected to start empty.
func RunContract(t *testing.T, store core.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get missing: expected ErrNotFound, got %v", err)
	}

	if err := store.Set(ctx, "presentation_index", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, "presentation_index")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("unexpected value %q", got)
	}

	// returned bytes must not alias stored state
	got[0] = 'X'
	again, err := store.Get(ctx, "presentation_index")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if string(again) != `[]` {
		t.Fatalf("stored value mutated through returned slice: %q", again)
	}

	payload := []byte(`[{"id":"a"}]`)
	if err := store.Set(ctx, "presentation_index", payload); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	payload[0] = 'X'
	got, err = store.Get(ctx, "presentation_index")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if !bytes.Equal(got, []byte(`[{"id":"a"}]`)) {
		t.Fatalf("overwrite not applied or input aliased: %q", got)
	}

	existed, err := store.Delete(ctx, "presentation_index")
	if err != nil || !existed {
		t.Fatalf("delete existing: existed=%v err=%v", existed, err)
	}
	existed, err = store.Delete(ctx, "presentation_index")
	if err != nil || existed {
		t.Fatalf("delete missing: existed=%v err=%v", existed, err)
	}
	if _, err := store.Get(ctx, "presentation_index"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get after delete: expected ErrNotFound, got %v", err)
	}
}

// RunConcurrent writes distinct keys from several goroutines and checks every
// value lands.
func RunConcurrent(t *testing.T, store core.Store) {
	t.Helper()
	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("presentation_%d", i)
			if err := store.Set(ctx, key, []byte(key)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent set: %v", err)
	}
	for i := 0; i < 8; i++ {
		key := fmt.Sprintf("presentation_%d", i)
		v, err := store.Get(ctx, key)
		if err != nil || string(v) != key {
			t.Fatalf("get %s: %q %v", key, v, err)
		}
	}
}
