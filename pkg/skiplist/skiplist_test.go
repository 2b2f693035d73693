package skiplist

import (
	"errors"
	"fmt"
	"testing"
)

func TestPutGet(t *testing.T) {
	list := NewSkipList()

	key := []byte("hello")
	key2 := []byte("olleh")

	list.Put(key, []byte("world"))
	if v, ok := list.Get(key); !ok || string(v) != "world" {
		t.Errorf("got %q, %v, want world", v, ok)
	}

	list.Put(key, []byte("dlrow"))
	if v, _ := list.Get(key); string(v) != "dlrow" {
		t.Errorf("got %q, want dlrow", v)
	}

	list.Put(key2, []byte("llominus"))
	if v, _ := list.Get(key2); string(v) != "llominus" {
		t.Errorf("got %q, want llominus", v)
	}

	if v, ok := list.Get([]byte("missing")); ok || v != nil {
		t.Errorf("got %q, %v for a missing key", v, ok)
	}

	if list.Len() != 2 {
		t.Errorf("len %d, want 2", list.Len())
	}
	if want := len("hello") + len("dlrow") + len("olleh") + len("llominus"); list.Size() != want {
		t.Errorf("size %d, want %d", list.Size(), want)
	}
}

func TestEmptyValue(t *testing.T) {
	list := NewSkipList()
	list.Put([]byte("k"), nil)
	v, ok := list.Get([]byte("k"))
	if !ok || len(v) != 0 {
		t.Fatalf("got %q, %v, want an empty value that exists", v, ok)
	}
}

func TestScanOrder(t *testing.T) {
	list := NewSkipList()
	// insert in reverse so ordering comes from the list, not the input
	for i := 999; i >= 0; i-- {
		list.Put([]byte(fmt.Sprintf("key_%04d", i)), []byte(fmt.Sprintf("value_%d", i)))
	}

	var keys []string
	stopped, err := list.Scan([]byte("key_0100"), []byte("key_0200"), func(key, value []byte) (bool, error) {
		keys = append(keys, string(key))
		return false, nil
	})
	if err != nil || stopped {
		t.Fatalf("got stopped=%v err=%v", stopped, err)
	}
	if len(keys) != 100 {
		t.Fatalf("got %d keys, want 100", len(keys))
	}
	for i, k := range keys {
		if want := fmt.Sprintf("key_%04d", 100+i); k != want {
			t.Fatalf("key %d is %s, want %s", i, k, want)
		}
	}
}

func TestScanToEnd(t *testing.T) {
	list := NewSkipList()
	for _, k := range []string{"b", "a", "d", "c"} {
		list.Put([]byte(k), []byte(k))
	}

	var got string
	list.Scan([]byte("b"), nil, func(key, value []byte) (bool, error) {
		got += string(key)
		return false, nil
	})
	if got != "bcd" {
		t.Errorf("got %q, want bcd", got)
	}

	got = ""
	list.Scan(nil, nil, func(key, value []byte) (bool, error) {
		got += string(value)
		return false, nil
	})
	if got != "abcd" {
		t.Errorf("got %q, want abcd", got)
	}
}

func TestScanStops(t *testing.T) {
	list := NewSkipList()
	for _, k := range []string{"a", "b", "c"} {
		list.Put([]byte(k), nil)
	}

	n := 0
	stopped, err := list.Scan(nil, nil, func(key, value []byte) (bool, error) {
		n++
		return string(key) == "b", nil
	})
	if !stopped || err != nil || n != 2 {
		t.Errorf("got stopped=%v err=%v visited=%d", stopped, err, n)
	}

	boom := errors.New("boom")
	stopped, err = list.Scan(nil, nil, func(key, value []byte) (bool, error) {
		return false, boom
	})
	if !stopped || err != boom {
		t.Errorf("got stopped=%v err=%v", stopped, err)
	}
}
