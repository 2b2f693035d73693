package skiplist

import (
	"bytes"
	"math/rand"
	"sync"
)

const tMaxHeight = 12

// kvNode 中节点布局: 键在 kvData 中的偏移、键长度、值长度、高度，之后每层一个后继节点下标
const (
	nKV = iota
	nKey
	nVal
	nHeight
	nNext
)

// SkipList 有序内存键值存储，0 号节点为头节点，后继下标为 0 表示该层结束
type SkipList struct {
	mu        sync.RWMutex
	rand      *rand.Rand
	kvData    []byte
	kvNode    []int
	maxHeight int
	count     int
	kvSize    int
}

func (s *SkipList) randHeight() int {
	const branching = 4
	h := 1
	for h < tMaxHeight && s.rand.Int()%branching == 0 {
		h++
	}
	return h
}

func (s *SkipList) key(n int) []byte {
	start := s.kvNode[n+nKV]
	return s.kvData[start : start+s.kvNode[n+nKey]]
}

func (s *SkipList) value(n int) []byte {
	start := s.kvNode[n+nKV] + s.kvNode[n+nKey]
	return s.kvData[start : start+s.kvNode[n+nVal]]
}

// seek 返回第一个键大于等于 key 的节点及是否精确匹配，
// prev 不为空时记录每层 key 之前的最后一个节点，Put 在此处链接新节点
func (s *SkipList) seek(key []byte, prev *[tMaxHeight]int) (int, bool) {
	n := 0
	h := s.maxHeight - 1
	for {
		next := s.kvNode[n+nNext+h]
		cmp := 1
		if next != 0 {
			cmp = bytes.Compare(s.key(next), key)
		}

		if cmp < 0 {
			n = next
			continue
		}
		if prev != nil {
			prev[h] = n
		}
		if cmp == 0 && prev == nil {
			return next, true
		}
		if h == 0 {
			return next, cmp == 0
		}
		h--
	}
}

// 插入键值，键已存在时替换值，旧数据不回收
func (s *SkipList) Put(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prev [tMaxHeight]int
	n, found := s.seek(key, &prev)

	start := len(s.kvData)
	s.kvData = append(s.kvData, key...)
	s.kvData = append(s.kvData, value...)

	if found {
		s.kvSize += len(value) - s.kvNode[n+nVal]
		s.kvNode[n+nKV] = start
		s.kvNode[n+nVal] = len(value)
		return
	}

	h := s.randHeight()
	if h > s.maxHeight {
		for i := s.maxHeight; i < h; i++ {
			prev[i] = 0
		}
		s.maxHeight = h
	}

	n = len(s.kvNode)
	s.kvNode = append(s.kvNode, start, len(key), len(value), h)
	for i, p := range prev[:h] {
		m := p + nNext + i
		s.kvNode = append(s.kvNode, s.kvNode[m])
		s.kvNode[m] = n
	}

	s.count++
	s.kvSize += len(key) + len(value)
}

// Get returns the value stored under key, or nil when key is absent.
func (s *SkipList) Get(key []byte) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, found := s.seek(key, nil)
	if !found {
		return nil, false
	}
	return s.value(n), true
}

// Scan calls fn for every pair with start <= key < end in key order. A nil
// end scans to the last key. Scanning stops when fn reports done or fails;
// Scan returns whether it was stopped early. fn must not call back into the
// list.
func (s *SkipList) Scan(start, end []byte, fn func(key, value []byte) (bool, error)) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, _ := s.seek(start, nil)
	for n != 0 {
		key := s.key(n)
		if end != nil && bytes.Compare(key, end) >= 0 {
			break
		}
		done, err := fn(key, s.value(n))
		if err != nil || done {
			return true, err
		}
		n = s.kvNode[n+nNext]
	}
	return false, nil
}

// 键数量
func (s *SkipList) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// 当前引用的键值字节数
func (s *SkipList) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kvSize
}

func NewSkipList() *SkipList {
	s := &SkipList{
		rand:      rand.New(rand.NewSource(0xdeadbeef)),
		maxHeight: 1,
		kvNode:    make([]int, nNext+tMaxHeight),
	}
	s.kvNode[nHeight] = tMaxHeight
	return s
}
