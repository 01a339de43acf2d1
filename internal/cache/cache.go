package cache

import (
	"container/list"
	"sync"
	"time"
)

type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Delete(key string)
	Clear()
}

type Item[V any] struct {
	Key        string
	Value      V
	Expiration time.Time
}

// LRUCache is a size-bounded cache whose entries also expire after ttl.
// Every Get refreshes recency but not expiration; Touch refreshes both.
type LRUCache[V any] struct {
	capacity  int
	items     map[string]*list.Element
	evictList *list.List
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	onEvict   func(key string, value V)
}

func New[V any](capacity int, ttl time.Duration) *LRUCache[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &LRUCache[V]{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		ttl:       ttl,
		now:       time.Now,
	}
}

// OnEvict registers fn to run, outside the lock, for every entry removed by
// capacity pressure, expiry, Delete or Clear.
func (c *LRUCache[V]) OnEvict(fn func(key string, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

func (c *LRUCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	var zero V

	elem, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return zero, false
	}

	item := elem.Value.(*Item[V])
	if c.now().After(item.Expiration) {
		c.removeElement(elem)
		c.mu.Unlock()
		c.notify([]*Item[V]{item})
		return zero, false
	}

	c.evictList.MoveToFront(elem)
	c.mu.Unlock()
	return item.Value, true
}

// Touch extends the expiration of key, reporting whether it was present.
func (c *LRUCache[V]) Touch(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	elem.Value.(*Item[V]).Expiration = c.now().Add(c.ttl)
	c.evictList.MoveToFront(elem)
	return true
}

func (c *LRUCache[V]) Set(key string, value V) {
	c.mu.Lock()

	expiration := c.now().Add(c.ttl)

	if elem, ok := c.items[key]; ok {
		item := elem.Value.(*Item[V])
		item.Value = value
		item.Expiration = expiration
		c.evictList.MoveToFront(elem)
		c.mu.Unlock()
		return
	}

	item := &Item[V]{
		Key:        key,
		Value:      value,
		Expiration: expiration,
	}

	elem := c.evictList.PushFront(item)
	c.items[key] = elem

	var evicted []*Item[V]
	if c.evictList.Len() > c.capacity {
		if oldest := c.removeOldest(); oldest != nil {
			evicted = append(evicted, oldest)
		}
	}
	c.mu.Unlock()
	c.notify(evicted)
}

func (c *LRUCache[V]) Delete(key string) {
	c.mu.Lock()
	var evicted []*Item[V]
	if elem, ok := c.items[key]; ok {
		evicted = append(evicted, elem.Value.(*Item[V]))
		c.removeElement(elem)
	}
	c.mu.Unlock()
	c.notify(evicted)
}

func (c *LRUCache[V]) Clear() {
	c.mu.Lock()
	evicted := make([]*Item[V], 0, len(c.items))
	for elem := c.evictList.Front(); elem != nil; elem = elem.Next() {
		evicted = append(evicted, elem.Value.(*Item[V]))
	}
	c.items = make(map[string]*list.Element)
	c.evictList.Init()
	c.mu.Unlock()
	c.notify(evicted)
}

func (c *LRUCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *LRUCache[V]) removeOldest() *Item[V] {
	elem := c.evictList.Back()
	if elem == nil {
		return nil
	}
	item := elem.Value.(*Item[V])
	c.removeElement(elem)
	return item
}

func (c *LRUCache[V]) removeElement(elem *list.Element) {
	c.evictList.Remove(elem)
	item := elem.Value.(*Item[V])
	delete(c.items, item.Key)
}

func (c *LRUCache[V]) notify(items []*Item[V]) {
	if len(items) == 0 {
		return
	}
	c.mu.Lock()
	fn := c.onEvict
	c.mu.Unlock()
	if fn == nil {
		return
	}
	for _, item := range items {
		fn(item.Key, item.Value)
	}
}

func (c *LRUCache[V]) CleanExpired() int {
	c.mu.Lock()

	now := c.now()
	var toRemove []*list.Element

	for elem := c.evictList.Back(); elem != nil; elem = elem.Prev() {
		item := elem.Value.(*Item[V])
		if now.After(item.Expiration) {
			toRemove = append(toRemove, elem)
		}
	}

	evicted := make([]*Item[V], 0, len(toRemove))
	for _, elem := range toRemove {
		evicted = append(evicted, elem.Value.(*Item[V]))
		c.removeElement(elem)
	}
	c.mu.Unlock()
	c.notify(evicted)
	return len(evicted)
}
