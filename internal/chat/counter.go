package chat

import (
	"bytes"
	"cmp"
	"encoding/json"
	"slices"
	"strconv"
)

// Count pairs a key with its number of occurrences.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Counter counts occurrences of string keys and remembers the order in which
// keys were first seen.
type Counter struct {
	keys   []string
	counts map[string]int
}

// NewCounter returns an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add increments the count of key.
func (c *Counter) Add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

// Get returns the count of key.
func (c *Counter) Get(key string) int {
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.keys)
}

// Counts returns every key with its count in first-seen order.
func (c *Counter) Counts() []Count {
	out := make([]Count, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, Count{Key: k, Count: c.counts[k]})
	}
	return out
}

// MostCommon returns the n highest counts, ties broken by first-seen order.
// n <= 0 returns every key.
func (c *Counter) MostCommon(n int) []Count {
	out := c.Counts()
	slices.SortStableFunc(out, func(a, b Count) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// MarshalJSON encodes the counter as an object with keys in first-seen order.
func (c *Counter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.counts[k]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
