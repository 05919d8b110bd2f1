package marc

import "sync"

// fieldCache memoizes decoded fields by canonical key. Concurrent first
// decodes of the same key may both run; the first stored result wins.
type fieldCache struct {
	m sync.Map
}

func (c *fieldCache) Load(key string) ([]Field, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	return v.([]Field), true
}

func (c *fieldCache) LoadOrStore(key string, fields []Field) []Field {
	v, _ := c.m.LoadOrStore(key, fields)
	return v.([]Field)
}
