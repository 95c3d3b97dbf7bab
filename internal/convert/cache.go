package convert

import (
	"crypto/sha256"
	"fmt"
)

// Cache memoizes conversion results within a single compiler run, keyed by a
// hash of the exact input, so identical content always produces identical
// output. The cache belongs to the run that created it; constructing a fresh
// one per invocation keeps runs isolated from each other.
type Cache struct {
	conv    Converter
	results map[string]string
}

func NewCache(conv Converter) *Cache {
	return &Cache{
		conv:    conv,
		results: make(map[string]string),
	}
}

func (c *Cache) Convert(markdown string) (string, error) {
	key := ContentHashHex([]byte(markdown))
	if out, ok := c.results[key]; ok {
		return out, nil
	}
	out, err := c.conv.Convert(markdown)
	if err != nil {
		return "", err
	}
	c.results[key] = out
	return out, nil
}

// Len reports how many distinct inputs have been converted.
func (c *Cache) Len() int { return len(c.results) }

// ContentHashHex computes SHA-256 of content and returns the hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
