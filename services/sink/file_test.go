package sink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"alkoteka/feedworker/internal/product"

	"github.com/stretchr/testify/assert"
)

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	s := NewFileSink(path)

	record := product.ProductRecord{
		RPC:      "aaaa-bbbb",
		URL:      "https://alkoteka.com/product/vodka/vodka-1",
		Title:    "Vodka, 0.5 L",
		Section:  [2]string{"Strong Alcohol", "Vodka"},
		Metadata: map[string]string{"__description": ""},
		Variants: 1,
	}

	assert.NoError(t, s.Emit(record))
	assert.Equal(t, 1, s.Count())
	assert.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	var decoded []map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 1)
	assert.Equal(t, "aaaa-bbbb", decoded[0]["RPC"])
	assert.Equal(t, "Vodka, 0.5 L", decoded[0]["title"])

	section, ok := decoded[0]["section"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, section, 2)
}

func TestFileSinkEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	s := NewFileSink(path)

	assert.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestFileSinkConcurrentEmit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	s := NewFileSink(path)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Emit(product.ProductRecord{Variants: 1}))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Count())
	assert.NoError(t, s.Close())
}

func TestFileSinkBadPath(t *testing.T) {
	s := NewFileSink("/nonexistent-dir/sub/result.json")
	assert.Error(t, s.Close())
}
