package llm

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/mailsift/internal/model"
)

func TestAnswerCache(t *testing.T) {
	t.Run("basic operations", func(t *testing.T) {
		cache := newAnswerCache(5 * time.Minute)
		defer cache.close()

		_, found := cache.get("non-existent")
		assert.False(t, found)

		cache.set("key1", "Exam")
		got, found := cache.get("key1")
		assert.True(t, found)
		assert.Equal(t, "Exam", got)
		assert.Equal(t, 1, cache.size())
	})

	t.Run("expiration", func(t *testing.T) {
		cache := newAnswerCache(50 * time.Millisecond)
		defer cache.close()

		cache.set("key2", "Misc")
		_, found := cache.get("key2")
		assert.True(t, found)

		time.Sleep(100 * time.Millisecond)

		_, found = cache.get("key2")
		assert.False(t, found)
	})

	t.Run("concurrent access", func(t *testing.T) {
		cache := newAnswerCache(5 * time.Minute)
		defer cache.close()

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					cache.set("concurrent", "Test")
				}
			}()
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					cache.get("concurrent")
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, cache.size())
	})

	t.Run("close twice", func(t *testing.T) {
		cache := newAnswerCache(0)
		cache.close()
		assert.NotPanics(t, cache.close)
	})
}

func TestCacheKey(t *testing.T) {
	base := model.SuggestionRequest{
		Kind:       model.PromptSource,
		Sender:     "a@b.c",
		Content:    "hello",
		Categories: []string{"A", "B"},
	}

	assert.Equal(t, cacheKey("ollama", base), cacheKey("ollama", base))
	assert.NotEqual(t, cacheKey("ollama", base), cacheKey("openai", base))

	other := base
	other.Content = "hello!"
	assert.NotEqual(t, cacheKey("ollama", base), cacheKey("ollama", other))

	other = base
	other.Kind = model.PromptTopic
	assert.NotEqual(t, cacheKey("ollama", base), cacheKey("ollama", other))
}
