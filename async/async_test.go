package async_test

import (
	"testing"

	"github.com/on-the-ground/fxbox/async"
	"github.com/on-the-ground/fxbox/maybe"

	"github.com/stretchr/testify/assert"
)

func TestAsync_Ready(t *testing.T) {
	matched := async.Match(async.Ready(42),
		func(v int) int { return v },
		func() int { t.Fatal("Pending arm called for Ready"); return 0 },
	)
	assert.Equal(t, 42, matched)
}

func TestAsync_Pending(t *testing.T) {
	matched := async.Match(async.Pending[int](),
		func(int) string { return "ready" },
		func() string { return "loading" },
	)
	assert.Equal(t, "loading", matched)

	var zero async.Async[int]
	assert.True(t, async.IsPending(zero))
}

func TestAsync_MapReady(t *testing.T) {
	doubled := async.MapReady(async.Ready(21), func(n int) int { return n * 2 })
	assert.Equal(t, 42, maybe.AssertSome(async.GetReady(doubled)))

	called := false
	pending := async.MapReady(async.Pending[int](), func(n int) int {
		called = true
		return n
	})
	assert.True(t, async.IsPending(pending))
	assert.False(t, called)
}

func TestAsync_FlatMapReady(t *testing.T) {
	readyIfPositive := func(n int) async.Async[int] {
		if n <= 0 {
			return async.Pending[int]()
		}
		return async.Ready(n)
	}

	assert.True(t, async.IsReady(async.FlatMapReady(async.Ready(1), readyIfPositive)))
	assert.True(t, async.IsPending(async.FlatMapReady(async.Ready(0), readyIfPositive)))
	assert.True(t, async.IsPending(async.FlatMapReady(async.Pending[int](), readyIfPositive)))
}

func TestAsync_GetReady(t *testing.T) {
	assert.Equal(t, "v", maybe.AssertSome(async.GetReady(async.Ready("v"))))
	assert.True(t, maybe.IsNone(async.GetReady(async.Pending[string]())))
}

func TestAsync_All(t *testing.T) {
	all := async.All(map[string]async.Async[any]{
		"42":     async.Ready[any](42),
		"string": async.Ready[any]("string"),
	})
	assert.Equal(t, map[string]any{"42": 42, "string": "string"}, maybe.AssertSome(async.GetReady(all)))

	notAll := async.All(map[string]async.Async[int]{
		"a": async.Ready(1),
		"b": async.Pending[int](),
		"c": async.Ready(3),
	})
	assert.True(t, async.IsPending(notAll))
}

func TestAsync_String(t *testing.T) {
	assert.Equal(t, "Ready(1)", async.Ready(1).String())
	assert.Equal(t, "Pending", async.Pending[int]().String())
}
