package middleware

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
	"github.com/stretchr/testify/assert"
)

type orderHooks struct {
	reactive.NopHooks
	name string
	log  *[]string
}

func (h orderHooks) Wrapped(reactive.Kind) {
	*h.log = append(*h.log, h.name+":wrap")
}

func (h orderHooks) ReactionStarted(*reactive.Reaction, *reactive.Operation) func(bool) {
	*h.log = append(*h.log, h.name+":start")
	return func(bool) {
		*h.log = append(*h.log, h.name+":done")
	}
}

func TestChainFansOutInOrder(t *testing.T) {
	var log []string
	hooks := Chain(orderHooks{name: "a", log: &log}, nil, orderHooks{name: "b", log: &log})
	rt := reactive.NewRuntime(reactive.WithHooks(hooks))

	_ = rt.ObjectOf(reactive.NewObject())
	rt.Observe(func(*reactive.Operation) {})

	assert.Equal(t, []string{
		"a:wrap", "b:wrap",
		"a:start", "b:start",
		"b:done", "a:done",
	}, log)
}

func TestChainWithoutDoneCallbacks(t *testing.T) {
	hooks := Chain(reactive.NopHooks{})
	assert.Nil(t, hooks.ReactionStarted(nil, nil))
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rt := reactive.NewRuntime(reactive.WithHooks(Logging(logger)))

	o := rt.ObjectOf(reactive.NewObject("a", 1))
	rt.Observe(func(*reactive.Operation) {
		if o.Get("a").(int) > 1 {
			panic("boom")
		}
	}, reactive.WithName("fragile"))

	assert.Panics(t, func() { o.Set("a", 2) })

	out := buf.String()
	assert.Contains(t, out, "reactive: reaction ran")
	assert.Contains(t, out, "reactive: trigger")
	assert.Contains(t, out, "level=ERROR msg=\"reactive: reaction panicked\"")
	assert.Contains(t, out, "name=fragile")
}
