package model

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eathonq/toolkit-mvvm-plugin/internal/errors"
	"github.com/eathonq/toolkit-mvvm-plugin/pkg/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playerDoc = `
player:
  name: ada
  hp: 10
  speed: 1.5
  alive: true
  title: null
  items: [sword, shield]
inventory: !map
  1: potion
  gold: 3
tags: !!set
  ? fast
  ? rare
flags: !set [a, b]
`

func TestDecodeBuildsRawTree(t *testing.T) {
	v, err := Decode([]byte(playerDoc))
	require.NoError(t, err)

	root, ok := v.(*reactive.Object)
	require.True(t, ok, "root should be *reactive.Object, got %T", v)
	assert.Equal(t, []string{"player", "inventory", "tags", "flags"}, root.Keys())

	p, _ := root.Get("player")
	player := p.(*reactive.Object)
	assert.Equal(t, []string{"name", "hp", "speed", "alive", "title", "items"}, player.Keys())

	name, _ := player.Get("name")
	hp, _ := player.Get("hp")
	speed, _ := player.Get("speed")
	alive, _ := player.Get("alive")
	title, hasTitle := player.Get("title")
	assert.Equal(t, "ada", name)
	assert.Equal(t, 10, hp)
	assert.Equal(t, 1.5, speed)
	assert.Equal(t, true, alive)
	assert.True(t, hasTitle)
	assert.Nil(t, title)

	items, _ := player.Get("items")
	assert.Equal(t, []any{"sword", "shield"}, items.(*reactive.Array).Items())

	inv, _ := root.Get("inventory")
	m := inv.(*reactive.Map)
	assert.Equal(t, []any{1, "gold"}, m.Keys())
	potion, _ := m.Get(1)
	assert.Equal(t, "potion", potion)

	tags, _ := root.Get("tags")
	assert.Equal(t, []any{"fast", "rare"}, tags.(*reactive.Set).Values())

	flags, _ := root.Get("flags")
	assert.Equal(t, []any{"a", "b"}, flags.(*reactive.Set).Values())
}

func TestDecodeAliasesShareIdentity(t *testing.T) {
	v, err := Decode([]byte("base: &pos {x: 1}\nother: *pos\n"))
	require.NoError(t, err)

	root := v.(*reactive.Object)
	base, _ := root.Get("base")
	other, _ := root.Get("other")
	assert.Same(t, base, other)
}

func TestDecodeEmptyDocument(t *testing.T) {
	v, err := Decode([]byte("  \n"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
	}{
		{"syntax", "a: [1, 2\n", "E202"},
		{"duplicate key", "a: 1\nb: 2\na: 3\n", "E204"},
		{"complex key", "? [1]\n: x\n", "E203"},
		{"unknown tag", "a: !color red\n", "E203"},
		{"set of lists", "s: !!set\n  ? [1]\n", "E203"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.New(tt.code)), "want %s, got %v", tt.code, err)
		})
	}
}

func TestLoadReportsLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\nb:\n  c: 1\n  c: 2\n"), 0644))

	_, err := Load(path)
	var e *errors.Error
	require.True(t, stderrors.As(err, &e))
	assert.Equal(t, "E204", e.Code)
	require.NotNil(t, e.Location)
	assert.Equal(t, 4, e.Location.Line)
	assert.Equal(t, 3, e.Location.Column)
	assert.Contains(t, e.Context, "  c: 2")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, stderrors.Is(err, errors.New("E201")))
	assert.True(t, stderrors.Is(err, os.ErrNotExist))
}

func TestEncodeRoundTrip(t *testing.T) {
	v, err := Decode([]byte(playerDoc))
	require.NoError(t, err)

	data, err := Encode(v)
	require.NoError(t, err)

	again, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Snapshot(v), Snapshot(again))
	assert.Equal(t, v.(*reactive.Object).Keys(), again.(*reactive.Object).Keys())
}

func TestEncodeAcceptsProxies(t *testing.T) {
	rt := reactive.NewRuntime()
	o := rt.ObjectOf(reactive.NewObject("b", 1, "a", reactive.NewArray(1, "2")))

	data, err := Encode(o)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "b: 1\na:"), "keys should keep insertion order:\n%s", data)

	again, err := Decode(data)
	require.NoError(t, err)
	a, _ := again.(*reactive.Object).Get("a")
	assert.Equal(t, []any{1, "2"}, a.(*reactive.Array).Items())
}

func TestEncodeRejectsCycles(t *testing.T) {
	o := reactive.NewObject()
	o.Set("self", o)

	_, err := Encode(o)
	assert.True(t, stderrors.Is(err, errors.New("E205")))

	raw, err := Decode([]byte("s: &s !set [1, *s]\n"))
	require.NoError(t, err)
	_, err = Encode(raw)
	assert.True(t, stderrors.Is(err, errors.New("E205")))
}

func TestSnapshotCutsSetCycles(t *testing.T) {
	raw, err := Decode([]byte("s: &s !set [1, *s]\n"))
	require.NoError(t, err)

	snap := Snapshot(raw).(map[string]any)
	assert.Equal(t, []any{1, nil}, snap["s"])

	stats := Collect(raw)
	assert.Equal(t, 1, stats.Sets)
	assert.Equal(t, 1, stats.Scalars)
}

func TestSnapshot(t *testing.T) {
	shared := reactive.NewObject("x", 1)
	m := reactive.NewMap()
	m.Set(2, "two")
	root := reactive.NewObject(
		"a", shared,
		"b", shared,
		"list", reactive.NewArray(true, nil),
		"m", m,
		"s", reactive.NewSet("k"),
	)
	root.Set("loop", root)

	got := Snapshot(reactive.ObjectOf(root))
	assert.Equal(t, map[string]any{
		"a":    map[string]any{"x": 1},
		"b":    map[string]any{"x": 1},
		"list": []any{true, nil},
		"m":    map[any]any{2: "two"},
		"s":    []any{"k"},
		"loop": nil,
	}, got)
}

func TestCollectStats(t *testing.T) {
	v, err := Decode([]byte(playerDoc))
	require.NoError(t, err)

	s := Collect(v)
	assert.Equal(t, 2, s.Objects)
	assert.Equal(t, 1, s.Arrays)
	assert.Equal(t, 1, s.Maps)
	assert.Equal(t, 2, s.Sets)
	assert.Equal(t, 6, s.Containers())
	// player fields, items, map values, set members
	assert.Equal(t, 5+2+2+4, s.Scalars)
	assert.Equal(t, 3, s.Depth)

	assert.Equal(t, Stats{Scalars: 1}, Collect(42))
}
