package swizzle

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMethod(t *testing.T) {
	assert := assert.New(t)

	c := NewClass("Thing", nil)
	assert.NoError(c.AddMethod("name", func(self *Object) string { return "thing" }))

	obj := NewObject(c)
	name, err := Call[string](obj, "name")
	assert.NoError(err)
	assert.Equal("thing", name)

	err = c.AddMethod("name", func(self *Object) string { return "other" })
	assert.ErrorIs(err, ErrMethodExists)

	name, err = Call[string](obj, "name")
	assert.NoError(err)
	assert.Equal("thing", name)
}

func TestAddMethod_BadImplementation(t *testing.T) {
	cases := map[string]struct {
		sel     Selector
		fn      any
		message string
	}{
		"not a function": {
			sel:     "a",
			fn:      "not a function",
			message: "not a function",
		},
		"nil": {
			sel:     "a",
			fn:      nil,
			message: "not a function",
		},
		"nil function": {
			sel:     "a",
			fn:      (func(*Object))(nil),
			message: "nil function",
		},
		"no receiver": {
			sel:     "a",
			fn:      func() {},
			message: "first parameter",
		},
		"wrong receiver": {
			sel:     "a",
			fn:      func(s string) {},
			message: "first parameter",
		},
		"empty selector": {
			sel:     "",
			fn:      func(*Object) {},
			message: "empty selector",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c := NewClass("Thing", nil)
			err := c.AddMethod(tc.sel, tc.fn)
			assert.ErrorIs(t, err, ErrBadImplementation)
			assert.Contains(t, err.Error(), tc.message)
			assert.Empty(t, c.Methods())
		})
	}
}

func TestAddMethod_Override(t *testing.T) {
	assert := assert.New(t)

	base := NewClass("Base", nil)
	require.NoError(t, base.AddMethod("name", func(*Object) string { return "base" }))

	sub := NewClass("Sub", base)
	assert.NoError(sub.AddMethod("name", func(*Object) string { return "sub" }))

	name, err := Call[string](NewObject(sub), "name")
	assert.NoError(err)
	assert.Equal("sub", name)

	name, err = Call[string](NewObject(base), "name")
	assert.NoError(err)
	assert.Equal("base", name)
}

func TestReplaceMethod(t *testing.T) {
	assert := assert.New(t)

	c := NewClass("Thing", nil)
	prev, err := c.ReplaceMethod("name", func(*Object) string { return "first" })
	assert.NoError(err)
	assert.Nil(prev)

	prev, err = c.ReplaceMethod("name", func(*Object) string { return "second" })
	assert.NoError(err)
	if assert.NotNil(prev) {
		assert.Equal("first", prev.(func(*Object) string)(nil))
	}

	name, err := Call[string](NewObject(c), "name")
	assert.NoError(err)
	assert.Equal("second", name)

	_, err = c.ReplaceMethod("name", 12)
	assert.ErrorIs(err, ErrBadImplementation)
}

func TestInstanceMethod(t *testing.T) {
	assert := assert.New(t)

	base := NewClass("Base", nil)
	require.NoError(t, base.AddMethod("insert:at:", func(self *Object, v string, i int) error { return nil }))
	sub := NewClass("Sub", base)

	_, ok := sub.LocalMethod("insert:at:")
	assert.False(ok)

	m, ok := sub.InstanceMethod("insert:at:")
	if assert.True(ok) {
		assert.Equal(Selector("insert:at:"), m.Name())
		assert.Equal(2, m.NumArgs())
		assert.Equal(reflect.TypeOf(func(*Object, string, int) error { return nil }), m.Signature())
		assert.Equal("func(*swizzle.Object, string, int) error", m.TypeEncoding())
		assert.IsType(func(*Object, string, int) error { return nil }, m.Implementation())
	}

	_, ok = sub.InstanceMethod("missing")
	assert.False(ok)
	assert.True(sub.RespondsTo("insert:at:"))
	assert.False(sub.RespondsTo("missing"))
}

func TestMethod_Variadic(t *testing.T) {
	c := NewClass("Thing", nil)
	require.NoError(t, c.AddMethod("sum:", func(self *Object, base int, vals ...int) int { return base }))

	m, ok := c.InstanceMethod("sum:")
	require.True(t, ok)
	assert.Equal(t, 1, m.NumArgs())
}

func TestMethod_Missing(t *testing.T) {
	assert := assert.New(t)

	m, ok := NewClass("Thing", nil).InstanceMethod("missing")
	assert.False(ok)
	assert.Equal(Selector(""), m.Name())
	assert.Nil(m.Signature())
	assert.Zero(m.NumArgs())
	assert.Empty(m.TypeEncoding())
	assert.Nil(m.Implementation())
	assert.Empty(m.String())
}

func TestMethods(t *testing.T) {
	c := NewClass("Thing", nil)
	for _, sel := range []Selector{"c", "a", "b"} {
		require.NoError(t, c.AddMethod(sel, func(*Object) {}))
	}

	assert.Equal(t, []Selector{"a", "b", "c"}, c.Methods())
}

func TestIsSubclassOf(t *testing.T) {
	assert := assert.New(t)

	root := NewClass("Root", nil)
	mid := NewClass("Mid", root)
	leaf := NewClass("Leaf", mid)
	other := NewClass("Other", root)

	assert.True(leaf.IsSubclassOf(leaf))
	assert.True(leaf.IsSubclassOf(mid))
	assert.True(leaf.IsSubclassOf(root))
	assert.False(leaf.IsSubclassOf(other))
	assert.False(root.IsSubclassOf(leaf))

	assert.Equal(mid, leaf.Superclass())
	assert.Nil(root.Superclass())
	assert.Equal("Leaf", leaf.String())
}

func TestAdopt(t *testing.T) {
	assert := assert.New(t)

	writer := NewProtocol("Writer", "write:", "flush")
	assert.Equal("Writer", writer.Name())
	assert.Equal([]Selector{"write:", "flush"}, writer.Selectors())

	base := NewClass("Base", nil)
	require.NoError(t, base.AddMethod("flush", func(*Object) {}))
	sub := NewClass("Sub", base)

	err := sub.Adopt(writer)
	assert.ErrorIs(err, ErrProtocolNotSatisfied)
	assert.Contains(err.Error(), "write:")
	assert.False(sub.ConformsTo(writer))

	require.NoError(t, sub.AddMethod("write:", func(*Object, string) {}))
	assert.NoError(sub.Adopt(writer))
	assert.NoError(sub.Adopt(writer))
	assert.True(sub.ConformsTo(writer))
	assert.False(base.ConformsTo(writer))

	leaf := NewClass("Leaf", sub)
	assert.True(leaf.ConformsTo(writer))
}
