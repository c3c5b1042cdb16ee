package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/engine"
)

type nopEngine struct{ engine.Engine }

func TestRegisterAndCreate(t *testing.T) {
	var got engine.World
	Register("test-nop", "No-op", func(w engine.World) engine.Engine {
		got = w
		return nopEngine{}
	})

	assert.True(t, Exists("test-nop"))
	assert.Contains(t, List(), EngineInfo{Name: "test-nop", Title: "No-op"})

	world := engine.World{Bounds: core.Box{Max: core.V(10, 10)}, Gravity: 3}
	e, err := Create("test-nop", world)
	require.NoError(t, err)
	assert.IsType(t, nopEngine{}, e)
	assert.Equal(t, world, got)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	f := func(engine.World) engine.Engine { return nopEngine{} }
	Register("test-dup", "Dup", f)
	assert.Panics(t, func() { Register("test-dup", "Dup", f) })
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("no-such-engine", engine.World{})
	assert.EqualError(t, err, `registry: unknown engine "no-such-engine"`)
	assert.False(t, Exists("no-such-engine"))
}

func TestListSorted(t *testing.T) {
	f := func(engine.World) engine.Engine { return nopEngine{} }
	Register("test-zz", "Z", f)
	Register("test-aa", "A", f)

	list := List()
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Name, list[i].Name)
	}
}
