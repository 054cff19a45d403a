package springview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockModule struct {
	installed bool
	order     *[]string
	name      string
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
}

type resourceModule struct{}

func (resourceModule) Install(app *App, commands *Commands) {
	commands.AddResources(NewMockResource1("from module"))
	commands.OnTeardown(func() {})
}

func TestAppBuilder_Build_Empty(t *testing.T) {
	app := NewAppBuilder().Build()

	assert.Equal(t, []string{"Prelude", "PreUpdate", "Update", "PostUpdate", "Animate", "PreRender", "Render", "PostRender", "Finale"}, app.Stages())
	assert.NoError(t, app.Tick())
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	builder.UseModule(&MockModule{})

	assert.Len(t, builder.modules, 1)
}

func TestAppBuilder_Build_WithMultipleModules(t *testing.T) {
	var order []string
	module1 := &MockModule{name: "first", order: &order}
	module2 := &MockModule{name: "second", order: &order}

	NewAppBuilder().UseModule(module1).UseModule(module2).Build()

	assert.True(t, module1.installed)
	assert.True(t, module2.installed)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestAppBuilder_ModuleResources(t *testing.T) {
	app := NewAppBuilder().UseModule(resourceModule{}).Build()

	r, ok := Resource[MockResource1](app)
	require.True(t, ok)
	assert.Equal(t, "from module", r.name)
	assert.Len(t, app.teardown, 1)
}
