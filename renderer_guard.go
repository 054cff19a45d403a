package springview

import (
	"fmt"
	"reflect"
)

// RendererTag records which renderer the app was built with. Only one is allowed.
type RendererTag struct {
	Name string
}

func rendererName(r any) string {
	return reflect.TypeOf(r).String()
}

// ensureSingleRenderer panics if a different renderer was already installed.
func ensureSingleRenderer(app *App, name string) {
	if tag, ok := Resource[RendererTag](app); ok {
		if tag.Name != name {
			app.Logger().Errorf("multiple renderers installed: %s and %s", tag.Name, name)
			panic(fmt.Sprintf("multiple renderers installed: %s and %s", tag.Name, name))
		}
		return
	}
	app.addResources(&RendererTag{Name: name})
}
