package springview

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

var ErrClosed = errors.New("springview: app closed")

type systemFn any

type Module interface {
	Install(app *App, cmd *Commands)
}

// App runs every registered system once per Tick, stage by stage. It never schedules
// itself; the host decides when to tick.
type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	logger    Logger
	teardown  []func()
	closed    bool
	ticks     uint64
}

func newApp() *App {
	app := &App{
		stages:    defaultStages(),
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, s := range app.stages {
		app.systems[s.Name] = make([]systemFn, 0)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Tick runs one frame. A system that fails or panics is logged and the remaining systems
// still run.
func (app *App) Tick() error {
	if app.closed {
		return ErrClosed
	}
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(stage, system)
		}
	}
	app.ticks++
	return nil
}

// Ticks is the number of completed ticks.
func (app *App) Ticks() uint64 { return app.ticks }

// Run ticks until stop returns true or the app is closed.
func (app *App) Run(stop func() bool) {
	for !app.closed && !stop() {
		app.Tick()
	}
}

// OnTeardown registers fn to run on Close, in reverse registration order.
func (app *App) OnTeardown(fn func()) {
	app.teardown = append(app.teardown, fn)
}

// Close runs the teardown hooks once. Later ticks return ErrClosed.
func (app *App) Close() {
	if app.closed {
		return
	}
	app.closed = true
	for i := len(app.teardown) - 1; i >= 0; i-- {
		app.teardown[i]()
	}
	app.teardown = nil
}

func (app *App) Closed() bool { return app.closed }

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("%s is not a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type *T, if registered.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

func (app *App) callSystem(stage Stage, system systemFn) {
	defer func() {
		if r := recover(); r != nil {
			app.Logger().Errorf("%s: system %s panicked: %v", stage.Name, systemName(system), r)
		}
	}()
	if err := app.callSystemInternal(system); err != nil {
		app.Logger().Errorf("%s: system %s: %v", stage.Name, systemName(system), err)
	}
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfLogger   = reflect.TypeOf((*Logger)(nil)).Elem()
	typeOfError    = reflect.TypeOf((*error)(nil)).Elem()
)

func checkSystem(system systemFn) {
	t := reflect.TypeOf(system)
	if t == nil || t.Kind() != reflect.Func {
		panic(fmt.Sprintf("system %v is not a function", system))
	}
	switch {
	case t.NumOut() == 0:
	case t.NumOut() == 1 && t.Out(0) == typeOfError:
	default:
		panic(fmt.Sprintf("system %s must return nothing or error", systemName(system)))
	}
}

func (app *App) callSystemInternal(system systemFn) error {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)

		if argType == typeOfLogger {
			args[i] = reflect.ValueOf(app.Logger())
			continue
		}
		if argType.Kind() != reflect.Pointer {
			return fmt.Errorf("dependency %s is not a pointer", argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			return fmt.Errorf("unable to resolve dependency %s (system type %s)", argType, systemType)
		}
	}
	out := systemValue.Call(args)
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

func systemName(system systemFn) string {
	v := reflect.ValueOf(system)
	if v.Kind() != reflect.Func {
		return fmt.Sprint(v.Type())
	}
	return runtime.FuncForPC(v.Pointer()).Name()
}
