package springview

import (
	"fmt"
	"slices"
)

type Stage struct {
	Name string
}

var (
	Prelude    = Stage{Name: "Prelude"}
	PreUpdate  = Stage{Name: "PreUpdate"}
	Update     = Stage{Name: "Update"}
	PostUpdate = Stage{Name: "PostUpdate"}
	Animate    = Stage{Name: "Animate"}
	PreRender  = Stage{Name: "PreRender"}
	Render     = Stage{Name: "Render"}
	PostRender = Stage{Name: "PostRender"}
	Finale     = Stage{Name: "Finale"}
)

// defaultStages is the per-tick order: clock and inbound queues, pointer, interaction,
// physics, animation, frame assembly and rendering.
func defaultStages() []Stage {
	return []Stage{Prelude, PreUpdate, Update, PostUpdate, Animate, PreRender, Render, PostRender, Finale}
}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

// System wraps a function whose parameters are resolved from App resources. It may
// return nothing or a single error. Systems default to the Update stage.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{
		position: stageBefore,
		target:   s,
	}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{
		position: stageAfter,
		target:   s,
	}
}

func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	stageIdx := app.stageIndex(where.target)
	if -1 == stageIdx {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}
	if app.stageIndex(stage) != -1 {
		panic(fmt.Sprintf("Stage %v already exists", stage.Name))
	}

	insertAt := stageIdx + 1
	if stageBefore == where.position {
		insertAt = stageIdx
	}

	app.stages = slices.Insert(app.stages, insertAt, stage)
	app.systems[stage.Name] = make([]systemFn, 0)
	return app
}

func (app *App) UseSystem(system systemScheduleBuilder) *App {
	if _, ok := app.systems[system.inStage.Name]; !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	checkSystem(system.system)
	app.systems[system.inStage.Name] = append(app.systems[system.inStage.Name], system.system)
	return app
}

func (app *App) stageIndex(s Stage) int {
	for i, st := range app.stages {
		if st.Name == s.Name {
			return i
		}
	}
	return -1
}

// Stages returns the stage names in execution order.
func (app *App) Stages() []string {
	names := make([]string, len(app.stages))
	for i, s := range app.stages {
		names[i] = s.Name
	}
	return names
}
