package springview

// Commands is handed to modules while installing and to systems that ask for it.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

func (cmd *Commands) OnTeardown(fn func()) *Commands {
	cmd.app.OnTeardown(fn)
	return cmd
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
