package ecs

// System is a unit of per-tick behavior. Systems keep their own state
// between ticks and are executed in registration order.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a function to the System interface.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}
