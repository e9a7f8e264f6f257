package ecs

// System is run by a Scheduler once per frame. Exported Query and Singleton
// fields are bound when the system is registered; any other fields keep their
// values between frames.
type System interface {
	Execute(frame *UpdateFrame)
}
