package tasks

// TaskSchedulerInterface is the surface the main wiring depends on.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
