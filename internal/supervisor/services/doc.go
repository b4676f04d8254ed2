// Package services adapts the platform's long-running components to
// suture.Service so they can be registered with a supervisor.SupervisorTree
// layer. Each adapter translates that component's own start/stop shape
// into suture's context-driven Serve(ctx) error.
package services
