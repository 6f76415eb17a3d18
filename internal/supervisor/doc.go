// Package supervisor owns the lifecycle of the single backend server process
// that botshell runs on behalf of the desktop application.
//
// A Supervisor holds at most one child process handle behind a mutex and
// exposes three operations:
//
//   - Start spawns the backend unless one is already running.
//   - Stop sends the configured termination signal and forgets the handle.
//   - Check polls the child without blocking and reaps it if it has exited.
//
// Every operation holds the lock for its whole critical section and returns
// an error value instead of panicking. A panic raised while the lock is held
// poisons the supervisor: later calls fail with ErrLockPoisoned rather than
// act on a handle that may be torn.
//
// Example usage:
//
//	inv := supervisor.DefaultInvocation()
//	cmd, err := inv.Command(supervisor.ModeDevelopment, exePath)
//	if err != nil {
//	    return err
//	}
//	sup := supervisor.New(supervisor.Config{Command: cmd})
//	res, err := sup.Start()
package supervisor
