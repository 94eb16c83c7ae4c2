package core

// Result is what a resource Apply returns: not only an error but whether
// anything changed and a human readable message.
type Result struct {
	Changed bool
	Failed  bool
	Message string
	Error   error
}

// SuccessChange returns a successful result that changed the system.
func SuccessChange(msg string) Result {
	return Result{
		Changed: true,
		Message: msg,
	}
}

// SuccessNoChange returns a successful result with nothing to do.
func SuccessNoChange(msg string) Result {
	return Result{
		Changed: false,
		Message: msg,
	}
}

// Failure returns a failed result.
func Failure(err error, msg string) Result {
	return Result{
		Failed:  true,
		Message: msg,
		Error:   err,
	}
}
