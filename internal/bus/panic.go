package bus

import (
	"fmt"
	"runtime/debug"
)

// Guard recovers a panic on the calling goroutine, converts it to a
// ServerInstruction::Error carrying ctx, and posts it on server (spec §7
// kind 4, §4.H "panic relay"). Call as `defer bus.Guard(ctx, serverBus)` at
// the top of every long-lived thread's run loop.
func Guard(ctx ErrorContext, server *Bus[ServerInstruction]) {
	r := recover()
	if r == nil {
		return
	}
	msg := fmt.Sprintf("panic: %v\n%s", r, debug.Stack())
	server.Send(ctx, ServerInstruction{
		Kind:    SvError,
		Message: msg,
		Ctx:     ctx,
	})
}
