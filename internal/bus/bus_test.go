package bus

import (
	"testing"
	"time"
)

func TestBusOrderingSingleSender(t *testing.T) {
	b := New[int]("test", 8)
	for i := 0; i < 5; i++ {
		if !b.Send(NewErrorContext(), i) {
			t.Fatalf("send %d failed", i)
		}
	}
	for i := 0; i < 5; i++ {
		select {
		case env := <-b.Recv():
			if env.Ctx != i {
				t.Fatalf("want %d got %d", i, env.Ctx)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out")
		}
	}
}

func TestBusSendAfterCloseIsFalse(t *testing.T) {
	b := New[int]("test", 1)
	b.Close()
	if b.Send(NewErrorContext(), 1) {
		t.Fatal("send on closed bus should report failure")
	}
}

func TestErrorContextPushCapsDepth(t *testing.T) {
	ctx := NewErrorContext()
	for i := 0; i < maxBreadcrumbs+10; i++ {
		ctx = ctx.Push("frame")
	}
	if len(ctx.Frames()) != maxBreadcrumbs {
		t.Fatalf("want %d frames, got %d", maxBreadcrumbs, len(ctx.Frames()))
	}
}

func TestAckBarrierWait(t *testing.T) {
	barrier := NewAckBarrier()
	done := make(chan struct{})
	go func() {
		barrier.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("barrier fired before Done")
	case <-time.After(20 * time.Millisecond):
	}
	barrier.Done()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("barrier never released waiter")
	}
}

func TestGuardPostsError(t *testing.T) {
	server := New[ServerInstruction]("server", 1)
	func() {
		defer Guard(NewErrorContext(), server)
		panic("boom")
	}()
	select {
	case env := <-server.Recv():
		if env.Ctx.Kind != SvError {
			t.Fatalf("want SvError, got %v", env.Ctx.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("no error instruction posted")
	}
}
