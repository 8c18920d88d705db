package syncengine_test

import (
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/tree-sync/internal/syncengine"
)

func TestControl_WaitWhilePausedReturnsImmediatelyWhenRunning(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	control := syncengine.NewControl()
	g.Expect(control.WaitWhilePaused()).To(BeFalse())
	g.Expect(control.Paused()).To(BeFalse())
	g.Expect(control.StopRequested()).To(BeFalse())
}

func TestControl_ResumeReleasesWaiter(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	control := syncengine.NewControl()
	control.Pause()

	stopped := make(chan bool, 1)

	go func() { stopped <- control.WaitWhilePaused() }()

	g.Consistently(stopped).WithTimeout(50 * time.Millisecond).ShouldNot(Receive())

	control.Resume()
	g.Eventually(stopped).Should(Receive(BeFalse()))
}

func TestControl_StopWakesPausedWaiter(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	control := syncengine.NewControl()
	control.Pause()

	stopped := make(chan bool, 1)

	go func() { stopped <- control.WaitWhilePaused() }()

	control.Stop()
	g.Eventually(stopped).Should(Receive(BeTrue()))
	g.Expect(control.Paused()).To(BeTrue(), "stop does not clear the pause flag")
}

func TestControl_StopWinsOverResume(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	control := syncengine.NewControl()
	control.Pause()
	control.Stop()
	control.Resume()
	control.Stop()

	g.Expect(control.WaitWhilePaused()).To(BeTrue())
}

func TestControl_TogglePause(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	control := syncengine.NewControl()
	g.Expect(control.TogglePause()).To(BeTrue())
	g.Expect(control.Paused()).To(BeTrue())
	g.Expect(control.TogglePause()).To(BeFalse())
	g.Expect(control.WaitWhilePaused()).To(BeFalse())
}
