package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joe/tree-sync/internal/config"
	"github.com/joe/tree-sync/internal/syncengine"
	"github.com/joe/tree-sync/internal/tui/shared"
)

type fakeControl struct {
	paused  bool
	toggles int
	stops   int
}

func (f *fakeControl) TogglePause() bool {
	f.toggles++
	f.paused = !f.paused

	return f.paused
}

func (f *fakeControl) Stop() { f.stops++ }

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var _ = Describe("Model", func() {
	var (
		control *fakeControl
		bridge  *shared.EventBridge
		model   Model
	)

	send := func(msg tea.Msg) tea.Cmd {
		updated, cmd := model.Update(msg)
		model = updated.(Model)

		return cmd
	}

	emit := func(event syncengine.Event) tea.Cmd {
		return send(shared.EngineEventMsg{Event: event})
	}

	BeforeEach(func() {
		control = &fakeControl{}
		bridge = shared.NewEventBridge()
		model = NewModel(control, bridge, syncengine.Config{
			SourceRoot:   "/src",
			DestRoot:     "/dst",
			Mode:         config.CopyNewerOnly,
			ErrorLogPath: "file_copy_errors.log",
		})
	})

	AfterEach(func() {
		bridge.Close()
	})

	Describe("Initial state", func() {
		It("starts in the counting phase", func() {
			Expect(model.State()).To(Equal(syncengine.StateCounting))
			Expect(model.Finished()).To(BeFalse())
			Expect(model.View()).To(ContainSubstring("Counting files..."))
		})

		It("listens for events from the start", func() {
			Expect(model.Init()).ToNot(BeNil())
		})

		It("shows the run configuration", func() {
			view := model.View()
			Expect(view).To(ContainSubstring("/src"))
			Expect(view).To(ContainSubstring("/dst"))
			Expect(view).To(ContainSubstring("copy-newer"))
		})
	})

	Describe("Engine events", func() {
		BeforeEach(func() {
			emit(syncengine.CountingStarted{SourceRoot: "/src"})
			emit(syncengine.CountingComplete{TotalFiles: 4})
		})

		It("switches to copying once counting is complete", func() {
			Expect(model.State()).To(Equal(syncengine.StateCopying))
			Expect(model.Counters().TotalFiles).To(Equal(4))
		})

		It("keeps listening after every non-terminal event", func() {
			Expect(emit(syncengine.DirectoryEntered{Path: "/src"})).ToNot(BeNil())
			Expect(emit(syncengine.Progress{})).ToNot(BeNil())
		})

		It("tracks recent new and overwritten files newest first", func() {
			for i := range 7 {
				emit(syncengine.FileCopied{DestPath: fmt.Sprintf("/dst/new%d", i), Decision: syncengine.CopyAsNew})
			}

			emit(syncengine.FileCopied{DestPath: "/dst/old", Decision: syncengine.CopyAsOverwrite})

			Expect(model.RecentNew()).To(Equal([]string{"/dst/new6", "/dst/new5", "/dst/new4", "/dst/new3", "/dst/new2"}))
			Expect(model.RecentOverwritten()).To(Equal([]string{"/dst/old"}))
			Expect(model.View()).To(ContainSubstring("Recently overwritten"))
		})

		It("renders progress and counts", func() {
			counters := syncengine.Counters{FilesProcessed: 1, NewFiles: 1, TotalFiles: 4}
			emit(syncengine.Progress{Counters: counters, Percent: counters.Percent()})

			Expect(model.Counters()).To(Equal(counters))

			view := model.View()
			Expect(view).To(ContainSubstring("1 / 4 files"))
			Expect(view).To(ContainSubstring("New Files: 1 | Overwritten Files: 0"))
			Expect(view).To(ContainSubstring("25%"))
		})

		It("shows the degraded status after a failure", func() {
			Expect(model.View()).ToNot(ContainSubstring("Errors encountered. See log."))

			emit(syncengine.FileFailed{SourcePath: "/src/bad", DestPath: "/dst/bad", Err: errors.New("permission denied")})

			Expect(model.Failures()).To(HaveLen(1))
			Expect(model.Counters().Errors).To(Equal(1))
			Expect(model.View()).To(ContainSubstring("Errors encountered. See log."))
			Expect(model.View()).To(ContainSubstring("/src/bad"))
		})

		It("shows the summary when the run completes", func() {
			cmd := emit(syncengine.RunFinished{
				Counters: syncengine.Counters{FilesProcessed: 3, NewFiles: 2, OverwrittenFiles: 1, TotalFiles: 3},
				State:    syncengine.StateCompleted,
			})

			Expect(cmd).To(BeNil(), "nothing left to listen for")
			Expect(model.Finished()).To(BeTrue())

			view := model.View()
			Expect(view).To(ContainSubstring("File copy completed! 3 files processed."))
			Expect(view).To(ContainSubstring("New Files: 2 | Overwritten Files: 1"))
		})

		It("shows the traversal error when the run fails", func() {
			runErr := &syncengine.RunError{Path: "/src/sub", Err: errors.New("injected")}
			emit(syncengine.RunFinished{State: syncengine.StateFailed, Err: runErr})

			Expect(model.View()).To(ContainSubstring("walking /src/sub: injected"))
		})
	})

	Describe("Keys", func() {
		BeforeEach(func() {
			emit(syncengine.CountingComplete{TotalFiles: 2})
		})

		It("toggles pause with p and space", func() {
			send(runeKey('p'))
			Expect(model.Paused()).To(BeTrue())
			Expect(model.View()).To(ContainSubstring("Paused"))

			send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			Expect(model.Paused()).To(BeFalse())
			Expect(control.toggles).To(Equal(2))
		})

		It("stops once with s or esc", func() {
			Expect(send(runeKey('s'))).To(BeNil())
			send(tea.KeyMsg{Type: tea.KeyEsc})

			Expect(control.stops).To(Equal(1))
			Expect(model.View()).To(ContainSubstring("Stopping"))
		})

		It("ignores pause requests while stopping", func() {
			send(runeKey('s'))
			send(runeKey('p'))

			Expect(control.toggles).To(Equal(0))
		})

		It("stops and waits for the engine before quitting on q", func() {
			Expect(send(runeKey('q'))).To(BeNil())
			Expect(control.stops).To(Equal(1))

			cmd := emit(syncengine.RunFinished{State: syncengine.StateStopped, Err: syncengine.ErrStopped})
			Expect(cmd).ToNot(BeNil())
			Expect(cmd()).To(Equal(tea.QuitMsg{}))
		})

		It("treats ctrl+c like q", func() {
			send(tea.KeyMsg{Type: tea.KeyCtrlC})
			Expect(control.stops).To(Equal(1))
		})

		It("quits directly once the run has finished", func() {
			emit(syncengine.RunFinished{State: syncengine.StateCompleted})

			cmd := send(tea.KeyMsg{Type: tea.KeyEnter})
			Expect(cmd).ToNot(BeNil())
			Expect(cmd()).To(Equal(tea.QuitMsg{}))
			Expect(control.stops).To(Equal(0))
		})
	})

	Describe("Window size", func() {
		It("sizes the progress bar to the terminal", func() {
			send(tea.WindowSizeMsg{Width: 60, Height: 20})
			Expect(model.progress.Width).To(Equal(shared.ProgressWidth(60)))
		})
	})
})
