package errors_test

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	apperrors "github.com/joe/tree-sync/pkg/errors"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want apperrors.ErrorCategory
	}{
		{"wrapped permission", fmt.Errorf("create /dst/a: %w", os.ErrPermission), apperrors.CategoryPermission},
		{"path error EACCES", &os.PathError{Op: "open", Path: "/x", Err: syscall.EACCES}, apperrors.CategoryPermission},
		{"disk full", &os.PathError{Op: "write", Path: "/x", Err: syscall.ENOSPC}, apperrors.CategoryDiskSpace},
		{"missing file", fmt.Errorf("stat: %w", os.ErrNotExist), apperrors.CategoryPath},
		{"eio", fmt.Errorf("read: %w", syscall.EIO), apperrors.CategoryIO},
		{"message only permission", errors.New("Access Denied by policy"), apperrors.CategoryPermission},
		{"message only quota", errors.New("user quota exceeded"), apperrors.CategoryDiskSpace},
		{"message only short write", errors.New("short write"), apperrors.CategoryIO},
		{"nothing recognisable", errors.New("the cat sat on the keyboard"), apperrors.CategoryUnknown},
		{"nil", nil, apperrors.CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			g.Expect(apperrors.Classify(tt.err)).To(Equal(tt.want))
		})
	}
}

func TestEnrich_WrapsAndKeepsCause(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cause := fmt.Errorf("failed to create destination file /dst/a.txt: %w", os.ErrPermission)
	enriched := apperrors.NewEnricher().Enrich(cause, "/dst/a.txt")

	var actionable apperrors.ActionableError
	g.Expect(errors.As(enriched, &actionable)).To(BeTrue())
	g.Expect(actionable.Category()).To(Equal(apperrors.CategoryPermission))
	g.Expect(actionable.AffectedPath()).To(Equal("/dst/a.txt"))
	g.Expect(actionable.Suggestions()).To(ContainElement(ContainSubstring("ls -la /dst/a.txt")))
	g.Expect(enriched.Error()).To(Equal(cause.Error()))
	g.Expect(enriched).To(MatchError(os.ErrPermission), "the original error stays reachable")
}

func TestEnrich_ExtractsPathFromMessage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	enriched := apperrors.NewEnricher().Enrich(errors.New("open /srv/data/report.csv: no such file or directory"), "")

	var actionable apperrors.ActionableError
	g.Expect(errors.As(enriched, &actionable)).To(BeTrue())
	g.Expect(actionable.AffectedPath()).To(Equal("/srv/data/report.csv"))
	g.Expect(actionable.Category()).To(Equal(apperrors.CategoryPath))
}

func TestEnrich_IsIdempotent(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	enricher := apperrors.NewEnricher()
	once := enricher.Enrich(errors.New("disk full"), "/dst")
	twice := enricher.Enrich(fmt.Errorf("again: %w", once), "/elsewhere")

	var actionable apperrors.ActionableError
	g.Expect(errors.As(twice, &actionable)).To(BeTrue())
	g.Expect(actionable.AffectedPath()).To(Equal("/dst"))
	g.Expect(enricher.Enrich(nil, "")).To(BeNil())
}

func TestFormatSuggestions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	err := apperrors.NewActionableError(errors.New("boom"), apperrors.CategoryIO, []string{"first", "second"}, "")
	g.Expect(apperrors.FormatSuggestions(err)).To(Equal("  • first\n  • second"))

	g.Expect(apperrors.FormatSuggestions(nil)).To(BeEmpty())
	g.Expect(apperrors.FormatSuggestions(errors.New("plain"))).To(BeEmpty())
	g.Expect(apperrors.FormatSuggestions(
		apperrors.NewActionableError(errors.New("boom"), apperrors.CategoryIO, nil, ""),
	)).To(BeEmpty())
}

func TestSuggestionGenerator_MentionsPathOnlyWhenKnown(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	generator := apperrors.NewSuggestionGenerator()

	withPath := generator.Generate(apperrors.CategoryDiskSpace, "/mnt/backup")
	withoutPath := generator.Generate(apperrors.CategoryDiskSpace, "")

	g.Expect(withPath).To(HaveLen(len(withoutPath) + 1))
	g.Expect(withPath[len(withPath)-1]).To(ContainSubstring("/mnt/backup"))
	g.Expect(generator.Generate(apperrors.CategoryIO, "/x")).ToNot(BeEmpty())
	g.Expect(generator.Generate(apperrors.ErrorCategory("bogus"), "")).To(BeNil())
}
