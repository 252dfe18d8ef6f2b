package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls []string
}

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return nil
}

func (f *fakeExec) List(_ context.Context, args []string) error   { return f.rec("list", args) }
func (f *fakeExec) Show(_ context.Context, args []string) error   { return f.rec("show", args) }
func (f *fakeExec) New(_ context.Context, args []string) error    { return f.rec("new", args) }
func (f *fakeExec) Edit(_ context.Context, args []string) error   { return f.rec("edit", args) }
func (f *fakeExec) Delete(_ context.Context, args []string) error { return f.rec("delete", args) }
func (f *fakeExec) Sync(context.Context) error                    { return f.rec("sync", nil) }
func (f *fakeExec) Status(context.Context) error                  { return f.rec("status", nil) }

func silence(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			parts = append(parts, strings.TrimSpace(toString(v)))
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &printed
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silence(t)

	input := strings.Join([]string{
		"help",
		"l",
		"list work",
		"show n1",
		"new",
		"edit n1",
		"",
		"delete n2",
		"sync",
		"status",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "online" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"list", "list work", "show n1", "new", "edit n1", "delete n2", "sync", "status",
	}, exec.calls)
}

func TestRunREPL_UnknownCommandAndEOF(t *testing.T) {
	printed := silence(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "offline" }, bufio.NewReader(strings.NewReader("foobar\nshow last")))

	assert.Equal(t, []string{"show last"}, exec.calls)
	assert.Contains(t, *printed, "Unknown command: foobar")
	assert.Contains(t, *printed, "notes (offline)>")
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	silence(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list\n")))

	assert.Empty(t, exec.calls)
}
