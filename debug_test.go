package tactile

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// captureLogs installs a test logger at debug level for the duration of t.
func captureLogs(t *testing.T) *test.Hook {
	t.Helper()
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	SetLogger(l)
	t.Cleanup(func() { SetLogger(nil) })
	return hook
}

func hasMessage(hook *test.Hook, level logrus.Level, msg string) bool {
	for _, e := range hook.AllEntries() {
		if e.Level == level && strings.Contains(e.Message, msg) {
			return true
		}
	}
	return false
}

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug = true
	ctx := NewContext(cfg)
	parent := NewNode("parent", "", nil)
	ctx.Add(parent)

	gone := NewNode("gone", "", nil)
	ctx.Add(gone)
	gone.StartDeletion()
	ctx.Tick(0.1)
	if !gone.IsDisposed() {
		t.Fatal("node should be disposed")
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddChild with disposed node, got none")
		}
		if msg := fmt.Sprint(r); !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()
	parent.AddChild(gone)
}

func TestDebugMode_TickStats(t *testing.T) {
	hook := captureLogs(t)
	cfg := DefaultConfig()
	cfg.Debug = true
	ctx := NewContext(cfg)
	ctx.Add(NewNode("n", "", Plane{}))
	press(ctx, 1, 0, 0, 0.1)

	entry := hook.LastEntry()
	if entry == nil || entry.Message != "tick" || entry.Level != logrus.DebugLevel {
		t.Fatalf("last entry = %+v", entry)
	}
	if entry.Data["nodes"] != 1 || entry.Data["touches"] != 1 || entry.Data["hovers"] != 1 {
		t.Errorf("fields = %v", entry.Data)
	}
}

func TestDebugMode_Off(t *testing.T) {
	hook := captureLogs(t)
	ctx := NewContext(DefaultConfig())
	ctx.Tick(0.1)
	if hasMessage(hook, logrus.DebugLevel, "tick") {
		t.Error("tick stats logged without debug mode")
	}
}

func TestDebugMode_DeepTreeWarns(t *testing.T) {
	hook := captureLogs(t)
	cfg := DefaultConfig()
	cfg.Debug = true
	ctx := NewContext(cfg)
	n := NewNode("d0", "", nil)
	ctx.Add(n)
	for i := 1; i <= debugMaxTreeDepth; i++ {
		c := NewNode(fmt.Sprintf("d%d", i), "", nil)
		n.AddChild(c)
		n = c
	}
	if !hasMessage(hook, logrus.WarnLevel, "tree depth exceeds") {
		t.Error("expected depth warning")
	}
}

func TestDebugMode_WideNodeWarns(t *testing.T) {
	hook := captureLogs(t)
	cfg := DefaultConfig()
	cfg.Debug = true
	ctx := NewContext(cfg)
	root := NewNode("root", "", nil)
	ctx.Add(root)
	for i := 0; i <= debugMaxChildCount; i++ {
		root.AddChild(NewNode(fmt.Sprintf("c%04d", i), "", nil))
	}
	if !hasMessage(hook, logrus.WarnLevel, "child count exceeds") {
		t.Error("expected child count warning")
	}
}

func TestSweepLogsRemoval(t *testing.T) {
	hook := captureLogs(t)
	ctx := NewContext(DefaultConfig())
	n := NewNode("n", "", nil)
	ctx.Add(n)
	n.StartDeletion()
	ctx.Tick(0.1)
	if !hasMessage(hook, logrus.InfoLevel, "swept deleted elements") {
		t.Error("expected sweep log")
	}
}

func TestSetLoggerNilRestoresDefault(t *testing.T) {
	captureLogs(t)
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
	Logger().Info("discarded")
}
