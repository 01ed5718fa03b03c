package wordharvest

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/wordharvest/pkg/wordharvest/discover"
	"github.com/cognicore/wordharvest/pkg/wordharvest/hashset"
	"github.com/cognicore/wordharvest/pkg/wordharvest/ingest"
	"github.com/cognicore/wordharvest/pkg/wordharvest/internalerr"
	"github.com/cognicore/wordharvest/pkg/wordharvest/sink"
)

// paths is a Source over a fixed list.
type paths []string

func (p paths) Walk(ctx context.Context, yield func(string) error) error {
	for _, path := range p {
		if err := yield(path); err != nil {
			return err
		}
	}
	return nil
}

type testHarness struct {
	h    *Harvester
	out  *bytes.Buffer
	logs *bytes.Buffer
}

func newHarness(t *testing.T, maxLen, tableSize int) *testHarness {
	t.Helper()
	tok, err := ingest.NewTokenizer(maxLen, nil)
	if err != nil {
		t.Fatal(err)
	}
	set, err := hashset.New(tableSize)
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	h, err := New(Options{
		Tokenizer: tok,
		Set:       set,
		Sink:      sink.New(out),
		Logger:    log.New(logs, "", 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	return &testHarness{h: h, out: out, logs: logs}
}

func writeFiles(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var out []string
	for i, c := range contents {
		path := filepath.Join(dir, string(rune('a'+i))+".txt")
		if err := os.WriteFile(path, []byte(c), 0o644); err != nil {
			t.Fatal(err)
		}
		out = append(out, path)
	}
	return out
}

func lines(b *bytes.Buffer) []string {
	s := b.String()
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func expectLines(t *testing.T, b *bytes.Buffer, want ...string) {
	t.Helper()
	got := lines(b)
	if len(got) != len(want) {
		t.Fatalf("output = %q, want %v", b.String(), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name   string
		maxLen int
		files  []string
		want   []string
	}{
		{"repeated word", ingest.DefaultMaxTokenLen, []string{"foo bar foo baz"}, []string{"foo", "bar", "baz"}},
		{"alphanumeric", ingest.DefaultMaxTokenLen, []string{"a1b2 a1b2"}, []string{"a1b2"}},
		{"truncated run", 4, []string{"abcdef"}, []string{"abcd", "ef"}},
		{"empty file", ingest.DefaultMaxTokenLen, []string{""}, nil},
		{"overlapping files", ingest.DefaultMaxTokenLen, []string{"cat dog", "dog bird"}, []string{"cat", "dog", "bird"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newHarness(t, tt.maxLen, hashset.DefaultSize)
			st, err := th.h.Run(context.Background(), paths(writeFiles(t, tt.files...)))
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			expectLines(t, th.out, tt.want...)
			if st.Emitted != int64(len(tt.want)) || st.Distinct != len(tt.want) {
				t.Errorf("Stats = %+v, want %d emitted", st, len(tt.want))
			}
			if st.Files != len(tt.files) || st.Skipped != 0 {
				t.Errorf("Stats files = %d skipped = %d", st.Files, st.Skipped)
			}
			if th.logs.Len() != 0 {
				t.Errorf("unexpected diagnostics: %s", th.logs.String())
			}
		})
	}
}

func TestUniquenessAndOrderAcrossFiles(t *testing.T) {
	// A tiny table forces long chains without changing the output.
	th := newHarness(t, ingest.DefaultMaxTokenLen, 3)
	files := writeFiles(t,
		"one two three two one",
		"four one five",
		"five six; seven!! one",
	)

	st, err := th.h.Run(context.Background(), paths(files))
	if err != nil {
		t.Fatal(err)
	}
	expectLines(t, th.out, "one", "two", "three", "four", "five", "six", "seven")
	if st.Tokens != 12 {
		t.Errorf("Tokens = %d, want 12", st.Tokens)
	}
	if st.Emitted != 7 {
		t.Errorf("Emitted = %d, want 7", st.Emitted)
	}
}

func TestOpenFailureSkipped(t *testing.T) {
	th := newHarness(t, ingest.DefaultMaxTokenLen, 64)
	files := writeFiles(t, "alpha", "beta")
	missing := filepath.Join(t.TempDir(), "gone.txt")

	st, err := th.h.Run(context.Background(), paths{files[0], missing, files[1]})
	if err != nil {
		t.Fatalf("open failure should not be fatal: %v", err)
	}
	expectLines(t, th.out, "alpha", "beta")
	if st.Skipped != 1 || st.Files != 2 {
		t.Errorf("Stats = %+v, want 2 files and 1 skipped", st)
	}
	if !strings.Contains(th.logs.String(), "can't open file "+missing) {
		t.Errorf("diagnostics = %q, want open failure for %s", th.logs.String(), missing)
	}
}

func TestHarvestFileOpenError(t *testing.T) {
	th := newHarness(t, ingest.DefaultMaxTokenLen, 64)
	_, err := th.h.HarvestFile(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, internalerr.ErrFileOpen) {
		t.Errorf("HarvestFile error = %v, want ErrFileOpen", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("HarvestFile error = %v, want wrapped ErrNotExist", err)
	}
}

func TestHarvestReaderIdempotent(t *testing.T) {
	th := newHarness(t, ingest.DefaultMaxTokenLen, 64)
	ctx := context.Background()

	res, err := th.h.HarvestReader(ctx, strings.NewReader("x y"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Tokens != 2 || res.Emitted != 2 {
		t.Errorf("first pass = %+v", res)
	}

	res, err = th.h.HarvestReader(ctx, strings.NewReader("y x"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Tokens != 2 || res.Emitted != 0 {
		t.Errorf("second pass = %+v, want nothing emitted", res)
	}
	if th.h.Set().Len() != 2 {
		t.Errorf("Set().Len() = %d, want 2", th.h.Set().Len())
	}
	expectLines(t, th.out, "x", "y")
}

type brokenWriter struct{ after int }

func (b *brokenWriter) Write(p []byte) (int, error) {
	if b.after == 0 {
		return 0, errors.New("disk full")
	}
	b.after--
	return len(p), nil
}

func TestSinkFailureAborts(t *testing.T) {
	tok, _ := ingest.NewTokenizer(ingest.DefaultMaxTokenLen, nil)
	set, _ := hashset.New(64)
	h, err := New(Options{Tokenizer: tok, Set: set, Sink: sink.New(&brokenWriter{after: 1}), Logger: log.New(&bytes.Buffer{}, "", 0)})
	if err != nil {
		t.Fatal(err)
	}

	files := writeFiles(t, "one two", "three")
	st, err := h.Run(context.Background(), paths(files))
	if err == nil {
		t.Fatal("sink failure should abort the run")
	}
	if st.Emitted != 1 {
		t.Errorf("Emitted = %d, want 1 before failure", st.Emitted)
	}
}

func TestRunCanceled(t *testing.T) {
	th := newHarness(t, ingest.DefaultMaxTokenLen, 64)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := th.h.Run(ctx, paths(writeFiles(t, "never seen")))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if th.out.Len() != 0 {
		t.Errorf("canceled run wrote %q", th.out.String())
	}
}

func TestRunWithWalker(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"b.txt":      "beta gamma",
		"a.txt":      "alpha beta",
		"notes.text": "delta alpha",
		"skip.md":    "ignored",
		"sub/c.txt":  "gamma epsilon",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		os.MkdirAll(filepath.Dir(path), 0o755)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	th := newHarness(t, ingest.DefaultMaxTokenLen, hashset.DefaultSize)
	st, err := th.h.Run(context.Background(), &discover.Walker{Root: root, Extensions: discover.DefaultExtensions})
	if err != nil {
		t.Fatal(err)
	}
	expectLines(t, th.out, "alpha", "beta", "gamma", "epsilon", "delta")
	if st.Files != 4 {
		t.Errorf("Files = %d, want 4", st.Files)
	}
}

func TestNewRequiresComponents(t *testing.T) {
	_, err := New(Options{})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("New(empty) error = %v, want ErrInvalidConfig", err)
	}
}
