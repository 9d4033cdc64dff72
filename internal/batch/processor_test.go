package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnalyzer fails for paths containing "bad" and tracks concurrency.
type fakeAnalyzer struct {
	mu      sync.Mutex
	seen    []string
	active  int32
	maxSeen int32
	delay   time.Duration
}

func (f *fakeAnalyzer) AnalyzeFile(_ context.Context, path string, _ *time.Time) (*models.Envelope, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		m := atomic.LoadInt32(&f.maxSeen)
		if n <= m || atomic.CompareAndSwapInt32(&f.maxSeen, m, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	f.seen = append(f.seen, path)
	f.mu.Unlock()

	if strings.Contains(path, "bad") {
		return nil, errors.New("cannot parse " + filepath.Base(path))
	}
	return &models.Envelope{
		Meta:   models.Meta{Source: filepath.Base(path)},
		Report: &models.Report{Count: 1},
	}, nil
}

func TestProcessor_OrderAndIsolation(t *testing.T) {
	faker := gofakeit.New(7)
	var paths []string
	for i := 0; i < 12; i++ {
		name := faker.LetterN(8) + ".pdf"
		if i%4 == 1 {
			name = "bad_" + name
		}
		paths = append(paths, filepath.Join("/in", name))
	}

	fa := &fakeAnalyzer{delay: 5 * time.Millisecond}
	p := NewProcessor(fa, 3, nil, logging.NewMockLogger())
	results := p.ProcessFiles(context.Background(), paths)

	require.Len(t, results, len(paths))
	assert.Len(t, fa.seen, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
		if strings.Contains(r.Path, "bad") {
			assert.Error(t, r.Err)
			assert.Nil(t, r.Envelope)
		} else {
			require.NoError(t, r.Err)
			assert.Equal(t, filepath.Base(paths[i]), r.Envelope.Meta.Source)
		}
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&fa.maxSeen), int32(3))
}

func TestProcessor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fa := &fakeAnalyzer{}
	results := NewProcessor(fa, 0, nil, nil).ProcessFiles(ctx, []string{"a.pdf", "b.pdf"})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Empty(t, fa.seen)
}

func TestNewProcessor_DefaultWorkers(t *testing.T) {
	p := NewProcessor(&fakeAnalyzer{}, -1, nil, nil)
	assert.Equal(t, DefaultWorkers, p.workers)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.csv", "notes.md", "c.XLSX"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0750))

	files, err := CollectFiles(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"a.csv", "b.pdf", "c.XLSX"}, names)

	_, err = CollectFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
