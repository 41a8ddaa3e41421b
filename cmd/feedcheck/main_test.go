package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/sheetmap/config"
	"github.com/milk9111/sheetmap/feed"
)

func TestCheckReportsCounts(t *testing.T) {
	dir := t.TempDir()
	rects := filepath.Join(dir, "rects.csv")
	require.NoError(t, os.WriteFile(rects, []byte("x,y,name\n1,2,a\n,5,b\n3,4,c\n"), 0o644))

	var out bytes.Buffer
	ok := check(context.Background(), feed.NewFetcher(time.Second), config.FeedsConfig{Rects: rects}, true, &out, zerolog.Nop())

	assert.True(t, ok)
	assert.Contains(t, out.String(), "rects  rows=3 placed=2 skipped=1 failed=0")
	assert.Contains(t, out.String(), `line 3: name="b" x="" y="5"`)
	assert.Contains(t, out.String(), "images disabled")
}

func TestCheckLineNumbersCountBlankLines(t *testing.T) {
	dir := t.TempDir()
	rects := filepath.Join(dir, "rects.csv")
	require.NoError(t, os.WriteFile(rects, []byte("x,y,name\n\n1,2,a\n,5,b\n"), 0o644))

	var out bytes.Buffer
	check(context.Background(), feed.NewFetcher(time.Second), config.FeedsConfig{Rects: rects}, true, &out, zerolog.Nop())

	assert.Contains(t, out.String(), `line 4: name="b" x="" y="5"`)
	assert.NotContains(t, out.String(), "line 3:")
}

func TestCheckFailsOnBrokenFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	var out bytes.Buffer
	ok := check(context.Background(), feed.NewFetcher(time.Second), config.FeedsConfig{Images: srv.URL}, false, &out, zerolog.Nop())

	assert.False(t, ok)
	assert.Contains(t, out.String(), "images FAILED")
}
