package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func collect(t *testing.T, s Source, target string) map[string]string {
	t.Helper()
	units := map[string]string{}
	err := s.Acquire(context.Background(), target, func(loc, content string) {
		units[loc] = content
	})
	require.NoError(t, err)
	return units
}

func TestFileSourceEmitsSingleUnit(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "app.env")
	require.NoError(t, os.WriteFile(p, []byte("API_KEY=abc123\n"), 0o644))

	units := collect(t, NewFileSource(), p)
	require.Len(t, units, 1)
	assert.Equal(t, "API_KEY=abc123\n", units[p])
}

func TestFileSourceRejectsDirAndBinary(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, NewFileSource().Acquire(context.Background(), dir, func(string, string) {}))

	bin := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(bin, []byte{0x00, 0x01, 0x02}, 0o644))
	require.Error(t, NewFileSource().Acquire(context.Background(), bin, func(string, string) {}))
}

func TestDirSourceSkipsExcludedAndBinary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte("\x89PNG\x00"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), []byte("lock"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "pkg", "index.js"), []byte("var x"), 0o644))

	units := collect(t, NewDirSource(testLogger()), dir)
	var locs []string
	for loc := range units {
		locs = append(locs, loc)
	}
	sort.Strings(locs)
	require.Equal(t, []string{filepath.Join(dir, "main.go")}, locs)
}

func TestDirSourceGlobs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("a: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello\n"), 0o644))

	s := NewDirSource(testLogger())
	s.IncludeGlobs = []string{"**/*.yml"}
	units := collect(t, s, dir)
	require.Len(t, units, 1)
	assert.Contains(t, units, filepath.Join(dir, "config.yml"))

	s = NewDirSource(testLogger())
	s.ExcludeGlobs = []string{"*.txt"}
	units = collect(t, s, dir)
	require.Len(t, units, 1)
	assert.Contains(t, units, filepath.Join(dir, "config.yml"))
}

func TestDirSourceMaxBytes(t *testing.T) {
	dir := t.TempDir()
	big := make([]byte, 2048)
	for i := range big {
		big[i] = 'a'
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt"), big, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.txt"), []byte("ok"), 0o644))

	s := NewDirSource(testLogger())
	s.MaxBytes = 1024
	units := collect(t, s, dir)
	require.Len(t, units, 1)
	assert.Contains(t, units, filepath.Join(dir, "small.txt"))
}

func TestCrawlSourceFollowsSameDomainLinks(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><body>
			<a href="/about">about</a>
			<a href="https://elsewhere.example/leak">offsite</a>
			<script src="`+srvURL+`/app.js"></script>
		</body></html>`)
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<html><body>contact us</body></html>`)
	})
	mux.HandleFunc("/app.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = io.WriteString(w, `const apiKey = "sk_test_abc";`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	c := NewCrawlSource(testLogger())
	c.Client = srv.Client()
	units := collect(t, c, srv.URL)

	assert.Len(t, units, 3)
	assert.Contains(t, units, srv.URL+"/about")
	assert.Contains(t, units, srv.URL+"/app.js")
	for loc := range units {
		assert.NotContains(t, loc, "elsewhere.example")
	}
}

func TestCrawlSourceRespectsMaxPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<a href="/a">a</a><a href="/b">b</a><a href="/c">c</a>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewCrawlSource(testLogger())
	c.Client = srv.Client()
	c.MaxPages = 2
	units := collect(t, c, srv.URL)
	assert.Len(t, units, 2)
}

func TestCrawlSourceSkipsNonTextContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<a href="/photo.jpg">pic</a>`)
	})
	mux.HandleFunc("/photo.jpg", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewCrawlSource(testLogger())
	c.Client = srv.Client()
	units := collect(t, c, srv.URL)
	require.Len(t, units, 1)
	assert.Contains(t, units, srv.URL)
}

func TestCrawlSourceBadScheme(t *testing.T) {
	c := NewCrawlSource(testLogger())
	err := c.Acquire(context.Background(), "ftp://example.com", func(string, string) {})
	require.Error(t, err)
}
