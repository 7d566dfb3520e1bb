package regen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"golang.org/x/text/language"

	"customderiv/internal/domain"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fakeLister struct {
	mu      sync.Mutex
	pages   []domain.ScanResult
	cursors []int64
	err     error
}

func (f *fakeLister) ListMissing(ctx context.Context, req domain.ScanRequest) (domain.ScanResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursors = append(f.cursors, req.Cursor)
	if f.err != nil {
		return domain.ScanResult{}, f.err
	}
	if len(f.cursors) > len(f.pages) {
		return domain.ScanResult{URLs: []string{}}, nil
	}
	return f.pages[len(f.cursors)-1], nil
}

func newGallery(t *testing.T) (*httptest.Server, *sync.Map) {
	t.Helper()
	hits := &sync.Map{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Store(r.URL.Path, true)
		switch {
		case strings.HasPrefix(r.URL.Path, "/ok"):
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngHeader)
		case strings.HasPrefix(r.URL.Path, "/html"):
			_, _ = w.Write([]byte("<html>gallery error</html>"))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestRunFollowsCursorAndCounts(t *testing.T) {
	srv, hits := newGallery(t)
	lister := &fakeLister{pages: []domain.ScanResult{
		{URLs: []string{srv.URL + "/ok/1", srv.URL + "/ok/2", srv.URL + "/bad/3"}, NextCursor: 40},
		{URLs: []string{srv.URL + "/html/4", srv.URL + "/ok/5"}, NextCursor: 0},
	}}

	d := NewDriver(lister, Options{Concurrency: 2, Client: srv.Client()})
	sum, err := d.Run(context.Background(), domain.ScanRequest{Types: []string{"s300"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Regenerated != 3 || sum.Failed != 2 || sum.Pages != 2 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(lister.cursors) != 2 || lister.cursors[0] != 0 || lister.cursors[1] != 40 {
		t.Fatalf("cursors = %v", lister.cursors)
	}
	for _, p := range []string{"/ok/1", "/ok/2", "/bad/3", "/html/4", "/ok/5"} {
		if _, ok := hits.Load(p); !ok {
			t.Fatalf("%s was not requested", p)
		}
	}
}

func TestRunDryRunFetchesNothing(t *testing.T) {
	srv, hits := newGallery(t)
	lister := &fakeLister{pages: []domain.ScanResult{
		{URLs: []string{srv.URL + "/ok/1"}, NextCursor: 9},
		{URLs: []string{srv.URL + "/ok/2"}},
	}}
	d := NewDriver(lister, Options{DryRun: true, Client: srv.Client()})
	sum, err := d.Run(context.Background(), domain.ScanRequest{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sum.Planned) != 2 || sum.Regenerated != 0 {
		t.Fatalf("summary = %+v", sum)
	}
	requested := 0
	hits.Range(func(_, _ any) bool { requested++; return true })
	if requested != 0 {
		t.Fatalf("dry run issued %d requests", requested)
	}
}

func TestRunStopsAtMaxPages(t *testing.T) {
	lister := &fakeLister{pages: []domain.ScanResult{
		{URLs: []string{}, NextCursor: 30},
		{URLs: []string{}, NextCursor: 20},
		{URLs: []string{}, NextCursor: 10},
	}}
	d := NewDriver(lister, Options{DryRun: true, MaxPages: 2})
	sum, err := d.Run(context.Background(), domain.ScanRequest{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Pages != 2 {
		t.Fatalf("pages = %d, want 2", sum.Pages)
	}
}

func TestRunReturnsScanErrors(t *testing.T) {
	lister := &fakeLister{err: domain.ErrCatalogUnavailable}
	d := NewDriver(lister, Options{})
	_, err := d.Run(context.Background(), domain.ScanRequest{Cursor: 12})
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := NewDriver(&fakeLister{}, Options{})
	if _, err := d.Run(ctx, domain.ScanRequest{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestSummaryLines(t *testing.T) {
	tests := []struct {
		name string
		sum  Summary
		tag  language.Tag
		want []string
	}{
		{
			name: "english",
			sum:  Summary{Regenerated: 12, Failed: 3},
			tag:  language.English,
			want: []string{"12 photos have been regenerated", "3 photos can not be regenerated"},
		},
		{
			name: "no failures",
			sum:  Summary{Regenerated: 4},
			tag:  language.English,
			want: []string{"4 photos have been regenerated"},
		},
		{
			name: "french",
			sum:  Summary{Regenerated: 2, Failed: 1},
			tag:  ParseLocale("fr"),
			want: []string{"2 photos ont été régénérées", "1 photos ne peuvent pas être régénérées"},
		},
		{
			name: "dry run",
			sum:  Summary{Planned: []string{"a", "b"}},
			tag:  ParseLocale("not a locale!"),
			want: []string{"2 photos would be regenerated"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.sum.Lines(tc.tag)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
