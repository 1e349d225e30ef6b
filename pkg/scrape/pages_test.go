package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/list/", "https://example.com/list"},
		{"https://example.com/list#top", "https://example.com/list"},
		{"https://example.com/", "https://example.com/"},
		{" https://example.com/p?page=2 ", "https://example.com/p?page=2"},
		{"/relative/only", ""},
		{"://bad", ""},
	}
	for _, tt := range tests {
		if got := normalizeURL(tt.in); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPageQueue_Dedup(t *testing.T) {
	q := newPageQueue([]string{"https://a.test/1", "https://a.test/1/", "https://a.test/2"})

	if q.push("https://a.test/2#frag") {
		t.Error("equivalent URL must not be queued twice")
	}
	var got []string
	for u, ok := q.pop(); ok; u, ok = q.pop() {
		got = append(got, u)
	}
	if strings.Join(got, " ") != "https://a.test/1 https://a.test/2" {
		t.Errorf("queue order = %v", got)
	}
}

func TestNextPage(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		selector string
		want     string
		wantOK   bool
	}{
		{"relative", `<a class="next" href="?page=2">next</a>`, "a.next", "https://shop.test/list?page=2", true},
		{"absolute", `<a class="next" href="https://other.test/p2">next</a>`, "a.next", "https://other.test/p2", true},
		{"fragment", `<a class="next" href="#more">next</a>`, "a.next", "", false},
		{"javascript", `<a class="next" href="javascript:void(0)">next</a>`, "a.next", "", false},
		{"no match", `<a href="/x">x</a>`, "a.next", "", false},
		{"no selector", `<a class="next" href="/x">x</a>`, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			if err != nil {
				t.Fatal(err)
			}
			got, ok := nextPage(doc, tt.selector, "https://shop.test/list")
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("nextPage() = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCollector_FollowsNextPages(t *testing.T) {
	mux := http.NewServeMux()
	for i := 1; i <= 3; i++ {
		page := i
		mux.HandleFunc(fmt.Sprintf("/p%d", page), func(w http.ResponseWriter, _ *http.Request) {
			next := `<a class="next" href="/p1">first</a>`
			if page < 3 {
				next = fmt.Sprintf(`<a class="next" href="/p%d">next</a>`, page+1)
			}
			fmt.Fprintf(w, `<html><body><div class="product"><h2 class="name">item %d</h2></div>%s</body></html>`, page, next)
		})
	}
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fields := []Field{{Name: "name", Selector: "h2.name"}}

	tbl, err := New(Config{Next: "a.next"}).Collect(context.Background(), []string{srv.URL + "/p1"}, "div.product", fields)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if tbl.NumRows() != 3 {
		t.Errorf("rows = %d, want 3 (cycle back to p1 is skipped)", tbl.NumRows())
	}

	tbl, err = New(Config{Next: "a.next", MaxPages: 2}).Collect(context.Background(), []string{srv.URL + "/p1"}, "div.product", fields)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if tbl.NumRows() != 2 {
		t.Errorf("rows = %d, want 2 with MaxPages", tbl.NumRows())
	}
}
