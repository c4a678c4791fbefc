package datasus

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(serverURL string) *Client {
	c := NewClient(serverURL, 5*time.Second, 0)
	return c
}

// rdHandler serves canned monthly files keyed by file name (e.g. RDDF2001.csv).
func rdHandler(files map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		name := parts[len(parts)-1]
		body, ok := files[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, body)
	}
}

func TestFetchConcatenatesMonths(t *testing.T) {
	files := map[string]string{
		"RDDF2001.csv": "DIAG_PRINC,IDADE\nM000,45\n",
		"RDDF2003.csv": "DIAG_PRINC,IDADE\nM054,70\nM000,12\n",
	}
	server := httptest.NewServer(rdHandler(files))
	defer server.Close()

	result := newTestClient(server.URL).Fetch(context.Background(), "DF", 2020)
	if result.Status != FetchOK {
		t.Fatalf("Expected FetchOK, got status %d (err: %v)", result.Status, result.Err)
	}
	if result.Table.Len() != 3 {
		t.Errorf("Expected 3 concatenated rows, got %d", result.Table.Len())
	}
	// January rows must come before March rows
	if result.Table.Rows[0][0] != "M000" || result.Table.Rows[1][0] != "M054" {
		t.Errorf("Unexpected row order: %v", result.Table.Rows)
	}
}

func TestFetchAllMonthsMissingIsEmpty(t *testing.T) {
	server := httptest.NewServer(rdHandler(map[string]string{}))
	defer server.Close()

	result := newTestClient(server.URL).Fetch(context.Background(), "RR", 2011)
	if result.Status != FetchEmpty {
		t.Fatalf("Expected FetchEmpty, got status %d (err: %v)", result.Status, result.Err)
	}
}

func TestFetchHeaderOnlyMonthsAreEmpty(t *testing.T) {
	files := map[string]string{
		"RDAC1101.csv": "DIAG_PRINC,IDADE\n",
	}
	server := httptest.NewServer(rdHandler(files))
	defer server.Close()

	result := newTestClient(server.URL).Fetch(context.Background(), "AC", 2011)
	if result.Status != FetchEmpty {
		t.Fatalf("Expected FetchEmpty for header-only month, got status %d", result.Status)
	}
}

func TestFetchRejectedRequestFailsScope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer server.Close()

	result := newTestClient(server.URL).Fetch(context.Background(), "SP", 2015)
	if result.Status != FetchFailed {
		t.Fatalf("Expected FetchFailed, got status %d", result.Status)
	}
	if result.Err == nil || !strings.Contains(result.Err.Error(), "unexpected status") {
		t.Errorf("Expected status error, got: %v", result.Err)
	}
}

func TestFetchServerErrorFailsScope(t *testing.T) {
	// 5xx responses are retried by the client and surface as an error once
	// the attempts are exhausted
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	result := newTestClient(server.URL).Fetch(context.Background(), "SP", 2015)
	if result.Status != FetchFailed {
		t.Fatalf("Expected FetchFailed, got status %d", result.Status)
	}
	if result.Err == nil {
		t.Error("Expected a fetch error, got nil")
	}
}

func TestFetchUnreachableServerFailsScope(t *testing.T) {
	// Reserve a port and close the server so nothing is listening
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	result := newTestClient(url).Fetch(context.Background(), "AM", 2018)
	if result.Status != FetchFailed {
		t.Fatalf("Expected FetchFailed for unreachable server, got status %d", result.Status)
	}
}

func TestFetchColumnDriftAcrossMonthsFails(t *testing.T) {
	files := map[string]string{
		"RDGO1901.csv": "DIAG_PRINC,IDADE\nM000,30\n",
		"RDGO1902.csv": "DIAG_PRINC,IDADE,CEP\nM000,30,70000000\n",
	}
	server := httptest.NewServer(rdHandler(files))
	defer server.Close()

	result := newTestClient(server.URL).Fetch(context.Background(), "GO", 2019)
	if result.Status != FetchFailed {
		t.Fatalf("Expected FetchFailed for column drift, got status %d", result.Status)
	}
	if result.Err == nil || !strings.Contains(result.Err.Error(), "column set differs") {
		t.Errorf("Expected column drift error, got: %v", result.Err)
	}
}

func TestFetchDecodesLatin1(t *testing.T) {
	// "SÃO PAULO" encoded as ISO-8859-1: Ã is 0xC3 alone, invalid as UTF-8
	latin1 := "DIAG_PRINC,PROC_NOME\nM000,ARTROTOMIA S\xc3O PAULO\n"
	files := map[string]string{
		"RDSP2101.csv": latin1,
	}
	server := httptest.NewServer(rdHandler(files))
	defer server.Close()

	result := newTestClient(server.URL).Fetch(context.Background(), "SP", 2021)
	if result.Status != FetchOK {
		t.Fatalf("Expected FetchOK, got status %d (err: %v)", result.Status, result.Err)
	}
	if !strings.Contains(result.Table.Rows[0][1], "SÃO") {
		t.Errorf("Expected Latin-1 payload decoded to UTF-8, got %q", result.Table.Rows[0][1])
	}
}

func TestMonthFileURL(t *testing.T) {
	c := NewClient("http://example.com/rd", time.Second, 0)

	testCases := []struct {
		uf       string
		year     int
		month    int
		expected string
	}{
		{"DF", 2020, 1, "http://example.com/rd/RDDF2001.csv"},
		{"SP", 2014, 12, "http://example.com/rd/RDSP1412.csv"},
		{"RR", 2009, 7, "http://example.com/rd/RDRR0907.csv"},
	}

	for _, tc := range testCases {
		if got := c.monthFileURL(tc.uf, tc.year, tc.month); got != tc.expected {
			t.Errorf("monthFileURL(%s, %d, %d) = %s, expected %s", tc.uf, tc.year, tc.month, got, tc.expected)
		}
	}
}
