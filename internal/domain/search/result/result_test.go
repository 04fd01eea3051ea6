package result

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/shopdex/internal/domain/product"
)

func TestFromProduct(t *testing.T) {
	p := product.Reconstruct(7, product.Draft{
		Name: "iPhone 15", Description: "A17 芯片", Price: 5999, Currency: "CNY",
		Category: "手机", SKU: "SKU-1", ImageURL: "https://img/1.png",
	}, time.Unix(0, 0), time.Unix(0, 0))

	it := FromProduct(&p)
	if it.ID != 7 || it.Name != "iPhone 15" || it.Category != "手机" || it.Price != 5999 {
		t.Errorf("unexpected item: %+v", it)
	}
	if it.RelevanceScore != nil {
		t.Error("score should be unset")
	}

	raw, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "relevance_score") {
		t.Errorf("relevance_score should be omitted: %s", raw)
	}
}

func TestScore(t *testing.T) {
	it := Item{Name: "Sony 降噪耳机", Description: "Wireless, long battery"}

	if Score(it, nil) != nil {
		t.Error("no keywords should yield nil score")
	}
	s := Score(it, []string{"降噪", "wireless", "防水", "红色"})
	if s == nil || *s != 0.5 {
		t.Errorf("Score() = %v, want 0.5", s)
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{5, 0, 0},
		{5, -1, 0},
	}
	for _, tc := range tests {
		if got := PageCount(tc.total, tc.limit); got != tc.want {
			t.Errorf("PageCount(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestNewEnvelope_NilItems(t *testing.T) {
	env := NewEnvelope(nil, 0, 1, 10)
	if env.Items == nil {
		t.Error("Items should be non-nil for stable JSON")
	}
	raw, _ := json.Marshal(env)
	if !strings.Contains(string(raw), `"items":[]`) {
		t.Errorf("json = %s", raw)
	}
}
