package rescache

import (
	"strings"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	cases := []struct {
		typ  string
		args Args
		want string
	}{
		{"widget", Args{All}, "widget/all"},
		{"Widget", Args{1}, "widget/1"},
		{"*shop.Widget", Args{42, "Blue Steel"}, "shop/widget/42/bluesteel"},
		{"admin::WidgetPart", Args{[]int{1, 2}}, "admin/widget_part/1,2"},
		{"widget", Args{All, Opts{"b": 2, "a": 1}}, "widget/all/a=1&b=2"},
		{"widget", nil, "widget"},
	}
	for _, tc := range cases {
		if got := DeriveKey(tc.typ, tc.args); got != tc.want {
			t.Errorf("DeriveKey(%q, %v) = %q, want %q", tc.typ, tc.args, got, tc.want)
		}
	}
}

func TestDeriveKeyIsDeterministic(t *testing.T) {
	args := Args{"All", map[string]any{"z": 1, "y": []string{"p", "q"}, "x": nil}}
	first := DeriveKey("widget", args)
	for i := 0; i < 50; i++ {
		if got := DeriveKey("widget", args); got != first {
			t.Fatalf("key changed between calls: %q vs %q", got, first)
		}
	}
}

func TestResourceTypesDoNotCollide(t *testing.T) {
	args := Args{1}
	w := DeriveKey("widget", args)
	g := DeriveKey("gadget", args)
	ws := DeriveKey("widgets", args)
	if w == g || w == ws {
		t.Fatalf("keys collide: %q %q %q", w, g, ws)
	}
	if !strings.HasPrefix(w, NamespacePrefix("widget")) {
		t.Fatalf("%q lacks prefix %q", w, NamespacePrefix("widget"))
	}
	if strings.HasPrefix(ws, NamespacePrefix("widget")) {
		t.Fatalf("%q matched foreign prefix %q", ws, NamespacePrefix("widget"))
	}
}

func TestClassifier(t *testing.T) {
	c := Classifier{CollectionArgs: Args{All}}
	if !c.IsFullCollection(Args{"all"}) || !c.IsFullCollection(Args{"ALL"}) {
		t.Fatalf("expected full collection")
	}
	if c.IsFullCollection(Args{All, Opts{"color": "red"}}) {
		t.Fatalf("filtered request is not the full collection")
	}
	if !c.IsAnyCollection(Args{Opts{"color": "red"}, All}) {
		t.Fatalf("expected any-collection with extra filters")
	}
	if c.IsAnyCollection(Args{1}) {
		t.Fatalf("single lookup classified as collection")
	}

	scoped := Classifier{CollectionArgs: Args{"region", "eu"}}
	if !scoped.IsAnyCollection(Args{"eu", "region", 5}) {
		t.Fatalf("all collection args present in another order")
	}
	if scoped.IsAnyCollection(Args{"region"}) {
		t.Fatalf("partial match is not a collection")
	}
	if !scoped.IsAnyCollection(Args{"All"}) {
		t.Fatalf("the all marker always means collection")
	}
	if scoped.IsFullCollection(Args{"eu", "region"}) {
		t.Fatalf("full collection is order sensitive")
	}

	var none Classifier
	if none.IsAnyCollection(Args{1}) {
		t.Fatalf("empty collection args match nothing but the marker")
	}
}
