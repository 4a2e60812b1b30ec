package rescache

import (
	"strings"

	"github.com/unkn0wn-root/rescache/internal/util"
)

// Namespace turns a resource type name into its key path:
// "Widget" -> "widget", "*shop.Widget" -> "shop/widget",
// "admin::WidgetPart" -> "admin/widget_part".
func Namespace(resourceType string) string {
	return util.TypePath(resourceType)
}

// NamespacePrefix is the key prefix shared by every entry of a resource type.
// The trailing slash keeps "widget/" from matching "widgets/". Nested types
// share their parent's prefix: "widget::Part" keys live under "widget/part/",
// so clearing "widget" clears them too.
func NamespacePrefix(resourceType string) string {
	return Namespace(resourceType) + "/"
}

// DeriveKey builds the cache key for a lookup. Equal argument lists always
// give the same key; the result is lower-cased with whitespace removed.
func DeriveKey(resourceType string, args Args) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, Namespace(resourceType))
	for _, a := range args {
		parts = append(parts, util.Arg(a))
	}
	return util.Squash(strings.Join(parts, "/"))
}

// argKey is the form arguments are compared by.
func argKey(v any) string {
	return util.Squash(util.Arg(v))
}
