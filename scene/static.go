package scene

import "strings"

var DefaultStaticKeywords = []string{"floor", "wall"}

// IsStaticName reports whether name contains any keyword, case-insensitively.
func IsStaticName(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// ClassifyStatic marks every mesh under root whose name matches a keyword as static.
// Group nodes are never classified.
func ClassifyStatic(root *Node, keywords []string) {
	root.Traverse(func(n *Node) {
		if n.Mesh != nil && IsStaticName(n.Name, keywords) {
			n.Static = true
		}
	})
}

// ApplyStaticOverride sets the static flag of every matching mesh to static and
// returns the nodes it touched.
func ApplyStaticOverride(root *Node, keywords []string, static bool) []*Node {
	var touched []*Node
	root.Traverse(func(n *Node) {
		if n.Mesh != nil && IsStaticName(n.Name, keywords) {
			n.Static = static
			touched = append(touched, n)
		}
	})
	return touched
}
