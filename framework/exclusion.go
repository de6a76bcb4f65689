package framework

// IsFinallyExcluded reports whether node is stripped from the runtime build.
// The node itself or any ancestor strictly below root must carry the exclude
// tag; root's own tag only matters when node is root.
func IsFinallyExcluded(root, node *Node) bool {
	if node == nil {
		return false
	}
	if node.ExcludeTag {
		return true
	}
	for cur := node.parent; cur != nil && cur != root; cur = cur.parent {
		if cur.ExcludeTag {
			return true
		}
	}
	return false
}
