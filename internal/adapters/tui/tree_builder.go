package tui

const maxTreeDepth = 10

// buildTree lays out the task graph under each target. Dependencies come
// first, then the minify jobs the task has started. A task shared by several
// dependents appears once under each of them.
func buildTree(
	targets []string,
	dependencies map[string][]string,
	taskMap map[string]*TaskNode,
) []*TaskNode {
	roots := make([]*TaskNode, 0, len(targets))

	for _, target := range targets {
		if root := buildSubtree(target, dependencies, taskMap, 0); root != nil {
			roots = append(roots, root)
		}
	}

	return roots
}

func buildSubtree(
	taskName string,
	dependencies map[string][]string,
	taskMap map[string]*TaskNode,
	depth int,
) *TaskNode {
	if depth > maxTreeDepth {
		return nil
	}

	canonical := taskMap[taskName]
	if canonical == nil {
		return nil
	}

	node := placeNode(canonical, depth)

	for _, dep := range dependencies[taskName] {
		if child := buildSubtree(dep, dependencies, taskMap, depth+1); child != nil {
			child.Parent = node
			node.Children = append(node.Children, child)
		}
	}

	for _, job := range canonical.Jobs {
		child := placeNode(job, depth+1)
		child.Parent = node
		node.Children = append(node.Children, child)
	}

	return node
}

// placeNode clones canonical for one position in the tree.
func placeNode(canonical *TaskNode, depth int) *TaskNode {
	return &TaskNode{
		Name:          canonical.Name,
		Term:          canonical.Term,
		Depth:         depth,
		Children:      make([]*TaskNode, 0),
		CanonicalNode: canonical,
	}
}

// flattenTree lists the visible rows of the tree. Children of collapsed
// nodes are left out.
func flattenTree(roots []*TaskNode) []*TaskNode {
	flat := make([]*TaskNode, 0)

	var walk func(node *TaskNode)
	walk = func(node *TaskNode) {
		flat = append(flat, node)
		if node.Canonical().IsExpanded {
			for _, child := range node.Children {
				walk(child)
			}
		}
	}

	for _, root := range roots {
		walk(root)
	}

	return flat
}
