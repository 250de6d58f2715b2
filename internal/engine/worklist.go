package engine

import "github.com/ShayCichocki/taskforge/pkg/models"

// BuildWorklist returns the tasks eligible for expansion, in tree order:
// parents before their subtasks, siblings left to right. A task is eligible
// when its depth is below maxDepth and it has no subtasks yet. Ids are
// deduplicated within the pass, and the walk always descends into subtasks
// so deeper eligible tasks are found even under already-expanded parents.
//
// The function is pure: it never mutates the forest, and two calls over an
// unchanged tree return the same list.
func BuildWorklist(roots []*models.Task, maxDepth int) []*models.Task {
	var list []*models.Task
	seen := make(map[string]bool)
	models.Walk(roots, func(t *models.Task) {
		if t.Depth() >= maxDepth {
			return
		}
		if len(t.Subtasks) > 0 {
			return
		}
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		list = append(list, t)
	})
	return list
}
