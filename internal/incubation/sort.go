package incubation

import (
	"sort"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

var typeOrder = map[models.TaskType]int{
	models.TaskCandle:     1,
	models.TaskTurn:       2,
	models.TaskMist:       3,
	models.TaskLockdown:   4,
	models.TaskHatchCheck: 5,
	models.TaskCustom:     6,
}

// SortTasks orders tasks for display: by date, incubation day, task type, then id.
func SortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.DayOfIncubation != b.DayOfIncubation {
			return a.DayOfIncubation < b.DayOfIncubation
		}
		if rank(a.Type) != rank(b.Type) {
			return rank(a.Type) < rank(b.Type)
		}
		return a.ID < b.ID
	})
}

func rank(t models.TaskType) int {
	if r, ok := typeOrder[t]; ok {
		return r
	}
	return 99
}
