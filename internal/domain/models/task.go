package models

// TaskType enumerates the care activities a schedule can contain.
type TaskType string

const (
	TaskTurn       TaskType = "turn"
	TaskMist       TaskType = "mist"
	TaskCandle     TaskType = "candle"
	TaskLockdown   TaskType = "lockdown"
	TaskHatchCheck TaskType = "hatch_check"
	TaskCustom     TaskType = "custom"
)

// Task is one scheduled activity for one incubation day of a batch.
type Task struct {
	ID              string   `json:"id" bson:"id"`
	BatchID         string   `json:"batchId" bson:"batch_id"`
	BatchName       string   `json:"batchName,omitempty" bson:"batch_name,omitempty"`
	Date            string   `json:"date" bson:"date"`
	DayOfIncubation int      `json:"dayOfIncubation" bson:"day_of_incubation"`
	Type            TaskType `json:"type" bson:"type"`
	Description     string   `json:"description" bson:"description"`
	Completed       bool     `json:"completed" bson:"completed"`
	Notes           string   `json:"notes,omitempty" bson:"notes,omitempty"`
}
