package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskFilterOptionsRefresh = "jobs.filter_options.refresh"

// FilterOptionsRefreshPayload records who asked for the rebuild.
type FilterOptionsRefreshPayload struct {
	Reason string `json:"reason"`
}

func NewFilterOptionsRefreshTask(payload FilterOptionsRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFilterOptionsRefresh, data), nil
}

func ParseFilterOptionsRefreshPayload(task *asynq.Task) (FilterOptionsRefreshPayload, error) {
	var payload FilterOptionsRefreshPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FilterOptionsRefreshPayload{}, err
	}
	return payload, nil
}
