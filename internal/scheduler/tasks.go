package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskRfqDeadline = "requests.rfq.deadline"

type RfqDeadlinePayload struct {
	PurchaseRequestID string `json:"purchaseRequestId"`
	RequestNumber     string `json:"requestNumber"`
}

func NewRfqDeadlineTask(payload RfqDeadlinePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRfqDeadline, data), nil
}

func ParseRfqDeadlinePayload(task *asynq.Task) (RfqDeadlinePayload, error) {
	var payload RfqDeadlinePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RfqDeadlinePayload{}, err
	}
	return payload, nil
}
