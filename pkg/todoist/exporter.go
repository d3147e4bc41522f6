package todoist

import (
	"context"
	"fmt"

	"voice-todoist-be/pkg/assemble"
)

// Exporter pushes an assembled creation request to Todoist: one main task,
// then each remaining action as a subtask under it.
type Exporter struct {
	client *Client
}

func NewExporter(client *Client) *Exporter {
	return &Exporter{client: client}
}

// ExportTasks creates the batch. A failed main task aborts the whole
// export; failed subtasks are collected in the receipt and do not stop
// the remaining ones.
func (e *Exporter) ExportTasks(ctx context.Context, req assemble.Request) (assemble.Receipt, error) {
	total := 1 + len(req.Subtasks)

	main, err := e.client.CreateTask(ctx, TaskInput{
		Content:   req.MainTask,
		ProjectID: req.ProjectID,
		DueDate:   req.DueDate,
		Priority:  req.Priority,
		Labels:    req.Labels,
	})
	if err != nil {
		return assemble.Receipt{Total: total}, fmt.Errorf("create main task: %w", err)
	}

	receipt := assemble.Receipt{
		MainTaskID: main.ID,
		Created:    1,
		Total:      total,
	}

	for _, subtask := range req.Subtasks {
		_, err := e.client.CreateTask(ctx, TaskInput{
			Content:  subtask,
			ParentID: main.ID,
			DueDate:  req.DueDate,
			Priority: req.Priority,
			Labels:   req.Labels,
		})
		if err != nil {
			receipt.Failed = append(receipt.Failed, assemble.Failure{
				Content: subtask,
				Error:   err.Error(),
			})
			continue
		}
		receipt.Created++
	}

	return receipt, nil
}
