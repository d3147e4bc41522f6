package events

// ConversationStarted fires when a new conversation opens.
func ConversationStarted(conversationID string, actionCount int) Event {
	return newEvent("CONVERSATION_STARTED", map[string]interface{}{
		"conversation_id": conversationID,
		"action_count":    actionCount,
	})
}

// ConversationCompleted fires when a conversation ends with tasks created.
func ConversationCompleted(conversationID, projectID string, created, total int) Event {
	return newEvent("CONVERSATION_COMPLETED", map[string]interface{}{
		"conversation_id": conversationID,
		"project_id":      projectID,
		"created":         created,
		"total":           total,
	})
}

// ConversationCancelled fires on explicit cancel, retry exhaustion, or
// timeout.
func ConversationCancelled(conversationID, reason string) Event {
	return newEvent("CONVERSATION_CANCELLED", map[string]interface{}{
		"conversation_id": conversationID,
		"reason":          reason,
	})
}

// ConversationTimedOut fires when a conversation expires without reply.
func ConversationTimedOut(conversationID string) Event {
	return newEvent("CONVERSATION_TIMED_OUT", map[string]interface{}{
		"conversation_id": conversationID,
	})
}

// TasksExported fires for any export batch, conversational or direct.
func TasksExported(projectID, mainTaskID string, created, failed int) Event {
	return newEvent("TASKS_EXPORTED", map[string]interface{}{
		"project_id":   projectID,
		"main_task_id": mainTaskID,
		"created":      created,
		"failed":       failed,
	})
}

// ProjectCreated fires when a new Todoist project is created through the
// conversation flow or the project API.
func ProjectCreated(projectID, name string) Event {
	return newEvent("PROJECT_CREATED", map[string]interface{}{
		"project_id": projectID,
		"name":       name,
	})
}
