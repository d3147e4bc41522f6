package constant

const (
	// Watermill topic carrying finished-conversation archives to the
	// persistence consumer.
	ConversationArchiveTopic = "CONVERSATION_ARCHIVE"

	DefaultProjectCacheTTLSeconds = 120
)
