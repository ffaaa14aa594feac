package domain

// EnhancedEvent is the notification message published after a successful
// enhancement.
type EnhancedEvent struct {
	Status        Status   `json:"status"`
	EnhancedImage Location `json:"enhanced_image"`
	SourceImage   Location `json:"source_image"`
}

// EnhancedEventSubject is the subject line used for topic notifications.
const EnhancedEventSubject = "Image Enhanced"

// NewEnhancedEvent builds the event for a source/enhanced pair.
func NewEnhancedEvent(source, enhanced Location) *EnhancedEvent {
	return &EnhancedEvent{
		Status:        StatusEnhanced,
		EnhancedImage: enhanced,
		SourceImage:   source,
	}
}
