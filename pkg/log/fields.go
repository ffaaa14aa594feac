package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Lambda invocation
	FieldAWSRequestID = "aws_request_id"
	FieldFunction     = "function"

	// Objects
	FieldBucket         = "bucket"
	FieldKey            = "key"
	FieldTargetBucket   = "target_bucket"
	FieldTargetKey      = "target_key"
	FieldImageID        = "image_id"
	FieldOutcome        = "outcome"
	FieldPrincipalID    = "principal_id"
	FieldBatchSize      = "batch_size"
	FieldProcessedCount = "processed"

	// Messaging
	FieldTopic     = "topic"
	FieldMessageID = "message_id"

	// Service
	FieldService = "service"
)
