package model

// Metadata is free-form auxiliary data attached to a run report, serialized
// as a JSON object alongside the metrics.
type Metadata map[string]interface{}
