package models

// TransformURLRequest asks the service to load a source from the configured
// storage, transform it and optionally store the result
type TransformURLRequest struct {
	URL       string   `json:"url" binding:"required"`
	Intensity *float64 `json:"intensity,omitempty"`
	// Output names the stored result; empty means the result is not stored
	Output string `json:"output,omitempty"`
	// Format of the stored result: png, jpeg or raw
	Format string `json:"format,omitempty"`
}

// TransformResponse describes a completed transform
type TransformResponse struct {
	Mode              string      `json:"mode"`
	Source            string      `json:"source,omitempty"`
	Rows              int         `json:"rows"`
	Cols              int         `json:"cols"`
	Timestamp         string      `json:"timestamp"`
	ProcessingTimeSec float64     `json:"processing_time_sec"`
	ResultLocation    string      `json:"result_location,omitempty"`
	ResultType        string      `json:"result_type,omitempty"`
	ResultBytes       int         `json:"result_bytes,omitempty"`
	Stats             *FrameStats `json:"stats,omitempty"`
}

// FrameStats summarises the transformed frame
type FrameStats struct {
	MeanB      float64 `json:"mean_b"`
	MeanG      float64 `json:"mean_g"`
	MeanR      float64 `json:"mean_r"`
	MeanLuma   float64 `json:"mean_luma"`
	LumaStdDev float64 `json:"luma_stddev"`
	Sharpness  float64 `json:"sharpness"`
}

// ModeInfo describes one selectable transform
type ModeInfo struct {
	Name        string `json:"name"`
	Key         string `json:"key,omitempty"`
	Description string `json:"description"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}
