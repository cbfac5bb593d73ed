package moondream

// Point is a centre coordinate returned by the /point endpoint. Values are
// normalized to the image dimensions (0-1); multiply by the source width and
// height to convert to pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is a detected object's box as (left, top, right, bottom),
// normalized to the image dimensions (0-1).
type BoundingBox struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// PointsResult is the response of the /point endpoint.
type PointsResult struct {
	// RequestID is the unique request identifier, when the service returns one.
	RequestID *string `json:"request_id,omitempty"`
	// Points holds the centre coordinates of each detected object.
	Points []Point `json:"points"`
	// Count is the number of objects found, when the service returns it.
	Count *int `json:"count,omitempty"`
}

// DetectResult is the response of the /detect endpoint.
type DetectResult struct {
	RequestID *string `json:"request_id,omitempty"`
	// Objects holds one bounding box per detected object.
	Objects []BoundingBox `json:"objects"`
}

// CaptionResult is the response of the /caption endpoint.
type CaptionResult struct {
	RequestID *string `json:"request_id,omitempty"`
	Caption   string  `json:"caption"`
}

// QueryResult is the response of the /query endpoint.
type QueryResult struct {
	RequestID *string `json:"request_id,omitempty"`
	Answer    string  `json:"answer"`
}

// CaptionLength controls how long a generated caption is. Only the two
// declared constants are valid on the wire.
type CaptionLength string

const (
	// CaptionShort requests a brief caption.
	CaptionShort CaptionLength = "short"
	// CaptionNormal requests a normal-length caption. This is the default.
	CaptionNormal CaptionLength = "normal"
)
