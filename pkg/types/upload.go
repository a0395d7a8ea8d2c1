package types

// UploadRequest describes the local file submitted for processing
type UploadRequest struct {
	Name string // Original file name sent in the multipart part
	Size int64  // File size in bytes
}

// UploadResult is the payload returned by the process endpoint
type UploadResult struct {
	Filename  string // Resolved download name (suggested or fallback)
	Suggested bool   // True when Filename came from Content-Disposition
	Data      []byte // Response body
}

// StatusKind controls how a status message is presented
type StatusKind int

const (
	StatusNeutral StatusKind = iota
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "neutral"
	}
}

// StatusMessage is the currently displayed operation state
type StatusMessage struct {
	Text string
	Kind StatusKind
}
