package domain

// AnalysisMode selects which document source feeds an analysis.
type AnalysisMode string

const (
	AnalysisModeRemote   AnalysisMode = "remote"
	AnalysisModeUploaded AnalysisMode = "uploaded"
)

// Valid reports whether m is a known analysis mode.
func (m AnalysisMode) Valid() bool {
	return m == AnalysisModeRemote || m == AnalysisModeUploaded
}

// SessionStatus represents the lifecycle of an analysis session.
type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusProcessing SessionStatus = "processing"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusFailed     SessionStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusFailed
}

// sessionTransitions lists the allowed next states for each state.
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionStatusPending:    {SessionStatusProcessing, SessionStatusFailed},
	SessionStatusProcessing: {SessionStatusCompleted, SessionStatusFailed},
}

// CanTransition reports whether a session may move from s to next.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CriticalCheckStatus is the outcome the engine reports for one critical check.
type CriticalCheckStatus string

const (
	CheckStatusPass    CriticalCheckStatus = "PASS"
	CheckStatusFail    CriticalCheckStatus = "FAIL"
	CheckStatusWarning CriticalCheckStatus = "WARNING"
)

// CustomRuleName is the display name given to inline, unsaved rules.
const CustomRuleName = "Custom Rule"

// AllowedUploadTypes lists the MIME types accepted for uploaded documents.
var AllowedUploadTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
	"text/csv":   true,
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// DefaultDocumentMimeType is used when a file extension is not in DocumentMimeTypes.
const DefaultDocumentMimeType = "application/pdf"

// DocumentMimeTypes maps file extensions (without dot) to the MIME type sent
// to the analysis engine.
var DocumentMimeTypes = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}
