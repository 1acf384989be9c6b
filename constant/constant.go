package constant

// Tier identifies which provider in the fallback chain produced a transcript.
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
	TierDegraded  Tier = "degraded"
)

func (t Tier) String() string {
	return string(t)
}

// WorkflowState tracks the publishing workflow for one upload invocation.
type WorkflowState string

const (
	StateIdle        WorkflowState = "IDLE"
	StateAuthorizing WorkflowState = "AUTHORIZING"
	StateAuthorized  WorkflowState = "AUTHORIZED"
	StateUploading   WorkflowState = "UPLOADING"
	StateRecorded    WorkflowState = "RECORDED"
	StateAborted     WorkflowState = "ABORTED"
)

func (s WorkflowState) String() string {
	return string(s)
}

type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyPrivate  Privacy = "private"
	PrivacyUnlisted Privacy = "unlisted"
)

// ValidPrivacy reports whether s is a privacy setting the platform accepts.
func ValidPrivacy(s string) bool {
	switch Privacy(s) {
	case PrivacyPublic, PrivacyPrivate, PrivacyUnlisted:
		return true
	}
	return false
}

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}

// Error kinds surfaced in JSON error responses.
const (
	KindUnsupportedFormat   = "UnsupportedFormat"
	KindTooLarge            = "TooLarge"
	KindAuthorizationFailed = "AuthorizationFailed"
	KindUploadFailed        = "UploadFailed"
	KindNotFound            = "NotFound"
	KindInvalidRequest      = "InvalidRequest"
	KindInternal            = "Internal"
)

var audioExtensions = map[string]struct{}{
	"mp3": {}, "wav": {}, "m4a": {}, "flac": {}, "aac": {}, "ogg": {},
}

var videoExtensions = map[string]struct{}{
	"mp4": {}, "mov": {}, "avi": {}, "mkv": {}, "webm": {},
}

// Clip trimming only accepts containers the re-encode step handles reliably.
var clipExtensions = map[string]struct{}{
	"mp4": {}, "mov": {},
}

// IsAllowedMedia reports whether ext (lowercase, no dot) is in the accepted
// audio/video set for transcription.
func IsAllowedMedia(ext string) bool {
	if _, ok := audioExtensions[ext]; ok {
		return true
	}
	_, ok := videoExtensions[ext]
	return ok
}

// IsVideo reports whether ext names a video container whose audio track must
// be extracted before transcription.
func IsVideo(ext string) bool {
	_, ok := videoExtensions[ext]
	return ok
}

// IsAllowedClip reports whether ext is accepted by the clip endpoint.
func IsAllowedClip(ext string) bool {
	_, ok := clipExtensions[ext]
	return ok
}
