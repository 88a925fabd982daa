package transcribe

import (
	"errors"
	"fmt"
)

// MaxAudioSize is the largest accepted upload. A file at exactly this size is
// accepted; one byte over is rejected.
const MaxAudioSize = 25 * 1024 * 1024

var (
	ErrInvalidFileType = errors.New("invalid audio file type")
	ErrFileTooLarge    = errors.New("audio file too large")
)

var validAudioTypes = map[string]bool{
	"audio/wav":  true,
	"audio/mp3":  true,
	"audio/mpeg": true,
}

// ValidateAudio checks an uploaded file's MIME type and size before it is
// forwarded to the transcription provider.
func ValidateAudio(mimeType string, size int64) error {
	if !validAudioTypes[mimeType] {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, mimeType)
	}
	if size > MaxAudioSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, MaxAudioSize)
	}
	return nil
}
