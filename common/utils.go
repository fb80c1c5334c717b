package common

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidReference is returned when a video reference matches none of
// the recognized URL shapes and is not a bare video ID.
type ErrInvalidReference struct {
	Ref string
}

func (e *ErrInvalidReference) Error() string {
	return fmt.Sprintf("invalid YouTube URL or video ID: %q", e.Ref)
}

// videoIDPattern matches a canonical 11-character video identifier.
var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// IsValidVideoID reports whether s has the canonical video ID format.
func IsValidVideoID(s string) bool {
	return videoIDPattern.MatchString(s)
}

// ExtractVideoID resolves a user-supplied video reference into the
// canonical 11-character identifier. Accepted shapes:
//
//	https://www.youtube.com/watch?v=VIDEO_ID
//	https://youtu.be/VIDEO_ID
//	https://www.youtube.com/embed/VIDEO_ID
//	https://www.youtube.com/v/VIDEO_ID
//	https://www.youtube.com/shorts/VIDEO_ID
//	VIDEO_ID
func ExtractVideoID(ref string) (string, error) {
	s := strings.TrimSpace(ref)
	// Shells sometimes hand us escaped query strings.
	s = strings.NewReplacer(`\?`, "?", `\=`, "=", `\&`, "&").Replace(s)

	if s == "" {
		return "", &ErrInvalidReference{Ref: ref}
	}

	if IsValidVideoID(s) {
		return s, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", &ErrInvalidReference{Ref: ref}
	}

	host := strings.ToLower(u.Hostname())
	switch host {
	case "www.youtube.com", "youtube.com", "m.youtube.com":
		if u.Path == "/watch" {
			if id := u.Query().Get("v"); IsValidVideoID(id) {
				return id, nil
			}
		}
		for _, prefix := range []string{"/embed/", "/v/", "/shorts/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id := strings.TrimPrefix(u.Path, prefix)
				id = strings.TrimSuffix(id, "/")
				if IsValidVideoID(id) {
					return id, nil
				}
			}
		}
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if IsValidVideoID(id) {
			return id, nil
		}
	}

	return "", &ErrInvalidReference{Ref: ref}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
	zeroWidthChars      = regexp.MustCompile(`[\x{200B}-\x{200F}\x{2060}\x{FEFF}]`)
)

// SanitizeFilename replaces characters that are unsafe in filenames and
// trims the result to a sane length.
func SanitizeFilename(name string) string {
	s := unsafeFilenameChars.ReplaceAllString(name, "_")
	s = strings.Trim(s, " .")
	const maxLen = 200
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// NormalizeText collapses whitespace runs and strips zero-width characters
// so length checks and spam heuristics see the text a human sees.
func NormalizeText(text string) string {
	s := strings.TrimSpace(text)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = zeroWidthChars.ReplaceAllString(s, "")
	return s
}

// GenerateRunID returns a unique identifier for one extraction run.
func GenerateRunID() string {
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102150405"), uuid.NewString()[:8])
}
