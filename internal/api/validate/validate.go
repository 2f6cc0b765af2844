// Package validate holds the write-side validation rules for card payloads.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	TitleMaxLength    = 200
	TextMaxLength     = 5000
	FilenameMaxLength = 255
)

// safeFilenameRx is the allowed character set for stored image filenames.
var safeFilenameRx = regexp.MustCompile(`^[A-Za-z0-9._ -]+$`)

// safeImageNameRx is the allowed character set for extension-less image names
// that can be resolved through the photostock service.
var safeImageNameRx = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Title validates and normalizes a card title.
func Title(v string) (string, error) {
	normalized := strings.TrimSpace(v)
	if normalized == "" {
		return "", fmt.Errorf("title must not be empty")
	}
	if len(normalized) > TitleMaxLength {
		return "", fmt.Errorf("title must be at most %d characters", TitleMaxLength)
	}
	return normalized, nil
}

// Text validates an optional free-text body.
func Text(v *string) error {
	if v == nil {
		return nil
	}
	if len(*v) > TextMaxLength {
		return fmt.Errorf("text must be at most %d characters", TextMaxLength)
	}
	return nil
}

// ImageFilename validates and normalizes a single stored image filename.
// The filename must be a bare basename: no path separators, no "..",
// no URL scheme, query or fragment.
func ImageFilename(v string) (string, error) {
	normalized := strings.TrimSpace(v)

	if normalized == "" {
		return "", fmt.Errorf("image filename must not be empty")
	}
	if len(normalized) > FilenameMaxLength {
		return "", fmt.Errorf("image filename must be at most %d characters", FilenameMaxLength)
	}
	if strings.ContainsAny(normalized, `/\`) {
		return "", fmt.Errorf("image filename must not contain path separators")
	}
	if strings.Contains(normalized, "..") || normalized == "." {
		return "", fmt.Errorf("image filename must not contain '..'")
	}
	if strings.Contains(normalized, "://") || strings.ContainsAny(normalized, "?#") {
		return "", fmt.Errorf("image filename must be a file name without URL or query string")
	}
	if !safeFilenameRx.MatchString(normalized) {
		return "", fmt.Errorf("image filename contains unsupported characters")
	}
	return normalized, nil
}

// ImageFilenames validates a full images list in order.
func ImageFilenames(images []string) ([]string, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("images must contain at least one entry")
	}
	out := make([]string, 0, len(images))
	for i, img := range images {
		normalized, err := ImageFilename(img)
		if err != nil {
			return nil, fmt.Errorf("images[%d]: %w", i, err)
		}
		out = append(out, normalized)
	}
	return out, nil
}

// ImageBaseName strips the extension from a validated filename and checks the
// remaining stem is resolvable through the photostock service, which only
// accepts [A-Za-z0-9_-] names without extensions.
func ImageBaseName(filename string) (string, error) {
	normalized, err := ImageFilename(filename)
	if err != nil {
		return "", err
	}

	name := normalized
	if i := strings.LastIndexByte(normalized, '.'); i > 0 {
		name = normalized[:i]
	}
	name = strings.TrimSpace(name)

	if name == "" || strings.Contains(name, ".") {
		return "", fmt.Errorf("image filename must have a valid basename")
	}
	if !safeImageNameRx.MatchString(name) {
		return "", fmt.Errorf("image basename contains unsupported characters")
	}
	return name, nil
}

// ImageName validates an already extension-less image name as received by
// the photostock lookup endpoint. Unlike ImageBaseName it rejects any dot
// instead of stripping an extension.
func ImageName(v string) (string, error) {
	name := strings.TrimSpace(v)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("image name must not be empty")
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return "", fmt.Errorf("image name must be a file name without directories")
	}
	if strings.Contains(name, ".") {
		return "", fmt.Errorf("image name must be without extension")
	}
	if !safeImageNameRx.MatchString(name) {
		return "", fmt.Errorf("image name must use only letters, numbers, '-' and '_'")
	}
	return name, nil
}

// Tags validates and normalizes a tag list. Nil stays nil.
func Tags(tags []string) ([]string, error) {
	if tags == nil {
		return nil, nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := strings.TrimSpace(tag)
		if normalized == "" {
			return nil, fmt.Errorf("tags must not contain empty values")
		}
		out = append(out, normalized)
	}
	return out, nil
}
