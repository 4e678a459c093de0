package capture

import (
	exif "github.com/dsoprea/go-exif/v3"
)

// metadataTags are the EXIF tags worth keeping for a skin photo.
var metadataTags = map[string]bool{
	"Make":             true,
	"Model":            true,
	"Software":         true,
	"Orientation":      true,
	"DateTime":         true,
	"DateTimeOriginal": true,
}

// ExtractMetadata pulls a few descriptive EXIF tags out of image bytes.
// Images without EXIF yield an empty map.
func ExtractMetadata(data []byte) map[string]string {
	meta := make(map[string]string)

	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return meta
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return meta
	}

	for _, entry := range entries {
		if metadataTags[entry.TagName] && entry.Formatted != "" {
			meta[entry.TagName] = entry.Formatted
		}
	}
	return meta
}
