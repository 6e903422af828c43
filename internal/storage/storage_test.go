package storage

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var keyPattern = regexp.MustCompile(`^2026/01/05/reading_[0-9a-f-]{36}\.jpg$`)

func TestKeyFormat(t *testing.T) {
	ts := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	key := Key(ts, "meter.jpg")
	if !keyPattern.MatchString(key) {
		t.Fatalf("key %q does not match expected format", key)
	}
}

func TestKeyExtension(t *testing.T) {
	ts := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		filename string
		wantExt  string
	}{
		{name: "jpeg", filename: "meter.jpg", wantExt: ".jpg"},
		{name: "png", filename: "photo.png", wantExt: ".png"},
		{name: "absent", filename: "", wantExt: ".jpg"},
		{name: "no extension", filename: "archive", wantExt: ".jpg"},
		{name: "multiple dots", filename: "meter.backup.webp", wantExt: ".webp"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := Key(ts, tc.filename)
			if !strings.HasSuffix(key, tc.wantExt) {
				t.Fatalf("Key(%q) = %q, want suffix %q", tc.filename, key, tc.wantExt)
			}
		})
	}
}

func TestKeyUsesTimestampOwnCalendarFields(t *testing.T) {
	// 2026-01-06T01:30+02:00 is 2026-01-05T23:30Z; the partition follows the
	// offset's calendar day, not the UTC one.
	offset := time.FixedZone("EET", 2*60*60)
	ts := time.Date(2026, 1, 6, 1, 30, 0, 0, offset)

	key := Key(ts, "meter.jpg")
	if !strings.HasPrefix(key, "2026/01/06/") {
		t.Fatalf("key %q should use the timestamp's own calendar day", key)
	}
}

func TestKeyZeroPadsDateParts(t *testing.T) {
	ts := time.Date(999, 2, 3, 0, 0, 0, 0, time.UTC)
	key := Key(ts, "")
	if !strings.HasPrefix(key, "0999/02/03/") {
		t.Fatalf("key %q should zero-pad year, month, and day", key)
	}
}

func TestKeyUnique(t *testing.T) {
	ts := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	if Key(ts, "meter.jpg") == Key(ts, "meter.jpg") {
		t.Fatal("two keys for identical inputs should differ")
	}
}
