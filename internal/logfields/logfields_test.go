package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b-1", BuildID("b-1")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"File", KeyFile, "guide.md", File("guide.md")},
		{"Output", KeyOutput, "site/guide.html", Output("site/guide.html")},
		{"Format", KeyFormat, "markdown", Format("markdown")},
		{"Repository", KeyRepo, "docs", Repository("docs")},
		{"URL", KeyURL, "https://example.com", URL("https://example.com")},
		{"Addr", KeyAddr, ":8080", Addr(":8080")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if v := Count(3); v.Key != KeyCount || v.Value.Int64() != 3 {
		t.Fatalf("Count mismatch: %v", v)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS || v.Value.Float64() != 12.5 {
		t.Fatalf("DurationMS mismatch: %v", v)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("Error key mismatch: %s", attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("Expected empty error string, got %s", attr.Value.String())
	}
	attr = Error(errors.New("err-test"))
	if attr.Value.String() != "err-test" {
		t.Fatalf("Expected 'err-test', got %s", attr.Value.String())
	}
}
