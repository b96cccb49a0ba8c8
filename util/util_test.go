package util

import (
	"regexp"
	"testing"
	"time"
)

func TestNewSpotID(t *testing.T) {
	now := time.Date(2025, 9, 20, 0, 44, 32, 389000000, time.UTC)

	id := NewSpotID(now)
	if matched, _ := regexp.MatchString(`^P_20250920T004432_[A-Z0-9]{2}$`, id); !matched {
		t.Errorf("NewSpotID(%v) = %q; want P_20250920T004432_XX format", now, id)
	}
}

func TestParseTags(t *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedResult []string
	}{
		{"Korean With Whitespace", "바다, 오름 ,  ", []string{"바다", "오름"}},
		{"Single", "핫플레이스", []string{"핫플레이스"}},
		{"Empty", "", nil},
		{"Only Separators", " , ,", nil},
		{"No Spaces", "a,b,c", []string{"a", "b", "c"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ParseTags(tc.input)

			if len(result) != len(tc.expectedResult) {
				t.Fatalf("ParseTags(%q) = %v; want %v", tc.input, result, tc.expectedResult)
			}
			for i := range result {
				if result[i] != tc.expectedResult[i] {
					t.Errorf("ParseTags(%q)[%d] = %q; want %q", tc.input, i, result[i], tc.expectedResult[i])
				}
			}
		})
	}
}

func TestAppendTipContent(t *testing.T) {
	now := time.Date(2025, 9, 20, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		existing       string
		content        string
		expectedResult string
	}{
		{"With Existing Tip", "T1", "T2", "T1\n\n[2025년 9월 20일 추가된 내용]\nT2"},
		{"Empty Existing Tip", "", "T2", "[2025년 9월 20일 추가된 내용]\nT2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := AppendTipContent(tc.existing, tc.content, now)

			if result != tc.expectedResult {
				t.Errorf("AppendTipContent(%q, %q) = %q; want %q",
					tc.existing, tc.content, result, tc.expectedResult)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	if !IsURL("https://example.com/place") {
		t.Error("expected https URL to be valid")
	}
	if IsURL("not a url") {
		t.Error("expected plain text to be invalid")
	}
}
