package sniffer

import (
	"errors"
	"testing"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		want MediaType
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, TypeJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0}, TypePNG},
		{"gif", []byte("GIF89a....."), TypeGIF},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), TypeWEBP},
		{"pdf", []byte("%PDF-1.7\n"), TypePDF},
	}

	for _, tc := range cases {
		result, err := DetectHead(tc.head)
		if err != nil {
			t.Fatalf("%s: detect error: %v", tc.name, err)
		}
		if result.Type != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, result.Type, tc.want)
		}
	}
}

func TestDetectHeadRejectsUnknown(t *testing.T) {
	for _, head := range [][]byte{nil, []byte("<svg>"), []byte("MZ\x90\x00")} {
		if _, err := DetectHead(head); !errors.Is(err, ErrUnknownType) {
			t.Fatalf("expected ErrUnknownType for %q, got %v", head, err)
		}
	}
}
