package ber

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestReadElementShortForm(t *testing.T) {
	// SEQUENCE { INTEGER 1 } -- 0x30 0x03 0x02 0x01 0x01
	raw := []byte{0x30, 0x03, 0x02, 0x01, 0x01}
	r := bytes.NewReader(raw)

	got, err := ReadElement(r)
	if err != nil {
		t.Fatalf("ReadElement: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("got %x, want %x", got, raw)
	}
}

func TestReadElementLongFormLength(t *testing.T) {
	content := bytes.Repeat([]byte{0x41}, 200)
	var raw []byte
	raw = append(raw, 0x04)       // OCTET STRING
	raw = append(raw, 0x82, 0x00, 0xC8) // long form length, 200
	raw = append(raw, content...)

	got, err := ReadElement(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadElement: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("length mismatch: got %d bytes, want %d", len(got), len(raw))
	}
}

func TestReadElementLongFormTag(t *testing.T) {
	// APPLICATION class, primitive, tag number 31 encoded in long form.
	raw := []byte{0x5F, 0x1F, 0x01, 0x00}
	got, err := ReadElement(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadElement: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("got %x, want %x", got, raw)
	}
}

func TestReadElementCleanEOFAtBoundary(t *testing.T) {
	_, err := ReadElement(bytes.NewReader(nil))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at clean boundary, got %v", err)
	}
}

func TestReadElementTruncatedMidElement(t *testing.T) {
	// Tag + length declare 5 bytes of content, stream only has 2.
	raw := []byte{0x04, 0x05, 0x01, 0x02}
	_, err := ReadElement(bytes.NewReader(raw))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestReadElementTruncatedMidTag(t *testing.T) {
	raw := []byte{0x04}
	_, err := ReadElement(bytes.NewReader(raw))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestReadElementIndefiniteLengthRejected(t *testing.T) {
	raw := []byte{0x30, 0x80}
	_, err := ReadElement(bytes.NewReader(raw))
	if !errors.Is(err, ErrIndefiniteLength) {
		t.Fatalf("expected ErrIndefiniteLength, got %v", err)
	}
}
