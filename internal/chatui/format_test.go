package chatui

import (
	"reflect"
	"testing"
)

func TestParseSpans(t *testing.T) {
	got := parseSpans("Use **goroutines** with *care* and run `go test`.")
	want := []span{
		{kind: spanText, text: "Use "},
		{kind: spanBold, text: "goroutines"},
		{kind: spanText, text: " with "},
		{kind: spanItalic, text: "care"},
		{kind: spanText, text: " and run "},
		{kind: spanCode, text: "go test"},
		{kind: spanText, text: "."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestParseSpansUnclosedMarkers(t *testing.T) {
	got := parseSpans("2 * 3 and `x")
	want := []span{{kind: spanText, text: "2 * 3 and `x"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestParseSpansEmptyMarkers(t *testing.T) {
	got := parseSpans("****")
	want := []span{{kind: spanText, text: "****"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestPlainText(t *testing.T) {
	if got := plainText("**Go** is *fun* with `gofmt`"); got != "Go is fun with gofmt" {
		t.Fatalf("unexpected plain text %q", got)
	}
}
