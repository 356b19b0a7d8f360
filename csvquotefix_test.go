package twinstudy

import (
	"io"
	"strings"
	"testing"
)

func TestCSVQuoteFixReader(t *testing.T) {
	input := "vetsaid,note\n19001A,\"said \\\"no\\\"\"\n19001B,none"
	expected := "vetsaid,note\n19001A,\"said \"\"no\"\"\"\n19001B,none"

	out, err := io.ReadAll(NewCSVQuoteFixReader(strings.NewReader(input)))
	if err != nil {
		t.Fatal(err)
	}

	if string(out) != expected {
		t.Errorf("Expected %q, got %q", expected, out)
	}
}
