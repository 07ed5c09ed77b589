package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := map[string]string{
		"  Colour ":                      "Colour",
		"<b>Size</b>":                    "Size",
		"<script>alert(1)</script>Red":   "Red",
		"Salt & Pepper":                  "Salt & Pepper",
		"":                               "",
		"<img src=x onerror=alert(1)>":   "",
		`Tom's "special" <i>edition</i>`: `Tom's "special" edition`,
	}
	for in, want := range cases {
		assert.Equal(t, want, Text(in), in)
	}
}

func TestTextStripsEncodedMarkup(t *testing.T) {
	cases := map[string]string{
		"&lt;script&gt;alert(1)&lt;/script&gt;Red": "Red",
		"&lt;img src=x onerror=alert(1)&gt;":       "",
		"&amp;lt;b&amp;gt;Bold&amp;lt;/b&amp;gt;":  "Bold",
		"Fish &amp; Chips":                         "Fish & Chips",
		"a < b":                                    "a < b",
	}
	for in, want := range cases {
		got := Text(in)
		assert.Equal(t, want, got, in)
		assert.NotContains(t, got, "<script")
		assert.NotContains(t, got, "<img")
	}
}

func TestTextsKeepsPositions(t *testing.T) {
	assert.Equal(t, []string{"S", "", "L"}, Texts([]string{" S", "<br>", "L "}))
	assert.Nil(t, Texts(nil))
}
