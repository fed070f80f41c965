package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLine(t *testing.T) {
	cases := map[string]string{
		"  Go   <b>Developer</b> ":               "Go Developer",
		"&lt;script&gt;alert(1)&lt;/script&gt;x": "alert(1)x",
		"R&amp;D":                                "R&D",
		"":                                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Line(in), in)
	}
}

func TestList(t *testing.T) {
	assert.Equal(t, []string{"go", "SQL"}, List([]string{" go ", "", "<i>SQL</i>", "go"}))
	assert.Nil(t, List(nil))
}
