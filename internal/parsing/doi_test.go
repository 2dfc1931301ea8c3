package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDOIFromString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.1016/j.chemosphere.2017.04.029", "10.1016/j.chemosphere.2017.04.029"},
		{"doi: 10.1371/journal.pgen.1004963", "10.1371/journal.pgen.1004963"},
		{"https://doi.org/10.1038/s41598-019-52997-0", "10.1038/s41598-019-52997-0"},
		{"https://doi.org/10.1002%2Farch.21234", "10.1002/arch.21234"},
		{"Smith et al. 2020", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetDOIFromString(tt.in), tt.in)
	}
}

func TestDOIURL(t *testing.T) {
	assert.Equal(t, "https://doi.org/10.1016/j.ibmb.2015.01.002", DOIURL(" 10.1016/j.ibmb.2015.01.002 "))
	assert.Equal(t, "https://www.biorxiv.org/content/early/2024/01/01/123", DOIURL("https://www.biorxiv.org/content/early/2024/01/01/123"))
	assert.Equal(t, "", DOIURL("unpublished"))
	assert.Equal(t, "", DOIURL(""))
}
