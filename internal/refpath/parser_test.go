// internal/refpath/parser_test.go
package refpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		raw          string
		expectErr    bool
		expectedPath *Path
	}{
		{
			name: "simple path",
			raw:  "a.b.c",
			expectedPath: &Path{
				Steps: []Step{NameStep("a"), NameStep("b"), NameStep("c")},
			},
		},
		{
			name: "numeric indices",
			raw:  "servers.0.port",
			expectedPath: &Path{
				Steps: []Step{NameStep("servers"), IndexStep(0), NameStep("port")},
			},
		},
		{
			name: "ascent run between components",
			raw:  "var2.2..0",
			expectedPath: &Path{
				Steps: []Step{NameStep("var2"), IndexStep(2), AscendStep(1), IndexStep(0)},
			},
		},
		{
			name: "leading ascent",
			raw:  "..sibling",
			expectedPath: &Path{
				Steps: []Step{AscendStep(1), NameStep("sibling")},
			},
		},
		{
			name: "trailing ascent",
			raw:  "a.0...",
			expectedPath: &Path{
				Steps: []Step{NameStep("a"), IndexStep(0), AscendStep(2)},
			},
		},
		{
			name: "entry sigil",
			raw:  "node0.*node1",
			expectedPath: &Path{
				Steps: []Step{NameStep("node0"), EntryStep("node1")},
			},
		},
		{
			name:         "empty string is self",
			raw:          "",
			expectedPath: &Path{},
		},
		{
			name:         "single dot is self",
			raw:          ".",
			expectedPath: &Path{},
		},
		{
			name: "dots only",
			raw:  "...",
			expectedPath: &Path{
				Steps: []Step{AscendStep(2)},
			},
		},
		{
			name:      "error - leading zero index",
			raw:       "a.01",
			expectErr: true,
		},
		{
			name:      "error - sigil on index",
			raw:       "a.*0",
			expectErr: true,
		},
		{
			name:      "error - bare sigil",
			raw:       "a.*",
			expectErr: true,
		},
		{
			name:      "error - hyphenated name",
			raw:       "a.b-c",
			expectErr: true,
		},
		{
			name:      "error - name starting with digit",
			raw:       "1abc",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.raw)

			if tc.expectErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, p)
			assert.True(t, tc.expectedPath.Equal(p), "parsed path %s does not match expected %s", p, tc.expectedPath)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("a.-") })
}
