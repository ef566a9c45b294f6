package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOpenPolicy(t *testing.T) {
	assert.Equal(t, OpenOnActivity, ParseOpenPolicy("OPEN_ON_ACTIVITY"))
	assert.Equal(t, OpenOnMessage, ParseOpenPolicy("OPEN_ON_MESSAGE"))
	assert.Equal(t, OpenOnImportantMessage, ParseOpenPolicy("OPEN_ON_IMPORTANT_MESSAGE"))
}

func TestParseOpenPolicyUnknownFallsBack(t *testing.T) {
	assert.Equal(t, OpenOnMessage, ParseOpenPolicy(""))
	assert.Equal(t, OpenOnMessage, ParseOpenPolicy("garbage"))
}

func TestOpenPolicyStringRoundTrip(t *testing.T) {
	for _, p := range []OpenPolicy{OpenOnActivity, OpenOnMessage, OpenOnImportantMessage} {
		assert.Equal(t, p, ParseOpenPolicy(p.String()))
	}
}

func TestShouldOpen(t *testing.T) {
	cases := []struct {
		name      string
		policy    OpenPolicy
		history   bool
		important bool
		want      bool
	}{
		{"activity opens on live traffic", OpenOnActivity, false, false, true},
		{"activity opens on history replay", OpenOnActivity, true, false, true},
		{"message opens on live traffic", OpenOnMessage, false, false, true},
		{"message ignores history replay", OpenOnMessage, true, false, false},
		{"important-only ignores plain traffic", OpenOnImportantMessage, false, false, false},
		{"important-only ignores plain history", OpenOnImportantMessage, true, false, false},
		{"important opens regardless of policy", OpenOnImportantMessage, false, true, true},
		{"important opens even from history", OpenOnMessage, true, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.policy.ShouldOpen(tc.history, tc.important))
		})
	}
}
