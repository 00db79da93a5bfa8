package history

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitJSON_FrecencyKeyFollowsSource(t *testing.T) {
	score := int64(7)
	tests := []struct {
		name  string
		visit Visit
		want  string
	}{
		{"chrome", Visit{URL: "https://a.com", TotalVisits: 11}, `{"url":"https://a.com","title":null,"last_visit_date":null,"total_visits":11}`},
		{"firefox null frecency", Visit{URL: "https://a.com", TotalVisits: 11, Scored: true}, `{"url":"https://a.com","title":null,"last_visit_date":null,"frecency":null,"total_visits":11}`},
		{"firefox frecency", Visit{URL: "https://a.com", Frecency: &score, TotalVisits: 11, Scored: true}, `{"url":"https://a.com","title":null,"last_visit_date":null,"frecency":7,"total_visits":11}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.visit)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))

			var back Visit
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tc.visit, back)
		})
	}
}

func TestVisitJSON_KeepsHTMLCharacters(t *testing.T) {
	data, err := json.Marshal(Visit{URL: "https://a.com/?q=<b>&c", TotalVisits: 1})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"https://a.com/?q=<b>&c"`)
}
