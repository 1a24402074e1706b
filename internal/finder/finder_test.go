package finder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservas-backend/config"
	"reservas-backend/internal/model"
)

func TestClientRecommend(t *testing.T) {
	var gotPrompt string
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req finderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Prompt

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Recommendation{
			RecommendedEnvironmentID: "2",
			Explanation:              "Lab C has a projector and seats 40.",
		})
	}))
	defer server.Close()

	client := NewClient(config.FinderConfig{
		URL:            server.URL,
		Headers:        map[string]string{"Authorization": "Bearer k"},
		Model:          "finder-1",
		TimeoutSeconds: 5,
	})

	environments := []model.Environment{
		{ID: 1, Name: "Lab B", Type: model.EnvironmentType{Name: "Lab"}},
		{ID: 2, Name: "Lab C", Type: model.EnvironmentType{Name: "Lab"},
			Resources: []*model.Resource{{Name: "Projector"}}},
	}

	rec, err := client.Recommend(context.Background(), "room with a projector", environments)
	require.NoError(t, err)
	assert.Equal(t, "2", rec.RecommendedEnvironmentID)
	assert.NotEmpty(t, rec.Explanation)

	assert.Equal(t, "Bearer k", gotAuth)
	assert.Contains(t, gotPrompt, "room with a projector")
	assert.Contains(t, gotPrompt, `name="Lab C"`)
	assert.Contains(t, gotPrompt, "resources=Projector")
}

func TestClientRecommend_NoMatchAndErrors(t *testing.T) {
	t.Run("empty id signals no match", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(Recommendation{Explanation: "Nothing fits."})
		}))
		defer server.Close()

		client := NewClient(config.FinderConfig{URL: server.URL, TimeoutSeconds: 5})
		rec, err := client.Recommend(context.Background(), "a stadium", nil)
		require.NoError(t, err)
		assert.Empty(t, rec.RecommendedEnvironmentID)
		assert.Equal(t, "Nothing fits.", rec.Explanation)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(config.FinderConfig{URL: server.URL, TimeoutSeconds: 5})
		_, err := client.Recommend(context.Background(), "anything", nil)
		assert.Error(t, err)
	})
}
