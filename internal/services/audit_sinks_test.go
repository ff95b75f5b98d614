package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nate0911/FancyKarma-Backend/internal/config"
	"github.com/Nate0911/FancyKarma-Backend/internal/models"
	"github.com/Nate0911/FancyKarma-Backend/internal/sheets"
	"github.com/Nate0911/FancyKarma-Backend/internal/store"
)

func TestStoreSink_WritesBatch(t *testing.T) {
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	sink := NewStoreSink(s)
	assert.Equal(t, "database", sink.Name())

	now := time.Now()
	err = sink.Write(context.Background(), []*models.VerificationLog{
		{
			ID:        uuid.New().String(),
			Status:    models.VerdictPass,
			Username:  "spez",
			Karma:     300,
			AgeMonths: 12,
			Timestamp: now,
			CreatedAt: now,
		},
	})
	require.NoError(t, err)

	logs, _, err := s.GetVerificationLogsPaginated(
		store.NewPaginationParams(1, 20, ""),
		store.VerificationLogFilters{},
	)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "spez", logs[0].Username)
}

func TestSheetSink_RendersRows(t *testing.T) {
	var received struct {
		Values [][]string `json:"values"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := sheets.NewClient(&config.Config{
		SheetWebhookURL: server.URL,
		SheetName:       "karmaLog",
		SheetAuthMode:   "none",
		SheetAuthHeader: "X-API-Secret",
		SheetTimeout:    5 * time.Second,
	})
	require.NoError(t, err)

	sink := NewSheetSink(client, false)
	assert.Equal(t, "sheet", sink.Name())

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err = sink.Write(context.Background(), []*models.VerificationLog{
		{
			Status:    models.VerdictPass,
			Username:  "spez",
			Karma:     300,
			AgeMonths: 12,
			Timestamp: ts,
		},
		{
			Status:    models.VerdictFail,
			Karma:     10,
			AgeMonths: 1,
			Reason:    "Not enough karma or age",
			Timestamp: ts,
		},
	})
	require.NoError(t, err)

	require.Len(t, received.Values, 2)
	assert.Equal(t, []string{
		"2025-06-01T12:00:00Z", "PASS", "spez", "300", "Age: 12",
	}, received.Values[0])
	assert.Equal(t, []string{
		"2025-06-01T12:00:00Z", "FAIL", "unknown", "10", "Not enough karma or age",
	}, received.Values[1])
}
