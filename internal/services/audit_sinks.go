package services

import (
	"context"

	"github.com/Nate0911/FancyKarma-Backend/internal/models"
	"github.com/Nate0911/FancyKarma-Backend/internal/sheets"
	"github.com/Nate0911/FancyKarma-Backend/internal/store"
)

// StoreSink persists audit rows in the database
type StoreSink struct {
	store *store.Store
}

// NewStoreSink creates a database-backed audit sink
func NewStoreSink(s *store.Store) *StoreSink {
	return &StoreSink{store: s}
}

func (s *StoreSink) Name() string {
	return "database"
}

func (s *StoreSink) Write(_ context.Context, entries []*models.VerificationLog) error {
	return s.store.CreateVerificationLogBatch(entries)
}

// SheetSink appends audit rows to the spreadsheet webhook
type SheetSink struct {
	client   *sheets.Client
	splitAge bool
}

// NewSheetSink creates a sheet-webhook audit sink. splitAge selects the
// six-column row layout instead of the historical five-column one.
func NewSheetSink(client *sheets.Client, splitAge bool) *SheetSink {
	return &SheetSink{client: client, splitAge: splitAge}
}

func (s *SheetSink) Name() string {
	return "sheet"
}

func (s *SheetSink) Write(ctx context.Context, entries []*models.VerificationLog) error {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entry.SheetRow(s.splitAge))
	}
	return s.client.AppendRows(ctx, rows)
}
