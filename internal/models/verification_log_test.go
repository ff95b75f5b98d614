package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSheetRow_FiveColumnLayout(t *testing.T) {
	entry := &VerificationLog{
		Status:    VerdictFail,
		Username:  "newbie",
		Karma:     42,
		AgeMonths: 3,
		Reason:    "Not enough karma or age",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	row := entry.SheetRow(false)

	assert.Equal(t, []string{
		"2025-06-01T12:00:00Z",
		"FAIL",
		"newbie",
		"42",
		"Not enough karma or age",
	}, row)
}

func TestSheetRow_AgeFoldedIntoReasonOnPass(t *testing.T) {
	entry := &VerificationLog{
		Status:    VerdictPass,
		Username:  "spez",
		Karma:     500,
		AgeMonths: 14,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	row := entry.SheetRow(false)

	assert.Len(t, row, 5)
	assert.Equal(t, "PASS", row[1])
	assert.Equal(t, "Age: 14", row[4])
}

func TestSheetRow_SixColumnLayout(t *testing.T) {
	entry := &VerificationLog{
		Status:    VerdictBanned,
		Username:  "shadow",
		Karma:     9000,
		AgeMonths: 60,
		Reason:    "Account is suspended or banned",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	row := entry.SheetRow(true)

	assert.Equal(t, []string{
		"2025-06-01T12:00:00Z",
		"BANNED",
		"shadow",
		"9000",
		"60",
		"Account is suspended or banned",
	}, row)
}

func TestSheetRow_MissingUsernameBecomesUnknown(t *testing.T) {
	entry := &VerificationLog{
		Status:    VerdictFail,
		Reason:    "Invalid authorization code",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	row := entry.SheetRow(false)

	assert.Equal(t, "unknown", row[2])
}

func TestSheetRow_ZeroKarmaRendersEmptyCell(t *testing.T) {
	// Invalid-code rows carry no profile data; the karma cell stays blank
	entry := &VerificationLog{
		Status:    VerdictFail,
		Reason:    "Invalid authorization code",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	row := entry.SheetRow(false)

	assert.Equal(t, []string{
		"2025-06-01T12:00:00Z",
		"FAIL",
		"unknown",
		"",
		"Invalid authorization code",
	}, row)
}
