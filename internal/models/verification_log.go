package models

import (
	"fmt"
	"strings"
	"time"
)

// VerdictStatus represents the outcome of a verification attempt
type VerdictStatus string

const (
	VerdictPass   VerdictStatus = "pass"
	VerdictFail   VerdictStatus = "fail"
	VerdictBanned VerdictStatus = "banned"
)

// VerificationLog is one immutable audit row per verification attempt
type VerificationLog struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	// Verdict
	Status    VerdictStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	Username  string        `gorm:"type:varchar(100);index"         json:"username"`
	Karma     int64         `gorm:"not null"                        json:"karma"`
	AgeMonths int           `gorm:"not null"                        json:"age_months"`
	Reason    string        `gorm:"type:varchar(255)"               json:"reason,omitempty"`

	// Request metadata
	ActorIP string `gorm:"type:varchar(45)" json:"actor_ip,omitempty"` // Support IPv6

	// Timestamps (no UpdatedAt - immutable logs)
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
}

// SheetRow renders the log entry as a spreadsheet row. The historical
// layout is five columns with the age folded into the reason cell;
// splitAge switches to six columns with age on its own.
func (v *VerificationLog) SheetRow(splitAge bool) []string {
	username := v.Username
	if username == "" {
		username = "unknown"
	}

	reason := v.Reason
	if reason == "" {
		reason = fmt.Sprintf("Age: %d", v.AgeMonths)
	}

	if splitAge {
		return []string{
			v.Timestamp.Format(time.RFC3339),
			strings.ToUpper(string(v.Status)),
			username,
			fmt.Sprintf("%d", v.Karma),
			fmt.Sprintf("%d", v.AgeMonths),
			v.Reason,
		}
	}

	// The historical log left the karma cell empty when no profile was
	// fetched (invalid-code and error rows)
	karma := ""
	if v.Karma != 0 {
		karma = fmt.Sprintf("%d", v.Karma)
	}

	return []string{
		v.Timestamp.Format(time.RFC3339),
		strings.ToUpper(string(v.Status)),
		username,
		karma,
		reason,
	}
}
