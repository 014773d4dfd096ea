package console

import (
	"fmt"
	"time"

	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

// View is a point-in-time rendering model of the console.
type View struct {
	Records    []RecordView `json:"records" yaml:"records"`
	Pagination Pagination   `json:"pagination" yaml:"pagination"`
	Stats      Stats        `json:"stats" yaml:"stats"`
	Window     []PageItem   `json:"window,omitempty" yaml:"window,omitempty"`
	HasPrev    bool         `json:"hasPrev" yaml:"hasPrev"`
	HasNext    bool         `json:"hasNext" yaml:"hasNext"`
	Loading    bool         `json:"loading" yaml:"loading"`
	Banner     string       `json:"banner,omitempty" yaml:"banner,omitempty"`
	Locked     []string     `json:"locked,omitempty" yaml:"locked,omitempty"`
}

// RecordView is a record plus the presentation state derived for it.
type RecordView struct {
	ID              string            `json:"id" yaml:"id"`
	DisplayName     string            `json:"displayName" yaml:"displayName"`
	Email           string            `json:"email" yaml:"email"`
	Role            vendoractivo.Role `json:"role" yaml:"role"`
	ContactPhone    *string           `json:"contactPhone,omitempty" yaml:"contactPhone,omitempty"`
	Verified        bool              `json:"verified" yaml:"verified"`
	IsFrozen        bool              `json:"isFrozen" yaml:"isFrozen"`
	CreatedAt       time.Time         `json:"createdAt" yaml:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt" yaml:"updatedAt"`
	MemberSince     string            `json:"memberSince" yaml:"memberSince"`
	CanListProducts bool              `json:"canListProducts" yaml:"canListProducts"`
	Locked          bool              `json:"locked" yaml:"locked"`
}

func newRecordView(r vendoractivo.Record, locked bool) RecordView {
	return RecordView{
		ID:              r.ID,
		DisplayName:     r.DisplayName,
		Email:           r.Email,
		Role:            r.Role,
		ContactPhone:    r.ContactPhone,
		Verified:        r.Verified,
		IsFrozen:        r.IsFrozen,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		MemberSince:     FormatDate(r.CreatedAt),
		CanListProducts: !r.IsFrozen,
		Locked:          locked,
	}
}

var shortMonthsES = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

// FormatDate renders t as a Spanish short date, e.g. "12 mar 2024".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), shortMonthsES[t.Month()-1], t.Year())
}
