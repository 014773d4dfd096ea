package console

import "github.com/GTDGit/vendor_console/pkg/vendoractivo"

// Stats are the summary counters shown above the record grid. Vendor and
// frozen counts cover the loaded page only.
type Stats struct {
	TotalOnServer int `json:"totalOnServer" yaml:"totalOnServer"`
	VendorCount   int `json:"vendorCount" yaml:"vendorCount"`
	FrozenCount   int `json:"frozenCount" yaml:"frozenCount"`
}

func ComputeStats(records []vendoractivo.Record, page Pagination) Stats {
	s := Stats{TotalOnServer: page.Total}
	for _, r := range records {
		if r.Role == vendoractivo.RoleVendor {
			s.VendorCount++
		}
		if r.IsFrozen {
			s.FrozenCount++
		}
	}
	return s
}
