package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/GTDGit/vendor_console/internal/console"
)

type format string

const (
	formatTable format = "table"
	formatJSON  format = "json"
	formatYAML  format = "yaml"
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(s)); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q: use table, json or yaml", s)
	}
}

// encode writes v as json or yaml.
func encode(w io.Writer, f format, v any) error {
	switch f {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// renderView prints a console snapshot in the requested format.
func renderView(w io.Writer, f format, view console.View) error {
	if f != formatTable {
		return encode(w, f, view)
	}

	if view.Banner != "" {
		fmt.Fprintf(w, "! %s\n\n", view.Banner)
	}
	fmt.Fprintf(w, "Total on server: %d   Vendors: %d   Frozen: %d\n\n",
		view.Stats.TotalOnServer, view.Stats.VendorCount, view.Stats.FrozenCount)

	if len(view.Records) == 0 {
		fmt.Fprintln(w, "No vendors found.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tSTATUS\tVERIFIED\tPHONE\tMEMBER SINCE")
		for _, r := range view.Records {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.DisplayName, r.Email, r.Role, status(r), yesNo(r.Verified), phone(r), r.MemberSince)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		for _, r := range view.Records {
			if r.IsFrozen {
				fmt.Fprintf(w, "\n%s is frozen and cannot upload products.", r.DisplayName)
			}
		}
		fmt.Fprintln(w)
	}

	if strip := pageStrip(view); strip != "" {
		fmt.Fprintf(w, "\n%s\n", strip)
	}
	return nil
}

// pageStrip renders e.g. "« 1 … 4 [5] 6 … 10 »". Empty for a single page.
func pageStrip(view console.View) string {
	if len(view.Window) == 0 {
		return ""
	}
	parts := make([]string, 0, len(view.Window)+2)
	if view.HasPrev {
		parts = append(parts, "«")
	}
	for _, item := range view.Window {
		switch {
		case item.Ellipsis:
			parts = append(parts, "…")
		case item.Current:
			parts = append(parts, fmt.Sprintf("[%d]", item.Number))
		default:
			parts = append(parts, fmt.Sprintf("%d", item.Number))
		}
	}
	if view.HasNext {
		parts = append(parts, "»")
	}
	return strings.Join(parts, " ")
}

func status(r console.RecordView) string {
	if r.IsFrozen {
		return "frozen"
	}
	return "active"
}

func phone(r console.RecordView) string {
	if r.ContactPhone == nil || *r.ContactPhone == "" {
		return "-"
	}
	return *r.ContactPhone
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
