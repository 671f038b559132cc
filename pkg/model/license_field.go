package model

import "strings"

// LicenseField is the normalized form of a crate's declared license
// expression. It has three states:
//
//   - absent: the manifest declared no license
//   - parsed: the expression decomposed into its atomic identifiers, in
//     declaration order, so each can be reported independently
//   - unparseable: the raw string is kept opaque so it still surfaces as
//     evidence even though it could not be decomposed
//
// Produced once by ParseLicenseField at record-creation time and never
// mutated.
type LicenseField struct {
	Raw string   `json:"raw,omitempty"`
	IDs []string `json:"ids,omitempty"`
}

// ParseLicenseField decomposes a declared license expression into atomic
// identifiers. Compound expressions like "MIT OR Apache-2.0" and the legacy
// slash form "MIT/Apache-2.0" both split into their constituents. The
// boolean structure is not evaluated; that is a policy concern.
//
// Expressions carrying a WITH exception clause are kept opaque: the
// exception binds to one operand, so splitting would misreport it as a
// standalone license.
func ParseLicenseField(raw string) LicenseField {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LicenseField{}
	}

	cleaned := strings.NewReplacer("(", " ", ")", " ", "/", " ").Replace(raw)

	var ids []string
	for _, tok := range strings.Fields(cleaned) {
		switch tok {
		case "AND", "OR":
			continue
		case "WITH":
			return LicenseField{Raw: raw}
		}
		ids = append(ids, tok)
	}
	if len(ids) == 0 {
		return LicenseField{Raw: raw}
	}
	return LicenseField{Raw: raw, IDs: ids}
}

// IsAbsent reports whether no license was declared at all.
func (f LicenseField) IsAbsent() bool {
	return f.Raw == "" && len(f.IDs) == 0
}

// IsUnparseable reports whether a license was declared but could not be
// decomposed into atomic identifiers.
func (f LicenseField) IsUnparseable() bool {
	return f.Raw != "" && len(f.IDs) == 0
}

// Declared returns the atomic identifiers in declaration order. For an
// unparseable field the opaque raw string is returned as a single entry so
// the declaration is never silently dropped.
func (f LicenseField) Declared() []string {
	if len(f.IDs) > 0 {
		return f.IDs
	}
	if f.Raw != "" {
		return []string{f.Raw}
	}
	return nil
}
