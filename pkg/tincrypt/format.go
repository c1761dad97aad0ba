package tincrypt

// Kind selects the display pattern for a formatted TIN.
type Kind string

const (
	// SSN formats as XXX-XX-XXXX.
	SSN Kind = "ssn"
	// EIN formats as XX-XXXXXXX.
	EIN Kind = "ein"
)

// Format renders a TIN for display. Separators are stripped first; when the
// result is exactly 9 characters the kind's dash pattern is inserted,
// otherwise the stripped string is returned as-is. This is a best-effort
// presentation helper, not a validator: length enforcement belongs to the
// intake form.
func Format(tin string, kind Kind) string {
	clean := Normalize(tin)
	if len(clean) != 9 {
		return clean
	}

	switch kind {
	case EIN:
		return clean[:2] + "-" + clean[2:]
	default:
		return clean[:3] + "-" + clean[3:5] + "-" + clean[5:]
	}
}
