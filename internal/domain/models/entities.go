package models

// EntitySet holds the structured entities extracted from scanned content.
// Every slice is deduplicated preserving first occurrence.
type EntitySet struct {
	URLs            []string `json:"urls"`
	Phones          []string `json:"phones"`
	Emails          []string `json:"emails"`
	UPIIDs          []string `json:"upi_ids"`
	CryptoAddresses []string `json:"crypto_addresses"`
}

// IsEmpty reports whether no entities were extracted
func (e EntitySet) IsEmpty() bool {
	return len(e.URLs) == 0 && len(e.Phones) == 0 && len(e.Emails) == 0 &&
		len(e.UPIIDs) == 0 && len(e.CryptoAddresses) == 0
}

// All returns every entity value in category order
func (e EntitySet) All() []string {
	out := make([]string, 0,
		len(e.URLs)+len(e.Phones)+len(e.Emails)+len(e.UPIIDs)+len(e.CryptoAddresses))
	out = append(out, e.URLs...)
	out = append(out, e.Phones...)
	out = append(out, e.Emails...)
	out = append(out, e.UPIIDs...)
	out = append(out, e.CryptoAddresses...)
	return out
}

// Merge combines two entity sets, keeping e's entries first and
// deduplicating by exact string match.
func (e EntitySet) Merge(other EntitySet) EntitySet {
	return EntitySet{
		URLs:            DedupStrings(append(append([]string{}, e.URLs...), other.URLs...)),
		Phones:          DedupStrings(append(append([]string{}, e.Phones...), other.Phones...)),
		Emails:          DedupStrings(append(append([]string{}, e.Emails...), other.Emails...)),
		UPIIDs:          DedupStrings(append(append([]string{}, e.UPIIDs...), other.UPIIDs...)),
		CryptoAddresses: DedupStrings(append(append([]string{}, e.CryptoAddresses...), other.CryptoAddresses...)),
	}
}

// DedupStrings removes duplicates preserving first occurrence
func DedupStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
