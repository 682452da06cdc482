package signals

import "sort"

// Canonical is every signal bundle extracted from one inspection record.
type Canonical struct {
	InspectionID string              `json:"inspectionId,omitempty"`
	Baseline     Baseline            `json:"baseline"`
	Circuits     Circuits            `json:"circuits"`
	Assets       Assets              `json:"assets"`
	Lifecycle    Lifecycle           `json:"lifecycle"`
	Photos       map[string][]string `json:"photos,omitempty"`
}

// Extract runs every extractor over a decoded record.
func Extract(raw any) Canonical {
	t := NewTree(raw)
	c := Canonical{
		Baseline:  ExtractBaseline(t),
		Circuits:  ExtractCircuits(t),
		Assets:    ExtractAssets(t),
		Lifecycle: ExtractLifecycle(t),
		Photos:    extractPhotos(t),
	}
	if v, ok := Resolve(t, inspectionIDPaths...); ok {
		c.InspectionID = v.String()
	}
	return c
}

// PhotosFor returns the evidence references recorded against a topic.
func (c Canonical) PhotosFor(topics ...string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, topic := range topics {
		for _, ref := range c.Photos[topic] {
			if _, dup := seen[ref]; dup {
				continue
			}
			seen[ref] = struct{}{}
			out = append(out, ref)
		}
	}
	return out
}

// extractPhotos reads photos.<topic> lists of evidence references.
func extractPhotos(t Tree) map[string][]string {
	raw, ok := t.Lookup(photosPath)
	if !ok {
		return nil
	}
	topics, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	out := map[string][]string{}
	for topic, entry := range topics {
		list, ok := entry.([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			if ref := (Value{Raw: item}).String(); ref != "" {
				out[topic] = append(out[topic], ref)
			}
		}
		sort.Strings(out[topic])
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
