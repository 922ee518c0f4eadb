package normalize

import "sort"

// HashtagCount is the number of posts using a hashtag.
type HashtagCount struct {
	Hashtag string `json:"hashtag"`
	Count   int    `json:"count"`
}

// ExtractHashtags returns the distinct #tags of raw text without the marker,
// case preserved, in order of first appearance.
func ExtractHashtags(raw string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))

	for _, m := range matches {
		tag := m[1]
		if _, ok := seen[tag]; ok {
			continue
		}

		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags
}

// TopHashtags counts hashtag occurrences across texts and returns the most used.
// Ties keep first-seen order.
func TopHashtags(texts []string, limit int) []HashtagCount {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, text := range texts {
		for _, m := range hashtagPattern.FindAllStringSubmatch(text, -1) {
			tag := "#" + m[1]
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}

			counts[tag]++
		}
	}

	out := make([]HashtagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, HashtagCount{Hashtag: tag, Count: counts[tag]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}
