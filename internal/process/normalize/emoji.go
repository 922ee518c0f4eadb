package normalize

import (
	"sort"
	"strings"
	"unicode"
)

// emojiWords maps emoji that carry sentiment to Indonesian words the models were trained on.
var emojiWords = map[string]string{
	"😊":  "senang",
	"😢":  "sedih",
	"😡":  "marah",
	"😍":  "suka",
	"👍":  "bagus",
	"👎":  "jelek",
	"❤️": "suka",
	"❤":  "suka",
	"💔":  "kecewa",
	"😂":  "lucu",
	"😭":  "menangis",
	"🔥":  "bagus",
	"💯":  "bagus",
	"😀":  "senang",
	"😃":  "senang",
	"😄":  "senang",
	"😁":  "senang",
	"🙏":  "terima kasih",
	"👌":  "oke",
	"✅":  "benar",
	"❌":  "salah",
	"💸":  "mahal",
	"💰":  "murah",
	"📶":  "sinyal",
	"📡":  "internet",
	"🚫":  "tidak",
	"⚡":  "cepat",
	"🐌":  "lambat",
}

// emojiReplacer substitutes longer sequences first so "❤️" wins over "❤".
var emojiReplacer = newEmojiReplacer(emojiWords)

func newEmojiReplacer(table map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}

		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, " "+table[k]+" ")
	}

	return strings.NewReplacer(pairs...)
}

func replaceEmoji(text string) string {
	return dropPictographs(emojiReplacer.Replace(text))
}

// dropPictographs removes emoji and their joiners, selectors and skin tone modifiers.
func dropPictographs(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if isPictograph(r) {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

func isPictograph(r rune) bool {
	switch {
	case r == 0x200D, r == 0x20E3:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	case r >= 0xE0020 && r <= 0xE007F:
		return true
	}

	return unicode.Is(unicode.So, r)
}
