package normalize

// indonesianStopwords are function words and greetings common in customer-care replies.
var indonesianStopwords = []string{
	"yang", "dan", "di", "dengan", "untuk", "pada", "adalah", "ini", "itu", "dari",
	"ke", "tidak", "atau", "juga", "akan", "telah", "dapat", "ada", "dalam", "saya",
	"kamu", "dia", "mereka", "kami", "sudah", "belum", "masih", "sangat", "sekali", "hanya",
	"bisa", "mau", "ingin", "perlu", "harus", "jadi", "atas", "nya", "kok", "ya",
	"yah", "iya", "ok", "oke", "dong", "deh", "nih", "sih", "loh",
}

// domainStopwords are brand handles, agent names and chat fillers from the scraped account.
var domainStopwords = []string{
	"kak", "ka", "kakak", "gan", "sis", "bro", "min", "admin", "cs", "halo",
	"hai", "selamat", "pagi", "siang", "sore", "malam", "mohon", "tolong", "cek", "thanks",
	"thx", "makasih", "terimakasih", "makasi", "terima", "kasih", "nala", "pau", "vioni", "wkwk",
	"hehe", "hihi", "indihome",
}

var profanity = []string{
	"kontol", "anjing", "bangsat", "bajingan", "memek", "pepek", "kampret", "goblok", "tolol", "tai",
	"brengsek", "jancuk", "keparat", "sialan", "perek", "sundal", "lonte", "pelacur", "babi", "ajg",
	"anjng", "anj",
}

func buildBlocklist(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(indonesianStopwords)+len(domainStopwords)+len(profanity)+len(extra))

	for _, group := range [][]string{indonesianStopwords, domainStopwords, profanity, extra} {
		for _, w := range group {
			if w == "" {
				continue
			}

			set[lowerCaser().String(w)] = struct{}{}
		}
	}

	return set
}
